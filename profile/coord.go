// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package profile

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidDegrees = errors.New("profile: degrees out of range")

const (
	msPerDegree = 3600 * 1000
	msPerMinute = 60 * 1000
)

// EncodeDegrees packs decimal degrees as sign*(DDD*10^7 + MM*10^5 + SSsss),
// rounded to the nearest millisecond of arc. DDD has three digits, so
// values must be finite and below 1000 degrees in magnitude.
func EncodeDegrees(deg float64) (int64, error) {
	if math.IsNaN(deg) || math.IsInf(deg, 0) || math.Abs(deg) >= 1000 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDegrees, deg)
	}
	sign := int64(1)
	if deg < 0 {
		sign = -1
		deg = -deg
	}
	total := int64(math.Round(deg * msPerDegree))
	d := total / msPerDegree
	rest := total % msPerDegree
	m := rest / msPerMinute
	ms := rest % msPerMinute
	return sign * (d*10_000_000 + m*100_000 + ms), nil
}

// DecodeDegrees reverses EncodeDegrees.
func DecodeDegrees(packed int64) float64 {
	sign := 1.0
	if packed < 0 {
		sign = -1
		packed = -packed
	}
	d := packed / 10_000_000
	m := (packed / 100_000) % 100
	ms := packed % 100_000
	return sign * (float64(d) + float64(m)/60 + float64(ms)/msPerDegree)
}
