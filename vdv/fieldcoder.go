// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/solidcoredata/vdvtab/profile"
)

// FieldCoder converts values for one kind of attribute. Null values never
// reach a FieldCoder.
type FieldCoder interface {
	// Convert checks that v can be stored in the attribute and returns it
	// in the form it is stored.
	Convert(attr *Attribute, v Value) (Value, error)

	// Encode formats a converted value as the text of a rec; field.
	Encode(attr *Attribute, v Value) string

	// Decode reads the text of a non-null rec; field.
	Decode(attr *Attribute, f Field) (Value, error)
}

func coderFor(k Kind) FieldCoder {
	switch k.Type {
	case KindNum:
		if k.Scale == 0 {
			return coderInteger{}
		}
		return coderDecimal{}
	case KindBoolean:
		return coderBoolean{}
	}
	return coderChar{}
}

func convertValue(attr *Attribute, v Value) (Value, error) {
	if v.IsNull() {
		return Null, nil
	}
	return coderFor(attr.Kind).Convert(attr, v)
}

func encodeValue(attr *Attribute, v Value) string {
	if v.IsNull() {
		return nullToken
	}
	return coderFor(attr.Kind).Encode(attr, v)
}

func decodeField(attr *Attribute, f Field) (Value, error) {
	if f.IsNull() || (!f.Quoted && f.Text == "" && attr.Kind.Type != KindChar) {
		return Null, nil
	}
	return coderFor(attr.Kind).Decode(attr, f)
}

func invalid(attr *Attribute, v interface{}) error {
	return fmt.Errorf("%w: %q (%s) can not hold %v", ErrInvalidValue, attr.Name, attr.Kind, v)
}

type coderChar struct{}

// Convert refuses line breaks; a rec; line can not span lines.
func (coderChar) Convert(attr *Attribute, v Value) (Value, error) {
	if v.typ != TextValue {
		v = Text(v.Text())
	}
	if strings.ContainsAny(v.s, "\r\n") {
		return Null, invalid(attr, strconv.Quote(v.s))
	}
	return v, nil
}
func (coderChar) Encode(attr *Attribute, v Value) string {
	return Quote(v.Text())
}
func (coderChar) Decode(attr *Attribute, f Field) (Value, error) {
	return Text(f.Text), nil
}

type coderInteger struct{}

func (coderInteger) Convert(attr *Attribute, v Value) (Value, error) {
	switch v.typ {
	case IntegerValue:
		return v, nil
	case BoolValue:
		if v.b {
			return Integer(1), nil
		}
		return Integer(0), nil
	case RealValue:
		if attr.Coordinate {
			packed, err := profile.EncodeDegrees(v.f)
			if err != nil {
				return Null, fmt.Errorf("%w: %q: %w", ErrInvalidValue, attr.Name, err)
			}
			return Integer(packed), nil
		}
		if !fitsInt64(v.f) {
			return Null, invalid(attr, v.f)
		}
		return Integer(int64(v.f)), nil
	case TextValue:
		return parseInteger(attr, v.s)
	}
	return Null, invalid(attr, v)
}
func (coderInteger) Encode(attr *Attribute, v Value) string {
	return strconv.FormatInt(v.i, 10)
}
func (coderInteger) Decode(attr *Attribute, f Field) (Value, error) {
	return parseInteger(attr, f.Text)
}

func parseInteger(attr *Attribute, s string) (Value, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Integer(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !fitsInt64(f) {
		return Null, invalid(attr, strconv.Quote(s))
	}
	return Integer(int64(f)), nil
}

// fitsInt64 reports whether f is a whole number int64 can hold. 2^63
// itself is the first float64 above math.MaxInt64.
func fitsInt64(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}

type coderDecimal struct{}

func (coderDecimal) Convert(attr *Attribute, v Value) (Value, error) {
	switch v.typ {
	case RealValue:
		return v, nil
	case IntegerValue:
		return Real(float64(v.i)), nil
	case BoolValue:
		if v.b {
			return Real(1), nil
		}
		return Real(0), nil
	case TextValue:
		return parseDecimal(attr, v.s)
	}
	return Null, invalid(attr, v)
}
func (coderDecimal) Encode(attr *Attribute, v Value) string {
	return strconv.FormatFloat(v.f, 'f', attr.Kind.Scale, 64)
}
func (coderDecimal) Decode(attr *Attribute, f Field) (Value, error) {
	return parseDecimal(attr, f.Text)
}

func parseDecimal(attr *Attribute, s string) (Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Null, invalid(attr, strconv.Quote(s))
	}
	return Real(f), nil
}

type coderBoolean struct{}

func (coderBoolean) Convert(attr *Attribute, v Value) (Value, error) {
	switch v.typ {
	case BoolValue:
		return v, nil
	case IntegerValue:
		if v.i == 0 || v.i == 1 {
			return Bool(v.i == 1), nil
		}
	case RealValue:
		if v.f == 0 || v.f == 1 {
			return Bool(v.f == 1), nil
		}
	case TextValue:
		return parseBoolean(attr, v.s)
	}
	return Null, invalid(attr, v)
}
func (coderBoolean) Encode(attr *Attribute, v Value) string {
	if v.b {
		return "1"
	}
	return "0"
}
func (coderBoolean) Decode(attr *Attribute, f Field) (Value, error) {
	return parseBoolean(attr, f.Text)
}

func parseBoolean(attr *Attribute, s string) (Value, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y":
		return Bool(true), nil
	case "0", "false", "f", "no", "n":
		return Bool(false), nil
	}
	return Null, invalid(attr, strconv.Quote(s))
}
