// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"fmt"
	"strings"

	"github.com/solidcoredata/vdvtab/config"
)

// A HeaderEntry is one header line.
type HeaderEntry struct {
	Key    string
	Values []string
}

// Header is the ordered list of lines before the first table.
type Header []HeaderEntry

// Get returns the values of the first line with key, ignoring case.
func (h Header) Get(key string) ([]string, bool) {
	for _, e := range h {
		if strings.EqualFold(e.Key, key) {
			return e.Values, true
		}
	}
	return nil, false
}

// Value returns the first value of the line with key.
func (h Header) Value(key string) string {
	vv, _ := h.Get(key)
	if len(vv) == 0 {
		return ""
	}
	return vv[0]
}

// Charset is the chs; value, ISO8859-1 when absent.
func (h Header) Charset() string {
	if v := h.Value(kwChs); v != "" {
		return v
	}
	return DefaultCharset
}

func (h Header) clone() Header {
	c := make(Header, len(h))
	for i, e := range h {
		c[i] = HeaderEntry{Key: e.Key, Values: append([]string(nil), e.Values...)}
	}
	return c
}

// Header option suffixes that set the standard lines instead of adding one.
const (
	hdrSrc     = "SRC"
	hdrSrcDate = "SRC_DATE"
	hdrSrcTime = "SRC_TIME"
)

var standardHeaderKeys = map[string]bool{
	hdrSrc: true, hdrSrcDate: true, hdrSrcTime: true,
	"CHS": true, "VER": true, "IFV": true, "DVE": true, "FFT": true,
}

// checkHeaderOptions refuses HEADER_ options that would not read back as
// the same header line.
func checkHeaderOptions(opts config.Options) error {
	for _, o := range opts.WithPrefix(OptHeaderPrefix) {
		key := strings.ToLower(o.Key)
		switch {
		case IsKeyword(key) && !standardHeaderKeys[strings.ToUpper(key)]:
			return fmt.Errorf("%w: %s%s, %q is a reserved keyword", ErrInvalidValue, OptHeaderPrefix, o.Key, key)
		case strings.ContainsAny(o.Key, "; \t\r\n\""):
			return fmt.Errorf("%w: header key %q", ErrInvalidValue, o.Key)
		case strings.ContainsAny(o.Value, "\r\n"):
			return fmt.Errorf("%w: header %s has a line break", ErrInvalidValue, o.Key)
		}
	}
	return nil
}

// headerOptions merges HEADER_ options; a later key replaces the value of
// an earlier one and keeps its position.
func headerOptions(sets ...config.Options) config.Options {
	var out config.Options
	for _, opts := range sets {
		for _, o := range opts.WithPrefix(OptHeaderPrefix) {
			replaced := false
			for i := range out {
				if strings.EqualFold(out[i].Key, o.Key) {
					out[i].Value = o.Value
					replaced = true
					break
				}
			}
			if !replaced {
				out = append(out, o)
			}
		}
	}
	return out
}

// buildHeader returns the header lines to write. With standard set, the
// mod, src, chs, ver, ifv, dve and fft lines come first, then the extra
// keys in the order given.
func buildHeader(hdr config.Options, standard bool) Header {
	var h Header
	if standard {
		now := timeNow()
		h = append(h,
			HeaderEntry{Key: kwSrc, Values: []string{
				hdr.String(hdrSrc, DefaultSource),
				hdr.String(hdrSrcDate, now.Format(dateLayout)),
				hdr.String(hdrSrcTime, now.Format(timeLayout)),
			}},
			HeaderEntry{Key: kwChs, Values: []string{hdr.String("CHS", DefaultCharset)}},
			HeaderEntry{Key: kwVer, Values: []string{hdr.String("VER", DefaultVersion)}},
			HeaderEntry{Key: kwIfv, Values: []string{hdr.String("IFV", DefaultVersion)}},
			HeaderEntry{Key: kwDve, Values: []string{hdr.String("DVE", DefaultVersion)}},
			HeaderEntry{Key: kwFft, Values: []string{hdr.String("FFT", "")}},
		)
	}
	for _, o := range hdr {
		if standard && standardHeaderKeys[strings.ToUpper(o.Key)] {
			continue
		}
		h = append(h, HeaderEntry{Key: o.Key, Values: []string{o.Value}})
	}
	return h
}

// headerLines formats a header built by buildHeader.
func headerLines(h Header, standard bool) []string {
	var lines []string
	if standard {
		lines = append(lines, modLine)
	}
	for _, e := range h {
		fields := make([]string, len(e.Values))
		for i, v := range e.Values {
			fields[i] = Quote(v)
		}
		lines = append(lines, FormatLine(e.Key, fields...))
	}
	return lines
}
