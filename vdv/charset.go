// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// charsets maps chs; names to encodings, keyed by the upper case name with
// '-' and '_' removed.
var charsets = map[string]encoding.Encoding{
	"ISO88591":    charmap.ISO8859_1,
	"LATIN1":      charmap.ISO8859_1,
	"ISO885915":   charmap.ISO8859_15,
	"LATIN9":      charmap.ISO8859_15,
	"CP1252":      charmap.Windows1252,
	"WINDOWS1252": charmap.Windows1252,
	"CP850":       charmap.CodePage850,
	"UTF8":        unicode.UTF8,
	"ASCII":       unicode.UTF8,
}

func charsetKey(name string) string {
	r := strings.NewReplacer("-", "", "_", "", " ", "")
	return strings.ToUpper(r.Replace(name))
}

// lookupCharset finds the encoding for a chs; value.
func lookupCharset(name string) (encoding.Encoding, bool) {
	e, ok := charsets[charsetKey(name)]
	return e, ok
}

// charsetOrDefault falls back to ISO8859-1, which maps every byte.
func charsetOrDefault(name string) (encoding.Encoding, bool) {
	if e, ok := lookupCharset(name); ok {
		return e, true
	}
	return charmap.ISO8859_1, false
}

// newEncoder replaces runes the charset can not represent.
func newEncoder(e encoding.Encoding) *encoding.Encoder {
	return encoding.ReplaceUnsupported(e.NewEncoder())
}
