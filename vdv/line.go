// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"strings"
)

const nullToken = "NULL"

// A Field is one value of a line, unquoted.
type Field struct {
	Text   string
	Quoted bool
}

// IsNull reports whether the field is the bare NULL token.
func (f Field) IsNull() bool {
	return !f.Quoted && f.Text == nullToken
}

// A Line is a keyword and its fields.
type Line struct {
	Keyword string
	Fields  []Field
}

// Texts returns the text of every field.
func (l Line) Texts() []string {
	tt := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		tt[i] = f.Text
	}
	return tt
}

// ParseLine splits a line into its keyword and fields. A trailing "\r" is
// ignored. A line without a semicolon is only a keyword.
func ParseLine(text string) Line {
	text = strings.TrimRight(text, "\r\n")
	idx := strings.IndexByte(text, ';')
	if idx < 0 {
		return Line{Keyword: strings.TrimSpace(text)}
	}
	l := Line{Keyword: strings.TrimSpace(text[:idx])}
	rest := text[idx+1:]
	if strings.TrimSpace(rest) == "" {
		return l
	}
	for {
		var f Field
		f, rest = nextField(rest)
		l.Fields = append(l.Fields, f)
		if len(rest) == 0 {
			break
		}
		// rest starts with the separator.
		rest = rest[1:]
	}
	return l
}

// nextField reads one field and returns the remainder, which is empty or
// begins with ';'.
func nextField(s string) (Field, string) {
	s = strings.TrimLeft(s, " \t")
	if !strings.HasPrefix(s, `"`) {
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return Field{Text: strings.TrimSpace(s)}, ""
		}
		return Field{Text: strings.TrimSpace(s[:end])}, s[end:]
	}

	sb := &strings.Builder{}
	i := 1
	for i < len(s) {
		c := s[i]
		if c != '"' {
			sb.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '"' {
			sb.WriteByte('"')
			i += 2
			continue
		}
		i++
		break
	}
	// Anything between the closing quote and the separator is dropped.
	rest := s[i:]
	if end := strings.IndexByte(rest, ';'); end >= 0 {
		rest = rest[end:]
	} else {
		rest = ""
	}
	return Field{Text: sb.String(), Quoted: true}, rest
}

// Quote wraps s in quotes, doubling any quote inside.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FormatLine joins a keyword and already encoded fields. A line without
// fields is written as "kw;".
func FormatLine(keyword string, fields ...string) string {
	if len(fields) == 0 {
		return keyword + ";"
	}
	return keyword + "; " + strings.Join(fields, "; ")
}
