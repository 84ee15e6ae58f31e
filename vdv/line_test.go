// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	list := []struct {
		Name    string
		Text    string
		Keyword string
		Fields  []Field
	}{
		{Name: "keyword only", Text: "eof", Keyword: "eof"},
		{Name: "no fields", Text: "atr;", Keyword: "atr"},
		{Name: "no fields with space", Text: "frm; \r\n", Keyword: "frm"},
		{
			Name:    "plain",
			Text:    "atr; a ;b;  c",
			Keyword: "atr",
			Fields:  []Field{{Text: "a"}, {Text: "b"}, {Text: "c"}},
		},
		{
			Name:    "quoted",
			Text:    `rec; "a""b"; "x;y"; NULL; ""; 12`,
			Keyword: "rec",
			Fields: []Field{
				{Text: `a"b`, Quoted: true},
				{Text: "x;y", Quoted: true},
				{Text: "NULL"},
				{Text: "", Quoted: true},
				{Text: "12"},
			},
		},
		{
			Name:    "empty between separators",
			Text:    "rec; 1;;3",
			Keyword: "rec",
			Fields:  []Field{{Text: "1"}, {Text: ""}, {Text: "3"}},
		},
		{
			Name:    "unterminated quote",
			Text:    `rec; "abc`,
			Keyword: "rec",
			Fields:  []Field{{Text: "abc", Quoted: true}},
		},
	}
	for _, item := range list {
		t.Run(item.Name, func(t *testing.T) {
			require := require.New(t)
			l := ParseLine(item.Text)
			require.Equal(item.Keyword, l.Keyword)
			require.Equal(item.Fields, l.Fields)
		})
	}
}

func TestFieldNull(t *testing.T) {
	require := require.New(t)
	require.True(Field{Text: "NULL"}.IsNull())
	require.False(Field{Text: "NULL", Quoted: true}.IsNull())
	require.False(Field{Text: ""}.IsNull())
}

func TestFormatLine(t *testing.T) {
	require := require.New(t)
	require.Equal("atr;", FormatLine("atr"))
	require.Equal("atr; a; b", FormatLine("atr", "a", "b"))
	require.Equal(`rec; "a""b"; NULL`, FormatLine("rec", Quote(`a"b`), "NULL"))

	l := ParseLine(FormatLine("rec", Quote(`say "hi"; bye`)))
	require.Equal([]string{`say "hi"; bye`}, l.Texts())
}
