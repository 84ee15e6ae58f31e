// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vdv reads and writes the line oriented "KeyValue table" format of
// VDV-452 and IDF exports.
//
/*

A container is either a single file holding every table, or a directory
holding one file per table named <table>.<extension>.

Every line is a keyword, a semicolon and a semicolon separated list of
fields. Fields are trimmed. Text fields are quoted with '"', a quote inside
is doubled. The unquoted token NULL is the null value; "" is the empty
string.

	FILE    = HEADER {TABLE} [EOF]
	HEADER  = {HLINE}
	HLINE   = ("mod" | "src" | "chs" | "ver" | "ifv" | "dve" | "fft" | <any>) ";" FIELDS
	TABLE   = "tbl;" NAME NL ATR FRM {REC} [END]
	ATR     = "atr;" {NAME ";"} NL
	FRM     = "frm;" {KIND ";"} NL
	KIND    = "char[" N "]" | "num[" P "." S "]" | "boolean"
	REC     = "rec;" {VALUE ";"} NL
	END     = "end;" COUNT NL
	EOF     = "eof;" COUNT [NL]

A file written by this package looks like:

	mod; DD.MM.YYYY; HH:MM:SS; free
	src; "UNKNOWN"; "01.01.1970"; "00.00.00"
	chs; "ISO8859-1"
	ver; "1.4"
	ifv; "1.4"
	dve; "1.4"
	fft; ""
	tbl; lyr_1
	atr; str_field; int_field; bool_field
	frm; char[80]; num[10.0]; boolean
	rec; "a""b"; 12; 1
	rec; NULL; NULL; NULL
	end; 2
	eof; 1

In directory mode a table file only holds the ATR, FRM, REC and END lines.

The count on an end; line is advisory when reading: every rec; line up to
the next tbl;, eof; or the end of the input belongs to the current table,
including rec; lines found after end;. A missing end; or eof; line, or a
missing final newline, is accepted.

The chs; header line selects the character set of the lines that follow.
ISO8859-1 is assumed until one is seen.

Tables are written in the order they were created and only one table of a
single file container can be receiving records at a time. The first record
of a table flushes every table created before it and ends the table that
was receiving records; a table that has been ended can not take more
records.

Soft problems, such as a value that does not parse for its kind or an end;
count that does not match, are reported as Diagnostics and logged; they do
not fail the call.
*/
package vdv
