// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"bytes"
	"fmt"
	pathpkg "path"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/untillpro/goutils/logger"
	"golang.org/x/exp/slices"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/solidcoredata/vdvtab/config"
	"github.com/solidcoredata/vdvtab/profile"
	"github.com/solidcoredata/vdvtab/vfs"
)

type parseState uint8

const (
	stateHeader      parseState = iota // Before the first table.
	stateTableHeader                   // After tbl;, expecting atr;.
	stateAttrRow                       // After atr;, expecting frm;.
	stateBody                          // Reading rec; lines.
	stateSkipTable                     // Dropped table, waiting for tbl; or eof;.
)

// parser reads the lines of one file. In a single file it adds every
// complete table to the container; in a directory table file it fills the
// fixed table.
type parser struct {
	c     *Container
	file  string
	fixed *Table

	decode bool // Decode rec; values.
	report bool // Report structural problems.
	values bool // Report values that do not decode.

	state  parseState
	table  *Table
	names  []string
	lineNo int
	dec    *encoding.Decoder

	tblSeen   int
	sawEOF    bool
	eofOffset int64
	needsNL   bool
	complete  bool
}

func newParser(c *Container, file string, fixed *Table) *parser {
	return &parser{
		c:     c,
		file:  file,
		fixed: fixed,
		dec:   charmap.ISO8859_1.NewDecoder(),
	}
}

func (p *parser) diag(level Level, err error) {
	table := ""
	if p.table != nil {
		table = p.table.name
	}
	p.c.diags.add(Diagnostic{Level: level, Err: err, File: p.file, Line: p.lineNo, Table: table})
}

func (p *parser) warn(format string, args ...interface{}) {
	if p.report {
		p.diag(LevelWarning, fmt.Errorf(format, args...))
	}
}

// malformed drops the current table.
func (p *parser) malformed(format string, args ...interface{}) {
	if p.report {
		p.diag(LevelError, fmt.Errorf("%w: "+format, append([]interface{}{ErrMalformedSchema}, args...)...))
	}
	p.table = nil
	p.state = stateSkipTable
}

// parse reads data. For a directory table file it reports whether the
// table schema was complete.
func (p *parser) parse(data []byte) bool {
	offset := 0
	for offset < len(data) {
		start := offset
		raw := data[offset:]
		if end := bytes.IndexByte(raw, '\n'); end >= 0 {
			raw = raw[:end]
			offset += end + 1
		} else {
			offset = len(data)
		}
		p.lineNo++

		text, err := p.dec.Bytes(raw)
		if err != nil {
			p.warn("undecodable line: %v", err)
			continue
		}
		if len(bytes.TrimSpace(text)) == 0 {
			continue
		}
		if p.line(ParseLine(string(text)), int64(start)) {
			break
		}
	}
	if !p.sawEOF {
		p.eofOffset = int64(len(data))
		p.needsNL = len(data) > 0 && data[len(data)-1] != '\n'
	}
	p.finishTable()
	return p.complete
}

// line handles one line and reports whether reading stops.
func (p *parser) line(l Line, offset int64) bool {
	kw := strings.ToLower(l.Keyword)
	switch kw {
	case kwEOF:
		p.sawEOF = true
		p.eofOffset = offset
		p.finishTable()
		if p.fixed == nil && len(l.Fields) > 0 {
			if n, err := strconv.Atoi(l.Fields[0].Text); err != nil || n != p.tblSeen {
				p.warn("eof; count %q, %d tables found", l.Fields[0].Text, p.tblSeen)
			}
		}
		return true
	case kwTbl:
		p.tbl(l)
		return false
	}

	switch p.state {
	case stateHeader:
		p.header(kw, l)
	case stateTableHeader:
		if kw != kwAtr {
			p.malformed("%s; where atr; was expected", kw)
			return false
		}
		p.atr(l)
	case stateAttrRow:
		if kw != kwFrm {
			p.malformed("%s; where frm; was expected", kw)
			return false
		}
		p.frm(l)
	case stateBody:
		p.body(kw, l)
	}
	return false
}

func (p *parser) header(kw string, l Line) {
	switch kw {
	case kwChs:
		name := ""
		if len(l.Fields) > 0 {
			name = l.Fields[0].Text
		}
		e, ok := lookupCharset(name)
		if !ok {
			p.warn("unknown charset %q, reading ISO8859-1", name)
			e = charmap.ISO8859_1
		}
		p.dec = e.NewDecoder()
	case kwAtr:
		if p.fixed != nil {
			p.table = p.fixed
			p.atr(l)
			return
		}
		p.warn("atr; before the first tbl; ignored")
		return
	case kwFrm, kwRec, kwEnd:
		p.warn("%s; before the first table ignored", kw)
		return
	}
	if p.fixed == nil {
		p.c.header = append(p.c.header, HeaderEntry{Key: l.Keyword, Values: l.Texts()})
	}
}

func (p *parser) tbl(l Line) {
	if p.fixed != nil {
		if p.state == stateHeader {
			p.table = p.fixed
			p.state = stateTableHeader
			return
		}
		p.warn("tbl; inside a table file ignored")
		return
	}

	p.finishTable()
	p.tblSeen++
	name := ""
	if len(l.Fields) > 0 {
		name = l.Fields[0].Text
	}
	switch {
	case name == "":
		p.malformed("tbl; without a name")
		return
	case p.c.tableByName(name) != nil:
		p.table = &Table{c: p.c, name: name}
		p.malformed("duplicate table %s", name)
		return
	}
	p.table = &Table{c: p.c, name: name}
	p.state = stateTableHeader
}

func (p *parser) atr(l Line) {
	p.names = p.names[:0]
	for _, f := range l.Fields {
		p.names = append(p.names, strings.TrimSpace(f.Text))
	}
	p.state = stateAttrRow
}

func (p *parser) frm(l Line) {
	if len(l.Fields) != len(p.names) {
		p.malformed("%d attributes but %d kinds", len(p.names), len(l.Fields))
		return
	}
	var known *profile.Table
	if p.c.readProfile != nil {
		known, _ = p.c.readProfile.Table(p.table.name)
	}
	attrs := make([]Attribute, 0, len(p.names))
	for i, name := range p.names {
		if name == "" {
			p.malformed("empty attribute name at position %d", i+1)
			return
		}
		if slices.IndexFunc(attrs, func(a Attribute) bool { return a.Name == name }) >= 0 {
			p.malformed("duplicate attribute %q", name)
			return
		}
		kind, err := ParseKind(l.Fields[i].Text)
		if err != nil {
			p.warn("attribute %q: %v, read as char", name, err)
			kind = Char(0)
		}
		a := Attribute{Name: name, Kind: kind}
		if known != nil {
			if pa, ok := known.Attribute(name); ok {
				a.Coordinate = pa.Coordinate
			}
		}
		attrs = append(attrs, a)
	}
	p.table.attrs = attrs
	p.state = stateBody
}

func (p *parser) body(kw string, l Line) {
	t := p.table
	switch kw {
	case kwRec:
		if len(l.Fields) != len(t.attrs) {
			if p.report {
				p.diag(LevelError, fmt.Errorf("%w: %d fields, %d attributes", ErrRecordFieldMismatch, len(l.Fields), len(t.attrs)))
			}
			return
		}
		t.count++
		if !p.decode {
			return
		}
		values := make([]Value, len(l.Fields))
		for i, f := range l.Fields {
			v, err := decodeField(&t.attrs[i], f)
			if err != nil {
				if p.values {
					p.diag(LevelWarning, err)
				}
				v = Null
			}
			values[i] = v
		}
		t.records = append(t.records, &Record{table: t, values: values})
	case kwEnd:
		if len(l.Fields) == 0 {
			p.warn("end; without a count")
			return
		}
		if n, err := strconv.Atoi(l.Fields[0].Text); err != nil || n != t.count {
			p.warn("end; count %q, %d records read", l.Fields[0].Text, t.count)
		}
	default:
		p.warn("%s; inside table ignored", kw)
	}
}

// finishTable keeps the current table if its schema was read.
func (p *parser) finishTable() {
	t := p.table
	if t == nil {
		return
	}
	switch p.state {
	case stateTableHeader, stateAttrRow:
		p.malformed("table %s ends before its atr; and frm; lines", t.name)
		return
	case stateBody:
		if p.fixed != nil {
			p.complete = true
		} else {
			p.c.tables = append(p.c.tables, t)
		}
	}
	p.table = nil
	// Between tables only tbl; and eof; are meaningful.
	p.state = stateSkipTable
}

// looksLikeVDV reports whether the first non blank line starts with a
// known keyword.
func looksLikeVDV(data []byte) bool {
	for len(data) > 0 {
		raw := data
		if end := bytes.IndexByte(data, '\n'); end >= 0 {
			raw, data = data[:end], data[end+1:]
		} else {
			data = nil
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		kw := ParseLine(string(raw)).Keyword
		return IsKeyword(strings.ToLower(kw))
	}
	return false
}

func openFile(fsys vfs.FileSystem, path string, opts config.Options, prof *profile.Profile, update bool) (*Container, error) {
	data, err := vfs.ReadAll(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	if !looksLikeVDV(data) {
		return nil, fmt.Errorf("%w: %s is not a VDV file", ErrOpenFailed, path)
	}

	c := newContainer(fsys, path, opts, true)
	c.readProfile = prof
	if isTableFile(data) {
		// A table file taken out of a directory container.
		if update {
			return nil, fmt.Errorf("%w: %s holds a single table without tbl; and can not be updated", ErrOpenFailed, path)
		}
		t := &Table{c: c, name: tableName(pathpkg.Base(path))}
		p := newParser(c, path, t)
		p.decode, p.report, p.values = true, true, true
		if p.parse(data) {
			c.tables = append(c.tables, t)
		}
		return c, nil
	}

	p := newParser(c, path, nil)
	p.decode, p.report, p.values = true, true, true
	p.parse(data)
	c.eofOffset, c.needsNL = p.eofOffset, p.needsNL
	logger.Verbose("vdv: read", len(c.tables), "tables from", path)
	return c, nil
}

// isTableFile reports whether an atr; line comes before any tbl; line.
func isTableFile(data []byte) bool {
	for len(data) > 0 {
		raw := data
		if end := bytes.IndexByte(data, '\n'); end >= 0 {
			raw, data = data[:end], data[end+1:]
		} else {
			data = nil
		}
		switch strings.ToLower(ParseLine(string(raw)).Keyword) {
		case kwTbl, kwEOF:
			return false
		case kwAtr:
			return true
		}
	}
	return false
}

// tableName is the file name without its extension.
func tableName(file string) string {
	if dot := strings.LastIndexByte(file, '.'); dot > 0 {
		return file[:dot]
	}
	return file
}

func openDirectory(fsys vfs.FileSystem, path string, opts config.Options, prof *profile.Profile, update bool) (*Container, error) {
	names, err := fsys.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	slices.Sort(names)
	size, err := opts.Int(OptCacheTables, DefaultCacheTables)
	if err != nil {
		return nil, err
	}
	if size < 1 {
		size = 1
	}
	ext := opts.String(OptExtension, "")

	c := newContainer(fsys, path, opts, false)
	c.readProfile = prof
	for _, name := range names {
		dot := strings.LastIndexByte(name, '.')
		if ext != "" && (dot < 0 || !strings.EqualFold(name[dot+1:], ext)) {
			continue
		}
		file := pathpkg.Join(path, name)
		if vfs.IsDir(fsys, file) {
			continue
		}
		data, err := vfs.ReadAll(fsys, file)
		if err != nil {
			c.diags.add(Diagnostic{Level: LevelWarning, Err: err, File: file})
			continue
		}
		if !looksLikeVDV(data) {
			continue
		}
		tname := tableName(name)
		if c.tableByName(tname) != nil {
			c.diags.add(Diagnostic{Level: LevelWarning, Err: fmt.Errorf("%w: table %s", ErrAlreadyExists, tname), File: file, Table: tname})
			continue
		}

		t := &Table{c: c, name: tname, file: file}
		p := newParser(c, file, t)
		p.report = true
		if !p.parse(data) {
			continue
		}
		c.tables = append(c.tables, t)
	}
	if len(c.tables) == 0 && !update {
		return nil, fmt.Errorf("%w: no tables in %s", ErrOpenFailed, path)
	}

	c.cache, err = lru.New[string, []*Record](size)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// loadRecords reads the records of a directory table, or takes them from
// the cache. Value problems are reported on the first load only.
func (c *Container) loadRecords(t *Table) ([]*Record, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if recs, ok := c.cache.Get(t.name); ok {
		return cloneRecords(recs), nil
	}
	data, err := vfs.ReadAll(c.fsys, t.file)
	if err != nil {
		return nil, err
	}
	tmp := &Table{c: c, name: t.name, file: t.file}
	p := newParser(c, t.file, tmp)
	p.decode = true
	p.values = !t.loaded
	p.parse(data)
	for _, r := range tmp.records {
		r.table = t
	}
	t.loaded = true
	c.cache.Add(t.name, tmp.records)
	if logger.IsVerbose() {
		logger.Verbose("vdv: loaded", len(tmp.records), "records of", t.name)
	}
	return cloneRecords(tmp.records), nil
}
