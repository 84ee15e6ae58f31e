// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"bufio"
	"fmt"
	"strconv"

	"golang.org/x/text/encoding"

	"github.com/solidcoredata/vdvtab/config"
	"github.com/solidcoredata/vdvtab/vfs"
)

// lineWriter writes encoded lines to a file. The first error is kept and
// every later call does nothing.
type lineWriter struct {
	err error
	f   vfs.File
	w   *bufio.Writer
	enc *encoding.Encoder
}

func newLineWriter(f vfs.File, e encoding.Encoding) *lineWriter {
	w := &lineWriter{
		f: f,
		w: bufio.NewWriter(f),
	}
	if e != nil {
		w.enc = newEncoder(e)
	}
	return w
}

func (w *lineWriter) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(s)
}

func (w *lineWriter) writeLine(s string) {
	if w.err != nil {
		return
	}
	if w.enc != nil {
		s, w.err = w.enc.String(s)
		if w.err != nil {
			return
		}
	}
	w.raw(s)
	w.raw("\n")
}

func (w *lineWriter) line(keyword string, fields ...string) {
	w.writeLine(FormatLine(keyword, fields...))
}

// tableStart writes the tbl; line, when withName is set, and the atr; and
// frm; lines.
func (w *lineWriter) tableStart(t *Table, withName bool) {
	if withName {
		w.line(kwTbl, t.name)
	}
	names := make([]string, len(t.attrs))
	kinds := make([]string, len(t.attrs))
	for i, a := range t.attrs {
		names[i] = a.Name
		kinds[i] = a.Kind.String()
	}
	w.line(kwAtr, names...)
	w.line(kwFrm, kinds...)
}

func (w *lineWriter) record(t *Table, values []Value) {
	fields := make([]string, len(values))
	for i := range values {
		fields[i] = encodeValue(&t.attrs[i], values[i])
	}
	w.line(kwRec, fields...)
}

func (w *lineWriter) tableEnd(count int) {
	w.line(kwEnd, strconv.Itoa(count))
}

func (w *lineWriter) Error() error {
	return w.err
}

// Close flushes and closes the file.
func (w *lineWriter) Close() error {
	if w.err == nil {
		w.err = w.w.Flush()
	}
	cerr := w.f.Close()
	if w.err != nil {
		return w.err
	}
	return cerr
}

// writerFor returns where records of t go.
func (c *Container) writerFor(t *Table) *lineWriter {
	if c.single {
		return c.out
	}
	return t.out
}

// emitHeader writes the header block of a new single file. HEADER_
// options of the container and of every table created so far are used.
func (c *Container) emitHeader() {
	if c.headerDone {
		return
	}
	c.headerDone = true

	sets := []config.Options{c.opts}
	for _, t := range c.tables {
		if t.writable {
			sets = append(sets, t.headerOpts)
		}
	}
	standard, _ := c.opts.Bool(OptStandardHeader, true)
	c.header = buildHeader(headerOptions(sets...), standard)

	enc, ok := charsetOrDefault(c.header.Charset())
	if !ok {
		c.diag(LevelWarning, "", fmt.Errorf("unknown charset %q, writing ISO8859-1", c.header.Charset()))
	}
	c.out.enc = newEncoder(enc)
	for _, l := range headerLines(c.header, standard) {
		c.out.writeLine(l)
	}
}

// activate makes t the table receiving records. In a single file every
// table created before t that has not been written yet is written empty
// and the table receiving records until now is ended. Ended tables can
// not be activated again.
func (c *Container) activate(t *Table) error {
	if !c.single {
		if t.state == statePending {
			t.out.tableStart(t, false)
			t.state = stateActive
			t.frozen = true
		}
		return t.out.Error()
	}

	switch t.state {
	case stateActive:
		return nil
	case stateClosed:
		return fmt.Errorf("%w: %s", ErrInterleavedWrite, t.name)
	}

	c.emitHeader()
	c.endActive()
	for _, p := range c.tables {
		if p == t {
			break
		}
		c.writeEmpty(p)
	}
	c.out.tableStart(t, true)
	t.state = stateActive
	t.frozen = true
	c.active = t
	return c.out.Error()
}

func (c *Container) endActive() {
	if c.active == nil {
		return
	}
	c.out.tableEnd(c.active.count)
	c.active.state = stateClosed
	c.active = nil
}

// writeEmpty writes a pending table that never received a record.
func (c *Container) writeEmpty(t *Table) {
	if !t.writable || t.state != statePending {
		return
	}
	c.out.tableStart(t, true)
	c.out.tableEnd(0)
	t.state = stateClosed
	t.frozen = true
}

// finish ends every table and writes the eof; line of a single file or the
// end; line of every directory table file.
func (c *Container) finish() error {
	if !c.single {
		var err error
		for _, t := range c.tables {
			if t.out == nil {
				continue
			}
			if t.state == statePending {
				t.out.tableStart(t, false)
			}
			if t.state != stateClosed {
				t.out.tableEnd(t.count)
				t.state = stateClosed
			}
			t.frozen = true
			if cerr := t.out.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}

	if c.out == nil {
		return nil
	}
	c.emitHeader()
	c.endActive()
	for _, t := range c.tables {
		c.writeEmpty(t)
	}
	c.out.line(kwEOF, strconv.Itoa(len(c.tables)))
	return c.out.Close()
}
