// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/exp/slices"

	"github.com/solidcoredata/vdvtab/config"
	"github.com/solidcoredata/vdvtab/profile"
)

// An Attribute is one column of a table.
type Attribute struct {
	Name string
	Kind Kind

	// Coordinate attributes store degrees packed as sign*DDDMMSSsss. Real
	// values set on them are packed on the way in.
	Coordinate bool
}

type tableState uint8

const (
	statePending tableState = iota // Nothing written yet.
	stateActive                    // Block started, taking records.
	stateClosed                    // end; written.
)

// A Table is a named list of attributes and records. Tables read from a
// source hold their records; tables created for writing stream each
// record out as it is appended and only keep a count.
type Table struct {
	c     *Container
	name  string
	attrs []Attribute
	count int

	// Read tables.
	records []*Record
	file    string // Directory mode table file.
	loaded  bool

	// Write tables.
	writable   bool
	state      tableState
	frozen     bool
	out        *lineWriter // Directory mode only.
	headerOpts config.Options
	profile    *profile.Profile
	known      *profile.Table
	strict     bool
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Container() *Container {
	return t.c
}

// Attributes returns a copy of the attribute list.
func (t *Table) Attributes() []Attribute {
	return append([]Attribute(nil), t.attrs...)
}

func (t *Table) AttributeCount() int {
	return len(t.attrs)
}

func (t *Table) index(name string) int {
	return slices.IndexFunc(t.attrs, func(a Attribute) bool { return a.Name == name })
}

func (t *Table) Attribute(name string) (Attribute, error) {
	i := t.index(name)
	if i < 0 {
		return Attribute{}, fmt.Errorf("%w: attribute %q in table %s", ErrNotFound, name, t.name)
	}
	return t.attrs[i], nil
}

// Frozen reports whether the attribute list can no longer change. A
// table freezes when its first line is written.
func (t *Table) Frozen() bool {
	return t.frozen || !t.writable
}

// CanWrite reports whether Append may succeed.
func (t *Table) CanWrite() bool {
	return t.writable && t.state != stateClosed && !t.c.closed
}

// CanCreateAttribute reports whether CreateAttribute may succeed.
func (t *Table) CanCreateAttribute() bool {
	return t.writable && !t.frozen && !t.c.closed
}

// CreateAttribute adds an attribute to a table that has not been frozen.
// Under a strict profile an attribute the profile does not know for this
// table is refused; otherwise it is added with a warning.
func (t *Table) CreateAttribute(name string, kind Kind) error {
	switch {
	case t.c.closed:
		return ErrClosed
	case !t.writable:
		return fmt.Errorf("%w: table %s", ErrReadOnly, t.name)
	case t.frozen:
		return fmt.Errorf("%w: can not add %q to %s", ErrFrozenSchema, name, t.name)
	case name == "":
		return fmt.Errorf("%w: empty attribute name in %s", ErrMalformedSchema, t.name)
	case kind.Type == 0:
		return fmt.Errorf("%w: attribute %q has no kind", ErrMalformedSchema, name)
	case t.index(name) >= 0:
		return fmt.Errorf("%w: attribute %q in %s", ErrAlreadyExists, name, t.name)
	}

	a := Attribute{Name: name, Kind: kind}
	if t.known != nil {
		if pa, ok := t.known.Attribute(name); ok {
			a.Coordinate = pa.Coordinate
		} else {
			err := fmt.Errorf("%w: %q in %s (profile %s)", ErrUnknownAttribute, name, t.name, t.profile)
			if t.strict {
				t.c.diag(LevelError, t.name, err)
				return err
			}
			t.c.diag(LevelWarning, t.name, err)
		}
	}
	t.attrs = append(t.attrs, a)
	return nil
}

// NewRecord returns a record with every value null.
func (t *Table) NewRecord() *Record {
	return &Record{table: t, values: make([]Value, len(t.attrs))}
}

// Append writes a record. The record must have one value per attribute.
func (t *Table) Append(rec *Record) error {
	c := t.c
	if c.closed {
		return ErrClosed
	}
	if !t.writable {
		return fmt.Errorf("%w: table %s", ErrReadOnly, t.name)
	}
	if rec == nil || len(rec.values) != len(t.attrs) {
		n := 0
		if rec != nil {
			n = len(rec.values)
		}
		return fmt.Errorf("%w: table %s has %d attributes, record has %d values", ErrWidthMismatch, t.name, len(t.attrs), n)
	}
	values := make([]Value, len(rec.values))
	for i := range rec.values {
		attr := &t.attrs[i]
		v, err := convertValue(attr, rec.values[i])
		if err != nil {
			return err
		}
		if attr.Kind.Type == KindChar && attr.Kind.Width > 0 && v.typ == TextValue {
			if n := utf8.RuneCountInString(v.s); n > attr.Kind.Width {
				c.diag(LevelWarning, t.name, fmt.Errorf("value of %q has %d characters, more than %s allows", attr.Name, n, attr.Kind))
			}
		}
		values[i] = v
	}
	if err := c.activate(t); err != nil {
		return err
	}
	w := c.writerFor(t)
	w.record(t, values)
	if err := w.Error(); err != nil {
		return err
	}
	t.count++
	return nil
}

// AppendValues appends one record built from Go values, given in
// attribute order.
func (t *Table) AppendValues(values ...interface{}) error {
	if len(values) != len(t.attrs) {
		return fmt.Errorf("%w: table %s has %d attributes, got %d values", ErrWidthMismatch, t.name, len(t.attrs), len(values))
	}
	rec := t.NewRecord()
	for i, v := range values {
		if err := rec.SetAt(i, v); err != nil {
			return err
		}
	}
	return t.Append(rec)
}

// RecordCount is the number of records read or written.
func (t *Table) RecordCount() int {
	return t.count
}

// Records returns copies of the records of a table read from a source.
// Changing them does not change the table. Directory tables are loaded
// on first use.
func (t *Table) Records() ([]*Record, error) {
	if t.writable {
		return nil, fmt.Errorf("%w: %s", ErrWriteOnly, t.name)
	}
	if t.file != "" {
		return t.c.loadRecords(t)
	}
	return cloneRecords(t.records), nil
}

func cloneRecords(rr []*Record) []*Record {
	res := make([]*Record, len(rr))
	for i, r := range rr {
		res[i] = &Record{table: r.table, values: append([]Value(nil), r.values...)}
	}
	return res
}

// A Record holds one value per attribute of its table.
type Record struct {
	table  *Table
	values []Value
}

func (r *Record) Table() *Table {
	return r.table
}

func (r *Record) Len() int {
	return len(r.values)
}

// At returns the value of the i-th attribute.
func (r *Record) At(i int) Value {
	return r.values[i]
}

// Values returns a copy of all values.
func (r *Record) Values() []Value {
	return append([]Value(nil), r.values...)
}

func (r *Record) Value(name string) (Value, error) {
	i := r.table.index(name)
	if i < 0 || i >= len(r.values) {
		return Null, fmt.Errorf("%w: attribute %q in table %s", ErrNotFound, name, r.table.name)
	}
	return r.values[i], nil
}

// Set converts v for the named attribute and stores it. v may be a Value
// or any Go type accepted by ValueOf.
func (r *Record) Set(name string, v interface{}) error {
	i := r.table.index(name)
	if i < 0 || i >= len(r.values) {
		return fmt.Errorf("%w: attribute %q in table %s", ErrNotFound, name, r.table.name)
	}
	return r.SetAt(i, v)
}

func (r *Record) SetAt(i int, v interface{}) error {
	if i < 0 || i >= len(r.values) {
		return fmt.Errorf("%w: attribute index %d in table %s", ErrNotFound, i, r.table.name)
	}
	val, err := ValueOf(v)
	if err != nil {
		return err
	}
	val, err = convertValue(&r.table.attrs[i], val)
	if err != nil {
		return err
	}
	r.values[i] = val
	return nil
}

// Degrees decodes a packed coordinate value into decimal degrees.
func (r *Record) Degrees(name string) (float64, error) {
	i := r.table.index(name)
	if i < 0 || i >= len(r.values) {
		return 0, fmt.Errorf("%w: attribute %q in table %s", ErrNotFound, name, r.table.name)
	}
	return r.degreesAt(i)
}

func (r *Record) degreesAt(i int) (float64, error) {
	v := r.values[i]
	switch v.typ {
	case IntegerValue:
		return profile.DecodeDegrees(v.i), nil
	case RealValue:
		return v.f, nil
	}
	return 0, fmt.Errorf("%w: %q is %s, not a coordinate", ErrInvalidValue, r.table.attrs[i].Name, v.typ)
}

// Position returns the point held by the first two coordinate attributes
// of the table, longitude then latitude, in decimal degrees.
func (r *Record) Position() (lon, lat float64, err error) {
	var idx []int
	for i, a := range r.table.attrs {
		if a.Coordinate && i < len(r.values) {
			idx = append(idx, i)
		}
	}
	if len(idx) < 2 {
		return 0, 0, fmt.Errorf("%w: coordinate pair in table %s", ErrNotFound, r.table.name)
	}
	if lon, err = r.degreesAt(idx[0]); err != nil {
		return 0, 0, err
	}
	if lat, err = r.degreesAt(idx[1]); err != nil {
		return 0, 0, err
	}
	return lon, lat, nil
}
