// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package profile knows the table layouts of the VDV-452 standard in its
// German and English naming.
//
// A profile is selected by name. NONE recognizes nothing and rejects
// nothing. VDV-452-GERMAN only knows the German table and attribute names,
// VDV-452-ENGLISH only the English ones and VDV-452 knows both. Attribute
// names are always reported in the language of the table name that was
// looked up.
package profile

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownProfile = errors.New("profile: unknown profile")

type Name string

const (
	None          Name = "NONE"
	VDV452        Name = "VDV-452"
	VDV452English Name = "VDV-452-ENGLISH"
	VDV452German  Name = "VDV-452-GERMAN"
)

type Profile struct {
	name    Name
	german  bool
	english bool
}

var profiles = []*Profile{
	{name: None},
	{name: VDV452, german: true, english: true},
	{name: VDV452English, english: true},
	{name: VDV452German, german: true},
}

// Parse returns the profile called name. The empty string selects NONE.
func Parse(name string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return profiles[0], nil
	}
	for _, p := range profiles {
		if strings.EqualFold(string(p.name), name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

func (p *Profile) Name() Name {
	return p.name
}

// IsNone reports whether the profile constrains nothing.
func (p *Profile) IsNone() bool {
	return !p.german && !p.english
}

func (p *Profile) String() string {
	return string(p.name)
}

// Attribute is one column of a known table. Kind is given in the frm;
// notation, for example "num[9.0]" or "char[40]".
type Attribute struct {
	Name string
	Kind string

	// Coordinate attributes hold degrees packed as sign*DDDMMSSsss.
	Coordinate bool
}

type Table struct {
	Name       string
	Attributes []Attribute
}

// Attribute finds an attribute by name, ignoring case.
func (t *Table) Attribute(name string) (Attribute, bool) {
	for _, a := range t.Attributes {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Attribute{}, false
}

// Table looks up a table by its German or English name, ignoring case,
// limited to the languages the profile knows.
func (p *Profile) Table(name string) (*Table, bool) {
	for i := range registry {
		def := &registry[i]
		if p.german && strings.EqualFold(def.german, name) {
			return def.table(false), true
		}
		if p.english && strings.EqualFold(def.english, name) {
			return def.table(true), true
		}
	}
	return nil, false
}

// Tables lists every table the profile knows, German names first.
func (p *Profile) Tables() []string {
	var names []string
	if p.german {
		for _, def := range registry {
			names = append(names, def.german)
		}
	}
	if p.english {
		for _, def := range registry {
			names = append(names, def.english)
		}
	}
	return names
}
