// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"fmt"

	"github.com/solidcoredata/vdvtab/config"
)

// CopyTable creates a table in dst with the name and attributes of src
// and appends every record of src. Attributes the destination profile
// already created are reused; their values are matched by name.
func CopyTable(dst *Container, src *Table, opts config.Options) (*Table, error) {
	recs, err := src.Records()
	if err != nil {
		return nil, err
	}
	t, err := dst.CreateTable(src.Name(), opts)
	if err != nil {
		return nil, err
	}
	for _, a := range src.attrs {
		if t.index(a.Name) >= 0 {
			continue
		}
		if err := t.CreateAttribute(a.Name, a.Kind); err != nil {
			return nil, fmt.Errorf("copying %s: %w", src.Name(), err)
		}
	}

	// Position of every destination attribute in the source record.
	from := make([]int, len(t.attrs))
	for i, a := range t.attrs {
		from[i] = src.index(a.Name)
	}
	for _, r := range recs {
		rec := t.NewRecord()
		for i, j := range from {
			if j < 0 {
				continue
			}
			if err := rec.SetAt(i, r.values[j]); err != nil {
				return nil, fmt.Errorf("copying %s: %w", src.Name(), err)
			}
		}
		if err := t.Append(rec); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Copy copies every table of src into dst, in order.
func Copy(dst, src *Container, opts config.Options) error {
	for _, t := range src.tables {
		if _, err := CopyTable(dst, t, opts); err != nil {
			return err
		}
	}
	return nil
}
