// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package idf reads the road network of an Intermodal Data Format file.
// IDF uses the VDV-452 table syntax. Nodes carry a point, links join two
// nodes and their shape points come from the link coordinate table:
//
//	Node            NODE_ID, X, Y
//	Link            LINK_ID, FROM_NODE, TO_NODE
//	LinkCoordinate  LINK_ID, COUNT, X, Y
//
// X and Y are decimal degrees. Table and attribute names are matched
// without regard to case.
package idf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/untillpro/goutils/logger"
	"golang.org/x/exp/slices"

	"github.com/solidcoredata/vdvtab/vdv"
)

var (
	ErrNotNetwork = errors.New("idf: no node table")
	ErrAttribute  = errors.New("idf: missing attribute")
)

var (
	nodeTables  = []string{"Node"}
	linkTables  = []string{"Link"}
	coordTables = []string{"LinkCoordinate", "LINK_COORD"}
)

type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}

// WKT formats p as well-known text.
func (p Point) WKT() string {
	return "POINT (" + p.String() + ")"
}

type Node struct {
	ID     int64
	Point  Point
	Record *vdv.Record
}

type Link struct {
	ID, From, To int64

	// Line runs from the From node through the shape points to the To
	// node. Unknown nodes are left out.
	Line   []Point
	Record *vdv.Record
}

// WKT formats the line of l as well-known text.
func (l Link) WKT() string {
	pp := make([]string, len(l.Line))
	for i, p := range l.Line {
		pp[i] = p.String()
	}
	return "LINESTRING (" + strings.Join(pp, ",") + ")"
}

// A ShapePoint is one row of the link coordinate table.
type ShapePoint struct {
	LinkID, Count int64
	Point         Point
	Record        *vdv.Record
}

// A Network holds the rows of the geometry tables in file order.
type Network struct {
	Nodes       []Node
	Links       []Link
	ShapePoints []ShapePoint
}

// IsNetwork reports whether c has a node table.
func IsNetwork(c *vdv.Container) bool {
	return findTable(c, nodeTables) != nil
}

// Read builds the network of c. The link and link coordinate tables are
// optional. Rows with a null id or coordinate are skipped.
func Read(c *vdv.Container) (*Network, error) {
	nt := findTable(c, nodeTables)
	if nt == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotNetwork, c.Path())
	}
	n := &Network{}
	if err := n.readNodes(nt); err != nil {
		return nil, err
	}
	if ct := findTable(c, coordTables); ct != nil {
		if err := n.readShapePoints(ct); err != nil {
			return nil, err
		}
	}
	if lt := findTable(c, linkTables); lt != nil {
		if err := n.readLinks(lt); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (n *Network) readNodes(t *vdv.Table) error {
	idx, err := indexes(t, "NODE_ID", "X", "Y")
	if err != nil {
		return err
	}
	recs, err := t.Records()
	if err != nil {
		return err
	}
	for _, r := range recs {
		id, ok1 := r.At(idx[0]).Int64()
		p, ok2 := point(r, idx[1], idx[2])
		if !ok1 || !ok2 {
			logger.Verbose("idf: node row without id or point skipped")
			continue
		}
		n.Nodes = append(n.Nodes, Node{ID: id, Point: p, Record: r})
	}
	return nil
}

func (n *Network) readShapePoints(t *vdv.Table) error {
	idx, err := indexes(t, "LINK_ID", "COUNT", "X", "Y")
	if err != nil {
		return err
	}
	recs, err := t.Records()
	if err != nil {
		return err
	}
	for _, r := range recs {
		link, ok1 := r.At(idx[0]).Int64()
		count, ok2 := r.At(idx[1]).Int64()
		p, ok3 := point(r, idx[2], idx[3])
		if !ok1 || !ok2 || !ok3 {
			logger.Verbose("idf: link coordinate row without link, count or point skipped")
			continue
		}
		n.ShapePoints = append(n.ShapePoints, ShapePoint{LinkID: link, Count: count, Point: p, Record: r})
	}
	return nil
}

func (n *Network) readLinks(t *vdv.Table) error {
	idx, err := indexes(t, "LINK_ID", "FROM_NODE", "TO_NODE")
	if err != nil {
		return err
	}
	recs, err := t.Records()
	if err != nil {
		return err
	}

	nodes := make(map[int64]Point, len(n.Nodes))
	for _, nd := range n.Nodes {
		nodes[nd.ID] = nd.Point
	}
	// Shape points by link, then by count.
	shapes := map[int64]map[int64]Point{}
	for _, sp := range n.ShapePoints {
		m := shapes[sp.LinkID]
		if m == nil {
			m = map[int64]Point{}
			shapes[sp.LinkID] = m
		}
		m[sp.Count] = sp.Point
	}

	for _, r := range recs {
		id, ok := r.At(idx[0]).Int64()
		if !ok {
			logger.Verbose("idf: link row without id skipped")
			continue
		}
		from, _ := r.At(idx[1]).Int64()
		to, _ := r.At(idx[2]).Int64()
		l := Link{ID: id, From: from, To: to, Record: r}
		if p, ok := nodes[from]; ok {
			l.Line = append(l.Line, p)
		}
		if m := shapes[id]; m != nil {
			counts := make([]int64, 0, len(m))
			for c := range m {
				counts = append(counts, c)
			}
			slices.Sort(counts)
			for _, c := range counts {
				l.Line = append(l.Line, m[c])
			}
		}
		if p, ok := nodes[to]; ok {
			l.Line = append(l.Line, p)
		}
		n.Links = append(n.Links, l)
	}
	return nil
}

func findTable(c *vdv.Container, names []string) *vdv.Table {
	for _, t := range c.Tables() {
		for _, name := range names {
			if strings.EqualFold(t.Name(), name) {
				return t
			}
		}
	}
	return nil
}

func indexes(t *vdv.Table, names ...string) ([]int, error) {
	attrs := t.Attributes()
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = slices.IndexFunc(attrs, func(a vdv.Attribute) bool { return strings.EqualFold(a.Name, name) })
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: %s in table %s", ErrAttribute, name, t.Name())
		}
	}
	return idx, nil
}

func point(r *vdv.Record, ix, iy int) (Point, bool) {
	x, ok1 := r.At(ix).Float64()
	y, ok2 := r.At(iy).Float64()
	return Point{X: x, Y: y}, ok1 && ok2
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
