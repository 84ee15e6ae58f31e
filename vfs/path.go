// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfs

import (
	"os"
	"path"
	"strings"
)

const (
	readOnly      = os.O_RDONLY
	writeTruncate = os.O_RDWR | os.O_CREATE | os.O_TRUNC
)

// A Path is a normalized, absolute, slash separated path as used by the
// in-memory and bbolt stores. The root is "/".
type Path string

// Clean normalizes p into a Path. Relative paths are taken from the root.
func Clean(p string) Path {
	return Path(path.Clean("/" + p))
}

// Names splits the path into its segments.
func (p Path) Names() []string {
	tmp := strings.Split(string(p), "/")
	cleaned := tmp[:0]
	for _, str := range tmp {
		if len(str) > 0 {
			cleaned = append(cleaned, str)
		}
	}
	return cleaned
}

// Name returns the last segment or the empty string for the root.
func (p Path) Name() string {
	names := p.Names()
	if len(names) == 0 {
		return ""
	}
	return names[len(names)-1]
}

// Parent returns the parent path; the parent of the root is the root.
func (p Path) Parent() Path {
	names := p.Names()
	if len(names) == 0 {
		return "/"
	}
	return Path("/" + strings.Join(names[:len(names)-1], "/"))
}

// Child returns a new Path with name appended.
func (p Path) Child(name string) Path {
	return Clean(string(p) + "/" + name)
}

// IsRoot reports whether p is "/".
func (p Path) IsRoot() bool {
	return len(p.Names()) == 0
}

// childPrefix is the key prefix shared by every descendant of p.
func (p Path) childPrefix() string {
	if p.IsRoot() {
		return "/"
	}
	return string(p) + "/"
}

// directChild returns the first segment of key below p, if key is a
// descendant of p.
func (p Path) directChild(key string) (string, bool) {
	prefix := p.childPrefix()
	if !strings.HasPrefix(key, prefix) || len(key) == len(prefix) {
		return "", false
	}
	rest := key[len(prefix):]
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		rest = rest[:idx]
	}
	return rest, true
}

func (p Path) String() string {
	return string(p)
}
