// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfs

import (
	"io/fs"
	"os"
	"sync"
	"time"

	"golang.org/x/exp/slices"
)

var _ FileSystem = (*Mem)(nil)

// Mem keeps files in memory. Like a disk, a file or directory can only be
// created below an existing directory.
type Mem struct {
	mu    sync.Mutex
	files map[Path]*memEntry
	dirs  map[Path]time.Time
}

type memEntry struct {
	data    []byte
	modTime time.Time
}

func NewMem() *Mem {
	return &Mem{
		files: make(map[Path]*memEntry),
		dirs:  make(map[Path]time.Time),
	}
}

// isDir must be called with the lock held.
func (m *Mem) isDir(p Path) bool {
	if p.IsRoot() {
		return true
	}
	if _, ok := m.dirs[p]; ok {
		return true
	}
	for key := range m.files {
		if _, ok := p.directChild(string(key)); ok {
			return true
		}
	}
	for key := range m.dirs {
		if _, ok := p.directChild(string(key)); ok {
			return true
		}
	}
	return false
}

func (m *Mem) checkParent(p Path) error {
	parent := p.Parent()
	if _, isFile := m.files[parent]; isFile {
		return ErrNotDir
	}
	if !m.isDir(parent) {
		return fs.ErrNotExist
	}
	return nil
}

func (m *Mem) Open(path string, flag int) (File, error) {
	p := Clean(path)
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isDir(p) {
		return nil, pathError("open", path, ErrIsDir)
	}
	entry, found := m.files[p]
	switch {
	case !found && flag&os.O_CREATE == 0:
		return nil, pathError("open", path, fs.ErrNotExist)
	case found && flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0:
		return nil, pathError("open", path, fs.ErrExist)
	case !found:
		if err := m.checkParent(p); err != nil {
			return nil, pathError("open", path, err)
		}
		entry = &memEntry{modTime: time.Now()}
		m.files[p] = entry
	}

	data := make([]byte, len(entry.data))
	copy(data, entry.data)
	return newBufferFile(path, data, flag, func(b []byte) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		stored := make([]byte, len(b))
		copy(stored, b)
		m.files[p] = &memEntry{data: stored, modTime: time.Now()}
		return nil
	}), nil
}

func (m *Mem) ReadDir(path string) ([]string, error) {
	p := Clean(path)
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, isFile := m.files[p]; isFile {
		return nil, pathError("readdir", path, ErrNotDir)
	}
	if !m.isDir(p) {
		return nil, pathError("readdir", path, fs.ErrNotExist)
	}
	var names []string
	add := func(key Path) {
		if name, ok := p.directChild(string(key)); ok && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	for key := range m.files {
		add(key)
	}
	for key := range m.dirs {
		add(key)
	}
	return names, nil
}

func (m *Mem) Stat(path string) (*ResourceInfo, error) {
	p := Clean(path)
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.files[p]; ok {
		return &ResourceInfo{Name: p.Name(), Size: int64(len(entry.data)), Mode: 0o644, ModTime: entry.modTime}, nil
	}
	if m.isDir(p) {
		return &ResourceInfo{Name: p.Name(), Mode: fs.ModeDir | 0o755, ModTime: m.dirs[p]}, nil
	}
	return nil, pathError("stat", path, fs.ErrNotExist)
}

func (m *Mem) Unlink(path string) error {
	p := Clean(path)
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[p]; ok {
		delete(m.files, p)
		return nil
	}
	if m.isDir(p) {
		return pathError("unlink", path, ErrIsDir)
	}
	return pathError("unlink", path, fs.ErrNotExist)
}

func (m *Mem) Mkdir(path string) error {
	p := Clean(path)
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[p]; ok || m.isDir(p) {
		return pathError("mkdir", path, fs.ErrExist)
	}
	if err := m.checkParent(p); err != nil {
		return pathError("mkdir", path, err)
	}
	m.dirs[p] = time.Now()
	return nil
}

func (m *Mem) Rmdir(path string) error {
	p := Clean(path)
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[p]; ok {
		return pathError("rmdir", path, ErrNotDir)
	}
	if p.IsRoot() {
		return pathError("rmdir", path, fs.ErrPermission)
	}
	if !m.isDir(p) {
		return pathError("rmdir", path, fs.ErrNotExist)
	}
	for key := range m.files {
		if _, ok := p.directChild(string(key)); ok {
			return pathError("rmdir", path, ErrNotEmpty)
		}
	}
	for key := range m.dirs {
		if _, ok := p.directChild(string(key)); ok {
			return pathError("rmdir", path, ErrNotEmpty)
		}
	}
	delete(m.dirs, p)
	return nil
}
