// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfs

import (
	"os"
	"path/filepath"
)

// Local is the operating system's file system. Paths are taken as given,
// relative paths resolve against the working directory.
var Local FileSystem = localFS{}

type localFS struct{}

func (localFS) Open(path string, flag int) (File, error) {
	f, err := os.OpenFile(filepath.FromSlash(path), flag, 0o666)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (localFS) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(filepath.FromSlash(path))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

func (localFS) Stat(path string) (*ResourceInfo, error) {
	info, err := os.Stat(filepath.FromSlash(path))
	if err != nil {
		return nil, err
	}
	return &ResourceInfo{
		Name:    info.Name(),
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
	}, nil
}

func (localFS) Unlink(path string) error {
	name := filepath.FromSlash(path)
	info, err := os.Lstat(name)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return pathError("unlink", path, ErrIsDir)
	}
	return os.Remove(name)
}

func (localFS) Mkdir(path string) error {
	return os.Mkdir(filepath.FromSlash(path), 0o755)
}

func (localFS) Rmdir(path string) error {
	name := filepath.FromSlash(path)
	info, err := os.Lstat(name)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return pathError("rmdir", path, ErrNotDir)
	}
	if err := os.Remove(name); err != nil {
		if entries, rerr := os.ReadDir(name); rerr == nil && len(entries) > 0 {
			return pathError("rmdir", path, ErrNotEmpty)
		}
		return err
	}
	return nil
}
