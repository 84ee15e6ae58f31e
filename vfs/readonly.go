// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfs

import (
	"io/fs"
	"os"
)

// ReadOnly wraps fsys so that every operation that would change it fails
// with fs.ErrPermission.
func ReadOnly(fsys FileSystem) FileSystem {
	return readOnlyFS{fsys: fsys}
}

type readOnlyFS struct {
	fsys FileSystem
}

func (r readOnlyFS) Open(path string, flag int) (File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		return nil, pathError("open", path, fs.ErrPermission)
	}
	return r.fsys.Open(path, flag)
}

func (r readOnlyFS) ReadDir(path string) ([]string, error) {
	return r.fsys.ReadDir(path)
}

func (r readOnlyFS) Stat(path string) (*ResourceInfo, error) {
	return r.fsys.Stat(path)
}

func (r readOnlyFS) Unlink(path string) error {
	return pathError("unlink", path, fs.ErrPermission)
}

func (r readOnlyFS) Mkdir(path string) error {
	return pathError("mkdir", path, fs.ErrPermission)
}

func (r readOnlyFS) Rmdir(path string) error {
	return pathError("rmdir", path, fs.ErrPermission)
}
