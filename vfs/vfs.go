// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vfs is the file abstraction the table format is read from and
// written to. A FileSystem may be the local disk, an in-memory buffer set
// or an archive kept inside a bbolt database; callers never assume which.
//
// Paths are slash separated. Errors are *fs.PathError values wrapping the
// io/fs sentinels, so errors.Is(err, fs.ErrNotExist) and friends work for
// every implementation.
package vfs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/untillpro/goutils/logger"
)

var (
	ErrIsDir    = errors.New("is a directory")
	ErrNotDir   = errors.New("not a directory")
	ErrNotEmpty = errors.New("directory not empty")
)

// A File is an open resource. Not every file supports every method; a file
// opened read-only fails Write and Truncate.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	Truncate(size int64) error
}

// The FileSystem interface is the contract the table reader and writer
// consume.
//
// Open takes os.O_* flags. Implementations honor O_CREATE, O_EXCL, O_TRUNC,
// O_APPEND and the access mode bits.
//
// ReadDir returns the names of the direct children of a directory in no
// particular order.
type FileSystem interface {
	Open(path string, flag int) (File, error)
	ReadDir(path string) ([]string, error)
	Stat(path string) (*ResourceInfo, error)
	Unlink(path string) error
	Mkdir(path string) error
	Rmdir(path string) error
}

// A ResourceInfo is the metadata every FileSystem reports through Stat.
type ResourceInfo struct {
	Name    string
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
}

func (r *ResourceInfo) IsDir() bool {
	return r.Mode.IsDir()
}

// Exists reports whether anything is found at path.
func Exists(fsys FileSystem, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}

// IsDir reports whether path denotes a directory.
func IsDir(fsys FileSystem, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// ReadAll loads the entire resource into memory.
func ReadAll(fsys FileSystem, path string) ([]byte, error) {
	f, err := fsys.Open(path, readOnly)
	if err != nil {
		return nil, err
	}
	defer silentClose(f)

	buf := &bytes.Buffer{}
	if _, err = io.Copy(buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteAll replaces the contents of path with data.
func WriteAll(fsys FileSystem, path string, data []byte) error {
	f, err := fsys.Open(path, writeTruncate)
	if err != nil {
		return err
	}
	n, err := f.Write(data)
	if err != nil {
		silentClose(f)
		return err
	}
	if n != len(data) {
		silentClose(f)
		return fmt.Errorf("vfs: short write to %s: %d of %d bytes", path, n, len(data))
	}
	return f.Close()
}

// tries to close and logs the failure
func silentClose(closer io.Closer) {
	if err := closer.Close(); err != nil {
		logger.Warning("vfs: failed to close:", err)
	}
}

func pathError(op, path string, err error) error {
	return &fs.PathError{Op: op, Path: path, Err: err}
}
