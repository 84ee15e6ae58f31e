// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfs

import (
	"errors"
	"io"
	"io/fs"
	"os"
)

// bufferFile is an open handle on a copy of a file's contents. Writes stay
// in the buffer until Close, which hands the data to commit.
type bufferFile struct {
	name     string
	data     []byte
	pos      int64
	readable bool
	writable bool
	append   bool
	dirty    bool
	closed   bool
	commit   func(data []byte) error
}

func newBufferFile(name string, data []byte, flag int, commit func([]byte) error) *bufferFile {
	f := &bufferFile{
		name:   name,
		data:   data,
		append: flag&os.O_APPEND != 0,
		commit: commit,
	}
	switch flag & (os.O_RDONLY | os.O_WRONLY | os.O_RDWR) {
	case os.O_RDONLY:
		f.readable = true
	case os.O_WRONLY:
		f.writable = true
	default:
		f.readable = true
		f.writable = true
	}
	if f.writable && flag&os.O_TRUNC != 0 {
		f.data = f.data[:0]
		f.dirty = true
	}
	return f
}

func (f *bufferFile) Read(b []byte) (int, error) {
	if f.closed {
		return 0, pathError("read", f.name, fs.ErrClosed)
	}
	if !f.readable {
		return 0, pathError("read", f.name, fs.ErrPermission)
	}
	if f.pos >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(b, f.data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *bufferFile) Write(b []byte) (int, error) {
	if f.closed {
		return 0, pathError("write", f.name, fs.ErrClosed)
	}
	if !f.writable {
		return 0, pathError("write", f.name, fs.ErrPermission)
	}
	if f.append {
		f.pos = int64(len(f.data))
	}
	end := f.pos + int64(len(b))
	if end > int64(len(f.data)) {
		if end > int64(cap(f.data)) {
			grown := make([]byte, end, end*2)
			copy(grown, f.data)
			f.data = grown
		} else {
			f.data = f.data[:end]
		}
	}
	copy(f.data[f.pos:], b)
	f.pos = end
	f.dirty = true
	return len(b), nil
}

func (f *bufferFile) Seek(offset int64, whence int) (int64, error) {
	if f.closed {
		return 0, pathError("seek", f.name, fs.ErrClosed)
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.pos + offset
	case io.SeekEnd:
		abs = int64(len(f.data)) + offset
	default:
		return 0, pathError("seek", f.name, errors.New("invalid whence"))
	}
	if abs < 0 {
		return 0, pathError("seek", f.name, errors.New("negative position"))
	}
	f.pos = abs
	return abs, nil
}

func (f *bufferFile) Truncate(size int64) error {
	if f.closed {
		return pathError("truncate", f.name, fs.ErrClosed)
	}
	if !f.writable {
		return pathError("truncate", f.name, fs.ErrPermission)
	}
	if size < 0 {
		return pathError("truncate", f.name, errors.New("negative size"))
	}
	if size <= int64(len(f.data)) {
		f.data = f.data[:size]
	} else {
		grown := make([]byte, size)
		copy(grown, f.data)
		f.data = grown
	}
	f.dirty = true
	return nil
}

func (f *bufferFile) Close() error {
	if f.closed {
		return pathError("close", f.name, fs.ErrClosed)
	}
	f.closed = true
	if f.dirty && f.commit != nil {
		return f.commit(f.data)
	}
	return nil
}
