// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	pathpkg "path"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

// TechnologyCompatibilityKit checks that fsys behaves the way the table
// reader and writer expect. root must be an existing, empty directory.
func TechnologyCompatibilityKit(t *testing.T, fsys FileSystem, root string) {
	t.Run("WriteRead", func(t *testing.T) { testWriteRead(t, fsys, root) })
	t.Run("CreateExclusive", func(t *testing.T) { testCreateExclusive(t, fsys, root) })
	t.Run("SeekTruncateAppend", func(t *testing.T) { testSeekTruncate(t, fsys, root) })
	t.Run("Directories", func(t *testing.T) { testDirectories(t, fsys, root) })
	t.Run("RemoveAll", func(t *testing.T) { testRemoveAll(t, fsys, root) })
}

func testWriteRead(t *testing.T, fsys FileSystem, root string) {
	require := require.New(t)
	name := pathpkg.Join(root, "write_read.x10")

	_, err := fsys.Open(name, os.O_RDONLY)
	require.ErrorIs(err, fs.ErrNotExist)

	require.NoError(WriteAll(fsys, name, []byte("tbl; foo\n")))
	data, err := ReadAll(fsys, name)
	require.NoError(err)
	require.Equal("tbl; foo\n", string(data))

	info, err := fsys.Stat(name)
	require.NoError(err)
	require.False(info.IsDir())
	require.Equal(int64(9), info.Size)
	require.Equal("write_read.x10", info.Name)

	f, err := fsys.Open(name, os.O_RDONLY)
	require.NoError(err)
	_, err = f.Write([]byte("x"))
	require.Error(err)
	require.NoError(f.Close())
}

func testCreateExclusive(t *testing.T, fsys FileSystem, root string) {
	require := require.New(t)
	name := pathpkg.Join(root, "exclusive.x10")

	f, err := fsys.Open(name, os.O_RDWR|os.O_CREATE|os.O_EXCL)
	require.NoError(err)
	require.True(Exists(fsys, name), "a created file exists before it is closed")
	require.NoError(f.Close())

	_, err = fsys.Open(name, os.O_RDWR|os.O_CREATE|os.O_EXCL)
	require.ErrorIs(err, fs.ErrExist)

	_, err = fsys.Open(pathpkg.Join(root, "missing", "file.x10"), os.O_RDWR|os.O_CREATE)
	require.Error(err)
}

func testSeekTruncate(t *testing.T, fsys FileSystem, root string) {
	require := require.New(t)
	name := pathpkg.Join(root, "seek.x10")
	require.NoError(WriteAll(fsys, name, []byte("end; 1\neof; 1\n")))

	f, err := fsys.Open(name, os.O_RDWR)
	require.NoError(err)
	pos, err := f.Seek(7, io.SeekStart)
	require.NoError(err)
	require.Equal(int64(7), pos)
	require.NoError(f.Truncate(7))
	_, err = f.Write([]byte("eof; 2\n"))
	require.NoError(err)
	require.NoError(f.Close())

	data, err := ReadAll(fsys, name)
	require.NoError(err)
	require.Equal("end; 1\neof; 2\n", string(data))

	f, err = fsys.Open(name, os.O_WRONLY|os.O_APPEND)
	require.NoError(err)
	_, err = f.Write([]byte("x"))
	require.NoError(err)
	require.NoError(f.Close())
	data, err = ReadAll(fsys, name)
	require.NoError(err)
	require.Equal("end; 1\neof; 2\nx", string(data))
}

func testDirectories(t *testing.T, fsys FileSystem, root string) {
	require := require.New(t)
	dir := pathpkg.Join(root, "dir")

	require.NoError(fsys.Mkdir(dir))
	require.True(IsDir(fsys, dir))
	require.ErrorIs(fsys.Mkdir(dir), fs.ErrExist)
	require.Error(fsys.Mkdir(pathpkg.Join(root, "no", "parent")))

	names, err := fsys.ReadDir(dir)
	require.NoError(err)
	require.Empty(names)

	require.NoError(WriteAll(fsys, pathpkg.Join(dir, "b.x10"), []byte("b")))
	require.NoError(WriteAll(fsys, pathpkg.Join(dir, "a.x10"), []byte("a")))
	require.NoError(fsys.Mkdir(pathpkg.Join(dir, "sub")))
	names, err = fsys.ReadDir(dir)
	require.NoError(err)
	slices.Sort(names)
	require.Equal([]string{"a.x10", "b.x10", "sub"}, names)

	_, err = fsys.Open(dir, os.O_RDONLY|os.O_CREATE)
	require.Error(err)
	require.Error(fsys.Unlink(dir))
	err = fsys.Rmdir(dir)
	require.Error(err)
	require.True(errors.Is(err, ErrNotEmpty) || IsDir(fsys, dir))
	require.Error(fsys.Rmdir(pathpkg.Join(dir, "a.x10")))

	require.NoError(fsys.Unlink(pathpkg.Join(dir, "a.x10")))
	require.False(Exists(fsys, pathpkg.Join(dir, "a.x10")))
	require.ErrorIs(fsys.Unlink(pathpkg.Join(dir, "a.x10")), fs.ErrNotExist)
}

func testRemoveAll(t *testing.T, fsys FileSystem, root string) {
	require := require.New(t)
	dir := pathpkg.Join(root, "tree")
	require.NoError(fsys.Mkdir(dir))
	require.NoError(fsys.Mkdir(pathpkg.Join(dir, "sub")))
	require.NoError(WriteAll(fsys, pathpkg.Join(dir, "sub", "x.x10"), nil))
	require.NoError(WriteAll(fsys, pathpkg.Join(dir, "y.x10"), nil))

	var steps []string
	require.NoError(RemoveAll(fsys, dir, true, func(op, path string) {
		steps = append(steps, op+"("+path+")")
	}))
	require.Equal([]string{
		"Unlink(" + pathpkg.Join(dir, "sub", "x.x10") + ")",
		"Rmdir(" + pathpkg.Join(dir, "sub") + ")",
		"Unlink(" + pathpkg.Join(dir, "y.x10") + ")",
		"Rmdir(" + dir + ")",
	}, steps)
	require.True(IsDir(fsys, dir), "simulate deletes nothing")

	require.Error(RemoveAll(fsys, dir, false, nil))
	require.NoError(RemoveAll(fsys, dir, true, nil))
	require.False(Exists(fsys, dir))
}
