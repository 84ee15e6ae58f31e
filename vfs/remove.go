// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfs

import (
	pathpkg "path"

	"github.com/untillpro/goutils/logger"
	"golang.org/x/exp/slices"
)

const (
	OpUnlink = "Unlink"
	OpRmdir  = "Rmdir"
)

// RemoveAll deletes path. Without recurse only a single file is unlinked.
// With recurse, directories are emptied depth first and then removed.
//
// When simulate is not nil nothing is deleted; simulate is called with the
// operation and path of every step that would have run.
func RemoveAll(fsys FileSystem, path string, recurse bool, simulate func(op, path string)) error {
	if !recurse {
		return removeStep(fsys, OpUnlink, path, simulate)
	}
	if !IsDir(fsys, path) {
		return removeStep(fsys, OpUnlink, path, simulate)
	}
	names, err := fsys.ReadDir(path)
	if err != nil {
		return err
	}
	slices.Sort(names)
	for _, name := range names {
		if err := RemoveAll(fsys, pathpkg.Join(path, name), true, simulate); err != nil {
			return err
		}
	}
	return removeStep(fsys, OpRmdir, path, simulate)
}

func removeStep(fsys FileSystem, op, path string, simulate func(op, path string)) error {
	if simulate != nil {
		simulate(op, path)
		return nil
	}
	if logger.IsVerbose() {
		logger.Verbose("vfs:", op, path)
	}
	if op == OpRmdir {
		return fsys.Rmdir(path)
	}
	return fsys.Unlink(path)
}
