// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfs

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
	"golang.org/x/exp/slices"
)

const (
	filesBucketName = "files"
	dirsBucketName  = "dirs"
)

var ErrBucketNotFound = errors.New("vfs: bolt bucket not found")

var _ FileSystem = (*Bolt)(nil)

// Bolt keeps a whole file tree inside a single bbolt database file. File
// contents are loaded on Open and stored back in one transaction on Close.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens or creates the database at file.
func OpenBolt(file string) (*Bolt, error) {
	db, err := bolt.Open(file, 0o666, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{filesBucketName, dirsBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		silentClose(db)
		return nil, err
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

func buckets(tx *bolt.Tx) (files *bolt.Bucket, dirs *bolt.Bucket, err error) {
	files = tx.Bucket([]byte(filesBucketName))
	dirs = tx.Bucket([]byte(dirsBucketName))
	if files == nil || dirs == nil {
		return nil, nil, ErrBucketNotFound
	}
	return files, dirs, nil
}

// lookup separates a missing key from a key holding an empty value.
func lookup(bucket *bolt.Bucket, p Path) ([]byte, bool) {
	key := []byte(p)
	k, v := bucket.Cursor().Seek(key)
	if !bytes.Equal(k, key) {
		return nil, false
	}
	return v, true
}

func boltIsDir(dirs *bolt.Bucket, p Path) bool {
	if p.IsRoot() {
		return true
	}
	_, ok := lookup(dirs, p)
	return ok
}

func boltCheckParent(files, dirs *bolt.Bucket, p Path) error {
	parent := p.Parent()
	if _, isFile := lookup(files, parent); isFile {
		return ErrNotDir
	}
	if !boltIsDir(dirs, parent) {
		return fs.ErrNotExist
	}
	return nil
}

// children lists the direct children of p found in bucket.
func children(bucket *bolt.Bucket, p Path, names []string) []string {
	prefix := []byte(p.childPrefix())
	c := bucket.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		if name, ok := p.directChild(string(k)); ok && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

func (b *Bolt) Open(path string, flag int) (File, error) {
	p := Clean(path)
	var data []byte
	err := b.db.Update(func(tx *bolt.Tx) error {
		files, dirs, err := buckets(tx)
		if err != nil {
			return err
		}
		if boltIsDir(dirs, p) {
			return pathError("open", path, ErrIsDir)
		}
		content, found := lookup(files, p)
		switch {
		case !found && flag&os.O_CREATE == 0:
			return pathError("open", path, fs.ErrNotExist)
		case found && flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0:
			return pathError("open", path, fs.ErrExist)
		case !found:
			if err := boltCheckParent(files, dirs, p); err != nil {
				return pathError("open", path, err)
			}
			return files.Put([]byte(p), []byte{})
		}
		// content is only valid inside the transaction
		data = make([]byte, len(content))
		copy(data, content)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newBufferFile(path, data, flag, func(content []byte) error {
		return b.db.Update(func(tx *bolt.Tx) error {
			files, _, err := buckets(tx)
			if err != nil {
				return err
			}
			return files.Put([]byte(p), content)
		})
	}), nil
}

func (b *Bolt) ReadDir(path string) ([]string, error) {
	p := Clean(path)
	var names []string
	err := b.db.View(func(tx *bolt.Tx) error {
		files, dirs, err := buckets(tx)
		if err != nil {
			return err
		}
		if _, isFile := lookup(files, p); isFile {
			return pathError("readdir", path, ErrNotDir)
		}
		if !boltIsDir(dirs, p) {
			return pathError("readdir", path, fs.ErrNotExist)
		}
		names = children(files, p, names)
		names = children(dirs, p, names)
		return nil
	})
	return names, err
}

func (b *Bolt) Stat(path string) (*ResourceInfo, error) {
	p := Clean(path)
	var info *ResourceInfo
	err := b.db.View(func(tx *bolt.Tx) error {
		files, dirs, err := buckets(tx)
		if err != nil {
			return err
		}
		if content, ok := lookup(files, p); ok {
			info = &ResourceInfo{Name: p.Name(), Size: int64(len(content)), Mode: 0o644}
			return nil
		}
		if boltIsDir(dirs, p) {
			info = &ResourceInfo{Name: p.Name(), Mode: fs.ModeDir | 0o755}
			return nil
		}
		return pathError("stat", path, fs.ErrNotExist)
	})
	return info, err
}

func (b *Bolt) Unlink(path string) error {
	p := Clean(path)
	return b.db.Update(func(tx *bolt.Tx) error {
		files, dirs, err := buckets(tx)
		if err != nil {
			return err
		}
		if _, ok := lookup(files, p); ok {
			return files.Delete([]byte(p))
		}
		if boltIsDir(dirs, p) {
			return pathError("unlink", path, ErrIsDir)
		}
		return pathError("unlink", path, fs.ErrNotExist)
	})
}

func (b *Bolt) Mkdir(path string) error {
	p := Clean(path)
	return b.db.Update(func(tx *bolt.Tx) error {
		files, dirs, err := buckets(tx)
		if err != nil {
			return err
		}
		if _, isFile := lookup(files, p); isFile || boltIsDir(dirs, p) {
			return pathError("mkdir", path, fs.ErrExist)
		}
		if err := boltCheckParent(files, dirs, p); err != nil {
			return pathError("mkdir", path, err)
		}
		return dirs.Put([]byte(p), []byte{1})
	})
}

func (b *Bolt) Rmdir(path string) error {
	p := Clean(path)
	return b.db.Update(func(tx *bolt.Tx) error {
		files, dirs, err := buckets(tx)
		if err != nil {
			return err
		}
		if _, isFile := lookup(files, p); isFile {
			return pathError("rmdir", path, ErrNotDir)
		}
		if p.IsRoot() {
			return pathError("rmdir", path, fs.ErrPermission)
		}
		if !boltIsDir(dirs, p) {
			return pathError("rmdir", path, fs.ErrNotExist)
		}
		if len(children(files, p, nil)) > 0 || len(children(dirs, p, nil)) > 0 {
			return pathError("rmdir", path, ErrNotEmpty)
		}
		return dirs.Delete([]byte(p))
	})
}
