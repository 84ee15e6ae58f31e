// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	pathpkg "path"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/untillpro/goutils/logger"

	"github.com/solidcoredata/vdvtab/config"
	"github.com/solidcoredata/vdvtab/profile"
	"github.com/solidcoredata/vdvtab/vfs"
)

// A Container is a set of tables kept in one file or in a directory with
// one file per table.
//
// A Container is not safe for concurrent use.
type Container struct {
	fsys     vfs.FileSystem
	path     string
	opts     config.Options
	single   bool
	writable bool
	update   bool
	closed   bool

	header Header
	tables []*Table
	diags  diagnostics

	// Profile used to recognize coordinate attributes while reading.
	readProfile *profile.Profile

	// Single file output.
	out        *lineWriter
	headerDone bool
	active     *Table

	// Single file update: where the eof; line starts, or the file size.
	eofOffset int64
	needsNL   bool
	started   bool

	// Directory mode record cache, keyed by table name.
	cache *lru.Cache[string, []*Record]
}

func newContainer(fsys vfs.FileSystem, path string, opts config.Options, single bool) *Container {
	return &Container{
		fsys:   fsys,
		path:   path,
		opts:   opts,
		single: single,
	}
}

// Create makes a new container at path. With SINGLE_FILE=YES, the
// default, path is a file; otherwise path is a directory created by this
// call. An existing path is an error unless OVERWRITE=YES.
func Create(fsys vfs.FileSystem, path string, opts config.Options) (*Container, error) {
	single, err := opts.Bool(OptSingleFile, true)
	if err != nil {
		return nil, err
	}
	overwrite, err := opts.Bool(OptOverwrite, false)
	if err != nil {
		return nil, err
	}
	if _, err := opts.Bool(OptStandardHeader, true); err != nil {
		return nil, err
	}
	if err := checkHeaderOptions(opts); err != nil {
		return nil, err
	}

	if vfs.Exists(fsys, path) {
		if !overwrite {
			return nil, fmt.Errorf("%w: %s: %w", ErrOpenFailed, path, fs.ErrExist)
		}
		logger.Verbose("vdv: overwriting", path)
		if err := vfs.RemoveAll(fsys, path, true, nil); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
		}
	}

	c := newContainer(fsys, path, opts, single)
	c.writable = true
	if single {
		f, err := fsys.Open(path, os.O_RDWR|os.O_CREATE|os.O_EXCL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
		}
		c.out = newLineWriter(f, nil)
		return c, nil
	}
	if err := fsys.Mkdir(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	return c, nil
}

// Open reads the container at path. A directory is opened in directory
// mode; its table schemas are read now and its records on first use.
func Open(fsys vfs.FileSystem, path string, opts config.Options) (*Container, error) {
	return open(fsys, path, opts, false)
}

// OpenUpdate opens an existing container to add tables to it. Tables
// already present are read only. A single file is only changed once a
// table is created; the new tables replace its eof; line.
func OpenUpdate(fsys vfs.FileSystem, path string, opts config.Options) (*Container, error) {
	return open(fsys, path, opts, true)
}

func open(fsys vfs.FileSystem, path string, opts config.Options, update bool) (*Container, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	prof, err := profile.Parse(opts.String(OptProfile, string(profile.VDV452)))
	if err != nil {
		return nil, err
	}

	var c *Container
	if info.IsDir() {
		c, err = openDirectory(fsys, path, opts, prof, update)
	} else {
		c, err = openFile(fsys, path, opts, prof, update)
	}
	if err != nil {
		return nil, err
	}
	c.writable = update
	c.update = update
	c.headerDone = true
	return c, nil
}

// startUpdate reopens a single file for writing and cuts it at the eof;
// line.
func (c *Container) startUpdate() error {
	if !c.update || c.started {
		return nil
	}
	f, err := c.fsys.Open(c.path, os.O_RDWR)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	if _, err := f.Seek(c.eofOffset, io.SeekStart); err != nil {
		silentClose(f)
		return err
	}
	if err := f.Truncate(c.eofOffset); err != nil {
		silentClose(f)
		return err
	}
	enc, _ := charsetOrDefault(c.header.Charset())
	c.out = newLineWriter(f, enc)
	if c.needsNL {
		c.out.raw("\n")
	}
	c.started = true
	logger.Verbose("vdv: appending to", c.path, "at offset", c.eofOffset)
	return nil
}

// CreateTable adds a table. Table options override container options:
//
//	PROFILE           NONE, VDV-452, VDV-452-ENGLISH or VDV-452-GERMAN
//	PROFILE_STRICT    refuse tables and attributes unknown to the profile
//	CREATE_ALL_FIELDS create every attribute the profile knows, default YES
//	EXTENSION         file extension in directory mode, default x10
//	HEADER_<key>      header lines, used if the header is not written yet
func (c *Container) CreateTable(name string, opts config.Options) (*Table, error) {
	switch {
	case c.closed:
		return nil, ErrClosed
	case !c.writable:
		return nil, fmt.Errorf("%w: %s", ErrReadOnly, c.path)
	case name == "":
		return nil, fmt.Errorf("%w: empty table name", ErrMalformedSchema)
	case c.tableByName(name) != nil:
		return nil, fmt.Errorf("%w: table %s", ErrAlreadyExists, name)
	}

	if err := checkHeaderOptions(opts); err != nil {
		return nil, err
	}
	merged := c.opts.Merge(opts)
	prof, err := profile.Parse(merged.String(OptProfile, ""))
	if err != nil {
		return nil, err
	}
	strict, err := merged.Bool(OptProfileStrict, false)
	if err != nil {
		return nil, err
	}
	createAll, err := merged.Bool(OptCreateAllFields, true)
	if err != nil {
		return nil, err
	}

	t := &Table{
		c:          c,
		name:       name,
		writable:   true,
		headerOpts: opts,
		profile:    prof,
		strict:     strict,
	}
	if !prof.IsNone() {
		known, ok := prof.Table(name)
		if !ok {
			err := fmt.Errorf("%w: %s (profile %s)", ErrUnknownTable, name, prof)
			if strict {
				c.diag(LevelError, name, err)
				return nil, err
			}
			c.diag(LevelWarning, name, err)
		} else {
			t.known = known
			if createAll {
				for _, a := range known.Attributes {
					kind, err := ParseKind(a.Kind)
					if err != nil {
						return nil, err
					}
					t.attrs = append(t.attrs, Attribute{Name: a.Name, Kind: kind, Coordinate: a.Coordinate})
				}
			}
		}
	}

	if c.single {
		if err := c.startUpdate(); err != nil {
			return nil, err
		}
		if c.headerDone && len(opts.WithPrefix(OptHeaderPrefix)) > 0 {
			logger.Verbose("vdv: header already written, header options of", name, "ignored")
		}
	} else {
		file := pathpkg.Join(c.path, name+"."+merged.String(OptExtension, DefaultExtension))
		f, err := c.fsys.Open(file, os.O_RDWR|os.O_CREATE|os.O_EXCL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
		}
		enc, ok := charsetOrDefault(c.opts.String(OptHeaderPrefix+"CHS", DefaultCharset))
		if !ok {
			c.diag(LevelWarning, name, fmt.Errorf("unknown charset, writing ISO8859-1"))
		}
		t.file = file
		t.out = newLineWriter(f, enc)
	}
	c.tables = append(c.tables, t)
	if logger.IsVerbose() {
		logger.Verbose("vdv: created table", name, "in", c.path)
	}
	return t, nil
}

// CanCreateTable reports whether CreateTable may succeed.
func (c *Container) CanCreateTable() bool {
	return c.writable && !c.closed
}

func (c *Container) tableByName(name string) *Table {
	for _, t := range c.tables {
		if t.name == name {
			return t
		}
	}
	return nil
}

// Table finds a table by name.
func (c *Container) Table(name string) (*Table, error) {
	if t := c.tableByName(name); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: table %s", ErrNotFound, name)
}

// TableAt returns the i-th table: file order for a single file, name
// order for a directory, followed by the tables created since opening.
func (c *Container) TableAt(i int) (*Table, error) {
	if i < 0 || i >= len(c.tables) {
		return nil, fmt.Errorf("%w: table index %d", ErrNotFound, i)
	}
	return c.tables[i], nil
}

func (c *Container) TableCount() int {
	return len(c.tables)
}

// Tables returns a copy of the table list.
func (c *Container) Tables() []*Table {
	return append([]*Table(nil), c.tables...)
}

func (c *Container) Path() string {
	return c.path
}

func (c *Container) SingleFile() bool {
	return c.single
}

// Header returns the header read from the source or, once written, the
// header written.
func (c *Container) Header() Header {
	return c.header.clone()
}

// Diagnostics returns the problems found so far.
func (c *Container) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), c.diags...)
}

func (c *Container) diag(level Level, table string, err error) {
	c.diags.add(Diagnostic{Level: level, Err: err, File: c.path, Table: table})
}

// Close writes everything still pending and releases the files. A single
// file opened with OpenUpdate in which no table was created is left as it
// was.
func (c *Container) Close() error {
	if c.closed {
		return ErrClosed
	}
	var err error
	if c.writable {
		err = c.finish()
	}
	c.closed = true
	if c.cache != nil {
		c.cache.Purge()
	}
	return err
}

// tries to close and logs the failure
func silentClose(closer io.Closer) {
	if err := closer.Close(); err != nil {
		logger.Warning("vdv: failed to close:", err)
	}
}
