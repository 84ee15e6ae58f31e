// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"errors"
	"io/fs"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/vdvtab/config"
	"github.com/solidcoredata/vdvtab/vfs"
)

const appendBase = "tbl; foo\natr; atr\nfrm; char[40]\nrec; \"foo\"\n"

func TestAppend(t *testing.T) {
	list := []struct {
		Name  string
		Input string
	}{
		{Name: "no eof", Input: appendBase},
		{Name: "eof without newline", Input: appendBase + "eof; 1"},
		{Name: "eof", Input: appendBase + "eof; 1\n"},
		{Name: "no final newline", Input: appendBase[:len(appendBase)-1]},
	}
	for _, item := range list {
		t.Run(item.Name, func(t *testing.T) {
			require := require.New(t)
			mem := vfs.NewMem()
			require.NoError(vfs.WriteAll(mem, "/a.x10", []byte(item.Input)))

			c, err := OpenUpdate(mem, "/a.x10", nil)
			require.NoError(err)
			require.True(c.CanCreateTable())
			tab, err := c.CreateTable("new_layer", nil)
			require.NoError(err)
			require.NoError(tab.CreateAttribute("atr", Char(0)))
			require.NoError(tab.AppendValues("bar"))

			foo, err := c.Table("foo")
			require.NoError(err)
			require.False(foo.CanWrite())
			require.ErrorIs(foo.AppendValues("x"), ErrReadOnly)
			require.NoError(c.Close())

			require.Equal(appendBase+"tbl; new_layer\natr; atr\nfrm; char[80]\nrec; \"bar\"\nend; 1\neof; 2\n", readString(t, mem, "/a.x10"))

			r, err := Open(mem, "/a.x10", nil)
			require.NoError(err)
			defer r.Close()
			require.Equal(2, r.TableCount())
			for _, tab := range r.Tables() {
				require.Equal(1, tab.RecordCount())
			}
		})
	}
}

func TestUpdateUntouched(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()
	input := appendBase + "eof; 1"
	require.NoError(vfs.WriteAll(mem, "/a.x10", []byte(input)))

	c, err := OpenUpdate(mem, "/a.x10", nil)
	require.NoError(err)
	require.NoError(c.Close())
	require.Equal(input, readString(t, mem, "/a.x10"))
}

func TestCreateErrors(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()
	require.NoError(vfs.WriteAll(mem, "/exists.x10", []byte("eof; 0\n")))

	_, err := Create(mem, "/exists.x10", nil)
	require.ErrorIs(err, ErrOpenFailed)
	require.ErrorIs(err, fs.ErrExist)

	_, err = Create(mem, "/does/not_exist", nil)
	require.ErrorIs(err, ErrOpenFailed)
	_, err = Create(mem, "/does/not_exist", config.MustParse("SINGLE_FILE=NO"))
	require.ErrorIs(err, ErrOpenFailed)
	_, err = Create(mem, "/x.x10", config.MustParse("SINGLE_FILE=maybe"))
	require.ErrorIs(err, config.ErrInvalidOption)

	c, err := Create(mem, "/exists.x10", config.MustParse("OVERWRITE=YES"))
	require.NoError(err)
	_, err = c.CreateTable("t", nil)
	require.NoError(err)
	require.NoError(c.Close())
	r, err := Open(mem, "/exists.x10", nil)
	require.NoError(err)
	require.Equal(1, r.TableCount())
	require.NoError(r.Close())
}

func TestCreateTableReadOnlyDirectory(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()

	c, err := Create(mem, "/dir", config.MustParse("SINGLE_FILE=NO"))
	require.NoError(err)
	tab, err := c.CreateTable("t", nil)
	require.NoError(err)
	require.NoError(tab.CreateAttribute("a", Char(0)))
	require.NoError(c.Close())

	c, err = OpenUpdate(vfs.ReadOnly(mem), "/dir", nil)
	require.NoError(err)
	_, err = c.CreateTable("u", nil)
	require.ErrorIs(err, ErrOpenFailed)
	require.ErrorIs(err, fs.ErrPermission)
	require.NoError(c.Close())
}

func TestDirectory(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()
	opts := config.MustParse("SINGLE_FILE=NO", "EXTENSION=txt")

	c, err := Create(mem, "/dir", opts)
	require.NoError(err)
	require.False(c.SingleFile())
	b, err := c.CreateTable("b_tab", nil)
	require.NoError(err)
	require.NoError(b.CreateAttribute("x", IntegerKind(0)))
	a, err := c.CreateTable("a_tab", nil)
	require.NoError(err)
	require.NoError(a.CreateAttribute("y", Char(3)))
	require.NoError(b.AppendValues(1))
	require.NoError(a.AppendValues("one"))
	// Directory tables take records in any order.
	require.NoError(b.AppendValues(2))
	_, err = c.CreateTable("c_tab", nil)
	require.NoError(err)
	require.NoError(c.Close())

	require.Equal("atr; x\nfrm; num[10.0]\nrec; 1\nrec; 2\nend; 2\n", readString(t, mem, "/dir/b_tab.txt"))
	require.Equal("atr; y\nfrm; char[3]\nrec; \"one\"\nend; 1\n", readString(t, mem, "/dir/a_tab.txt"))
	require.Equal("atr;\nfrm;\nend; 0\n", readString(t, mem, "/dir/c_tab.txt"))
	require.NoError(vfs.WriteAll(mem, "/dir/readme.md", []byte("tbl; not a table\n")))

	r, err := Open(mem, "/dir", opts)
	require.NoError(err)
	defer r.Close()
	require.Equal(3, r.TableCount())
	var names []string
	for _, tab := range r.Tables() {
		names = append(names, tab.Name())
	}
	require.Equal([]string{"a_tab", "b_tab", "c_tab"}, names)

	tab, err := r.Table("b_tab")
	require.NoError(err)
	require.Equal(2, tab.RecordCount())
	recs, err := tab.Records()
	require.NoError(err)
	require.Len(recs, 2)
	require.Equal(int64(2), recs[1].At(0).Interface())
	require.Empty(r.Diagnostics())
}

func TestDirectoryFileWithHeader(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()
	require.NoError(mem.Mkdir("/d"))
	require.NoError(vfs.WriteAll(mem, "/d/stops.x10", []byte("mod; DD.MM.YYYY; HH:MM:SS; free\ntbl; stops\natr; n\nfrm; char[3]\nrec; \"a\"\nend; 1\neof; 1\n")))
	require.NoError(vfs.WriteAll(mem, "/d/broken.x10", []byte("atr; a; b\nfrm; char[1]\n")))
	require.NoError(mem.Mkdir("/d/sub"))

	c, err := Open(mem, "/d", nil)
	require.NoError(err)
	defer c.Close()
	require.Equal(1, c.TableCount())
	tab, err := c.TableAt(0)
	require.NoError(err)
	require.Equal("stops", tab.Name())
	recs, err := tab.Records()
	require.NoError(err)
	require.Equal("a", recs[0].At(0).Text())
	require.True(HasErrors(c.Diagnostics()))
}

func TestDirectoryCache(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()
	require.NoError(mem.Mkdir("/d"))
	require.NoError(vfs.WriteAll(mem, "/d/a.x10", []byte("atr; n\nfrm; char[3]\nrec; \"old\"\nend; 1\n")))
	require.NoError(vfs.WriteAll(mem, "/d/b.x10", []byte("atr; n\nfrm; num[3.0]\nrec; 1\nrec; bad\nend; 2\n")))

	c, err := Open(mem, "/d", config.MustParse("CACHE_TABLES=1"))
	require.NoError(err)
	defer c.Close()
	a, err := c.Table("a")
	require.NoError(err)
	b, err := c.Table("b")
	require.NoError(err)

	recs, err := a.Records()
	require.NoError(err)
	require.Equal("old", recs[0].At(0).Text())
	require.NoError(vfs.WriteAll(mem, "/d/a.x10", []byte("atr; n\nfrm; char[3]\nrec; \"new\"\nend; 1\n")))

	recs, err = a.Records()
	require.NoError(err)
	require.Equal("old", recs[0].At(0).Text())

	// b evicts a.
	_, err = b.Records()
	require.NoError(err)
	recs, err = a.Records()
	require.NoError(err)
	require.Equal("new", recs[0].At(0).Text())

	// The bad value of b is reported once.
	_, err = b.Records()
	require.NoError(err)
	var values int
	for _, d := range c.Diagnostics() {
		if errors.Is(d, ErrInvalidValue) {
			values++
		}
	}
	require.Equal(1, values)
}

func TestRecordsAreCopies(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()
	require.NoError(mem.Mkdir("/d"))
	table := "atr; n\nfrm; char[3]\nrec; \"old\"\nend; 1\n"
	require.NoError(vfs.WriteAll(mem, "/d/a.x10", []byte(table)))
	require.NoError(vfs.WriteAll(mem, "/s.x10", []byte("tbl; a\n"+table+"eof; 1\n")))

	for _, path := range []string{"/d", "/s.x10"} {
		c, err := Open(mem, path, nil)
		require.NoError(err, path)
		a, err := c.Table("a")
		require.NoError(err, path)

		recs, err := a.Records()
		require.NoError(err, path)
		require.NoError(recs[0].Set("n", "chg"), path)
		require.Equal("chg", recs[0].At(0).Text(), path)

		recs, err = a.Records()
		require.NoError(err, path)
		require.Equal("old", recs[0].At(0).Text(), path)
		require.Same(a, recs[0].Table(), path)
		require.NoError(c.Close())
	}
}

func TestProfile(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()

	c, err := Create(mem, "/p.x10", config.MustParse("PROFILE=VDV-452", "PROFILE_STRICT=YES"))
	require.NoError(err)

	_, err = c.CreateTable("UNKNOWN", nil)
	require.ErrorIs(err, ErrUnknownTable)
	require.True(HasErrors(c.Diagnostics()))

	stop, err := c.CreateTable("STOP", config.MustParse("CREATE_ALL_FIELDS=NO"))
	require.NoError(err)
	require.Equal(0, stop.AttributeCount())
	require.NoError(stop.CreateAttribute("POINT_LONGITUDE", Num(10, 0)))
	require.NoError(stop.CreateAttribute("POINT_LATITUDE", Num(10, 0)))
	require.ErrorIs(stop.CreateAttribute("UNKNOWN", Char(0)), ErrUnknownAttribute)
	a, err := stop.Attribute("POINT_LONGITUDE")
	require.NoError(err)
	require.True(a.Coordinate)

	rec := stop.NewRecord()
	require.NoError(rec.Set("POINT_LONGITUDE", -(123 + 45.0/60 + 56.789/3600)))
	require.NoError(rec.Set("POINT_LATITUDE", -(23 + 45.0/60 + 56.789/3600)))
	require.Equal(int64(-1234556789), rec.At(0).Interface())
	require.Equal(int64(-234556789), rec.At(1).Interface())
	require.NoError(stop.Append(rec))

	recOrt, err := c.CreateTable("REC_ORT", nil)
	require.NoError(err)
	require.Greater(recOrt.AttributeCount(), 2)
	a, err = recOrt.Attribute("ORT_POS_BREITE")
	require.NoError(err)
	require.True(a.Coordinate)
	require.NoError(c.Close())

	r, err := Open(mem, "/p.x10", nil)
	require.NoError(err)
	defer r.Close()
	tab, err := r.Table("STOP")
	require.NoError(err)
	recs, err := tab.Records()
	require.NoError(err)
	require.Len(recs, 1)
	deg, err := recs[0].Degrees("POINT_LONGITUDE")
	require.NoError(err)
	require.InDelta(-(123 + 45.0/60 + 56.789/3600), deg, 1e-9)
	deg, err = recs[0].Degrees("POINT_LATITUDE")
	require.NoError(err)
	require.InDelta(-(23 + 45.0/60 + 56.789/3600), deg, 1e-9)
}

func TestPosition(t *testing.T) {
	lon := -(123 + 45.0/60 + 56.789/3600)
	lat := -(23 + 45.0/60 + 56.789/3600)
	for _, tc := range []struct{ profile, table, lon, lat string }{
		{"VDV-452", "STOP", "POINT_LONGITUDE", "POINT_LATITUDE"},
		{"VDV-452-ENGLISH", "STOP", "POINT_LONGITUDE", "POINT_LATITUDE"},
		{"VDV-452", "REC_ORT", "ORT_POS_LAENGE", "ORT_POS_BREITE"},
		{"VDV-452-GERMAN", "REC_ORT", "ORT_POS_LAENGE", "ORT_POS_BREITE"},
	} {
		t.Run(tc.profile+"/"+tc.table, func(t *testing.T) {
			require := require.New(t)
			mem := vfs.NewMem()

			c, err := Create(mem, "/p.x10", config.MustParse("PROFILE="+tc.profile))
			require.NoError(err)
			tab, err := c.CreateTable(tc.table, nil)
			require.NoError(err)
			rec := tab.NewRecord()
			require.ErrorIs(rec.Set(tc.lon, math.NaN()), ErrInvalidValue)
			require.NoError(rec.Set(tc.lon, lon))
			require.NoError(rec.Set(tc.lat, lat))
			require.NoError(tab.Append(rec))
			require.NoError(c.Close())

			r, err := Open(mem, "/p.x10", nil)
			require.NoError(err)
			defer r.Close()
			tab, err = r.Table(tc.table)
			require.NoError(err)
			recs, err := tab.Records()
			require.NoError(err)
			require.Len(recs, 1)
			v, err := recs[0].Value(tc.lon)
			require.NoError(err)
			require.Equal(int64(-1234556789), v.Interface())
			x, y, err := recs[0].Position()
			require.NoError(err)
			require.InDelta(-123.765774722222, x, 1e-9)
			require.InDelta(-23.7657747222222, y, 1e-9)
		})
	}

	c := openString(t, "tbl; t\natr; a\nfrm; num[3.0]\nrec; 1\nend; 1\neof; 1\n", nil)
	defer c.Close()
	tab, err := c.Table("t")
	require.NoError(t, err)
	recs, err := tab.Records()
	require.NoError(t, err)
	_, _, err = recs[0].Position()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProfileNotStrict(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()

	c, err := Create(mem, "/p.x10", config.MustParse("PROFILE=VDV-452-ENGLISH"))
	require.NoError(err)
	unknown, err := c.CreateTable("UNKNOWN", nil)
	require.NoError(err)
	require.NoError(unknown.CreateAttribute("a", Char(0)))

	stop, err := c.CreateTable("STOP", config.MustParse("CREATE_ALL_FIELDS=NO"))
	require.NoError(err)
	require.NoError(stop.CreateAttribute("UNKNOWN", Char(0)))

	// German names are not part of the English profile.
	_, err = c.CreateTable("REC_ORT", nil)
	require.NoError(err)
	require.NoError(c.Close())

	dd := c.Diagnostics()
	require.False(HasErrors(dd))
	require.Len(dd, 3)
	require.ErrorIs(dd[0], ErrUnknownTable)
	require.ErrorIs(dd[1], ErrUnknownAttribute)
	require.ErrorIs(dd[2], ErrUnknownTable)
}

func TestLocalFiles(t *testing.T) {
	require := require.New(t)
	path := filepath.ToSlash(filepath.Join(t.TempDir(), "local.x10"))

	c, err := Create(vfs.Local, path, nil)
	require.NoError(err)
	tab, err := c.CreateTable("t", nil)
	require.NoError(err)
	require.NoError(tab.CreateAttribute("a", Char(0)))
	require.NoError(tab.AppendValues("x"))
	require.NoError(c.Close())

	c, err = OpenUpdate(vfs.Local, path, nil)
	require.NoError(err)
	tab, err = c.CreateTable("u", nil)
	require.NoError(err)
	require.NoError(tab.CreateAttribute("b", Num(3, 1)))
	require.NoError(tab.AppendValues(1.25))
	require.NoError(c.Close())

	c, err = Open(vfs.Local, path, nil)
	require.NoError(err)
	defer c.Close()
	require.Equal(2, c.TableCount())
	u, err := c.Table("u")
	require.NoError(err)
	recs, err := u.Records()
	require.NoError(err)
	require.Equal("1.2", encodeValue(&u.attrs[0], recs[0].At(0)))
	require.Empty(c.Diagnostics())
}

var errTest = errors.New("test")

func TestDiagnosticError(t *testing.T) {
	require := require.New(t)
	d := Diagnostic{Level: LevelError, Err: errTest, File: "f.x10", Line: 3, Table: "t"}
	require.Equal("f.x10:3: table t: test", d.Error())
	require.ErrorIs(d, errTest)
	d.Line = 0
	require.Equal("f.x10: table t: test", d.Error())
	d.Table = ""
	require.Equal("f.x10: test", d.Error())
	require.Equal("error", LevelError.String())
}

func TestDirectoryLayers(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()

	c, err := Create(mem, "/layers", config.MustParse("SINGLE_FILE=NO"))
	require.NoError(err)
	_, err = c.CreateTable("empty", nil)
	require.NoError(err)
	lyr, err := c.CreateTable("lyr_1", nil)
	require.NoError(err)
	require.NoError(lyr.CreateAttribute("str_field", Char(0)))
	require.NoError(lyr.CreateAttribute("int_field", IntegerKind(0)))
	require.NoError(lyr.CreateAttribute("int64_field", Integer64Kind()))
	require.NoError(lyr.CreateAttribute("bool_field", Boolean()))
	require.NoError(lyr.CreateAttribute("str2_field", Char(2)))
	require.NoError(lyr.CreateAttribute("int2_field", IntegerKind(2)))
	another, err := c.CreateTable("another_layer", nil)
	require.NoError(err)
	require.NoError(another.CreateAttribute("str_field", Char(0)))
	require.NoError(lyr.AppendValues(`a"b`, 12, nil, false, "xy", 7))
	require.NoError(another.AppendValues("0"))
	require.NoError(c.Close())

	names, err := mem.ReadDir("/layers")
	require.NoError(err)
	require.ElementsMatch([]string{"empty.x10", "lyr_1.x10", "another_layer.x10"}, names)
	require.Equal("atr; str_field; int_field; int64_field; bool_field; str2_field; int2_field\n"+
		"frm; char[80]; num[10.0]; num[19.0]; boolean; char[2]; num[1.0]\n"+
		"rec; \"a\"\"b\"; 12; NULL; 0; \"xy\"; 7\n"+
		"end; 1\n", readString(t, mem, "/layers/lyr_1.x10"))

	// Each table file reads on its own.
	single, err := Open(mem, "/layers/lyr_1.x10", nil)
	require.NoError(err)
	require.Equal(1, single.TableCount())
	require.NoError(single.Close())

	r, err := Open(mem, "/layers", nil)
	require.NoError(err)
	defer r.Close()
	require.Equal(3, r.TableCount())
	tab, err := r.Table("lyr_1")
	require.NoError(err)
	recs, err := tab.Records()
	require.NoError(err)
	require.Equal([]interface{}{`a"b`, int64(12), nil, false, "xy", int64(7)}, interfaces(recs[0]))
}
