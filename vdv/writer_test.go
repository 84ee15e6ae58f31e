// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/vdvtab/config"
	"github.com/solidcoredata/vdvtab/vfs"
)

const goldenFile = `mod; DD.MM.YYYY; HH:MM:SS; free
src; "UNKNOWN"; "01.01.1970"; "00.00.00"
chs; "ISO8859-1"
ver; "1.4"
ifv; "1.4"
dve; "1.4"
fft; ""
foo; "bar"
tbl; another_layer
atr; str_field
frm; char[80]
rec; "0"
rec; "1"
rec; "2"
rec; "3"
rec; "4"
end; 5
tbl; lyr_1
atr; str_field; int_field; int64_field; bool_field; str2_field; int2_field
frm; char[80]; num[10.0]; num[19.0]; boolean; char[2]; num[1.0]
rec; "a""b"; 12; NULL; 1; NULL; NULL
rec; NULL; NULL; NULL; NULL; NULL; NULL
end; 2
tbl; empty
atr;
frm;
end; 0
tbl; empty2
atr;
frm;
end; 0
eof; 4
`

func readString(t *testing.T, fsys vfs.FileSystem, path string) string {
	data, err := vfs.ReadAll(fsys, path)
	require.NoError(t, err)
	return string(data)
}

func TestWriteGolden(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()

	c, err := Create(mem, "/out.x10", nil)
	require.NoError(err)
	another, err := c.CreateTable("another_layer", config.MustParse(
		"HEADER_SRC_DATE=01.01.1970",
		"HEADER_SRC_TIME=00.00.00",
		"HEADER_foo=bar",
	))
	require.NoError(err)
	require.NoError(another.CreateAttribute("str_field", Char(0)))

	lyr, err := c.CreateTable("lyr_1", nil)
	require.NoError(err)
	require.NoError(lyr.CreateAttribute("str_field", Char(0)))
	require.NoError(lyr.CreateAttribute("int_field", IntegerKind(0)))
	require.NoError(lyr.CreateAttribute("int64_field", Integer64Kind()))
	require.NoError(lyr.CreateAttribute("bool_field", Boolean()))
	require.NoError(lyr.CreateAttribute("str2_field", Char(2)))
	require.NoError(lyr.CreateAttribute("int2_field", IntegerKind(2)))

	_, err = c.CreateTable("empty", nil)
	require.NoError(err)
	_, err = c.CreateTable("empty2", nil)
	require.NoError(err)

	for i := 0; i < 5; i++ {
		require.NoError(another.AppendValues(strconv.Itoa(i)))
	}
	require.NoError(lyr.AppendValues(`a"b`, 12, nil, true, nil, nil))
	require.NoError(lyr.AppendValues(nil, nil, nil, nil, nil, nil))
	require.Equal(5, another.RecordCount())
	require.Equal(2, lyr.RecordCount())
	require.NoError(c.Close())
	require.ErrorIs(c.Close(), ErrClosed)

	require.Equal(goldenFile, readString(t, mem, "/out.x10"))
	require.Empty(c.Diagnostics())
}

func TestWriteHeaderDefaults(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()

	timeNow = func() time.Time { return time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC) }
	defer func() { timeNow = time.Now }()

	c, err := Create(mem, "/h.x10", config.MustParse("HEADER_SRC=test", "HEADER_CHS=UTF-8"))
	require.NoError(err)
	tab, err := c.CreateTable("t", nil)
	require.NoError(err)
	require.NoError(tab.CreateAttribute("name", Char(4)))
	require.NoError(tab.AppendValues("Zürich"))
	require.NoError(c.Close())

	require.Equal(`mod; DD.MM.YYYY; HH:MM:SS; free
src; "test"; "05.03.2024"; "07.08.09"
chs; "UTF-8"
ver; "1.4"
ifv; "1.4"
dve; "1.4"
fft; ""
tbl; t
atr; name
frm; char[4]
rec; "Zürich"
end; 1
eof; 1
`, readString(t, mem, "/h.x10"))

	// Longer than char[4].
	dd := c.Diagnostics()
	require.Len(dd, 1)
	require.Equal(LevelWarning, dd[0].Level)
	require.Equal("UTF-8", c.Header().Charset())
}

func TestWriteNoStandardHeader(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()

	c, err := Create(mem, "/n.x10", config.MustParse("STANDARD_HEADER=NO", "HEADER_abc=1"))
	require.NoError(err)
	_, err = c.CreateTable("t", nil)
	require.NoError(err)
	require.NoError(c.Close())
	require.Equal("abc; \"1\"\ntbl; t\natr;\nfrm;\nend; 0\neof; 1\n", readString(t, mem, "/n.x10"))
}

func TestWriteLatin1(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()

	c, err := Create(mem, "/l.x10", config.MustParse("STANDARD_HEADER=NO"))
	require.NoError(err)
	tab, err := c.CreateTable("t", nil)
	require.NoError(err)
	require.NoError(tab.CreateAttribute("n", Char(5)))
	require.NoError(tab.AppendValues("ä€"))
	require.NoError(c.Close())

	// ISO8859-1 has no euro sign, it is replaced by a single byte.
	data := readString(t, mem, "/l.x10")
	require.Contains(data, "tbl; t\natr; n\nfrm; char[5]\nrec; \"\xe4")
	require.Len(data, len("tbl; t\natr; n\nfrm; char[5]\nrec; \"\xe4?\"\nend; 1\neof; 1\n"))
}

func TestInterleavedWrites(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()

	c, err := Create(mem, "/i.x10", nil)
	require.NoError(err)
	lyr1, err := c.CreateTable("lyr1", nil)
	require.NoError(err)
	require.NoError(lyr1.CreateAttribute("a", Char(0)))
	require.True(lyr1.CanCreateAttribute())
	require.NoError(lyr1.AppendValues("x"))

	require.True(lyr1.Frozen())
	require.False(lyr1.CanCreateAttribute())
	require.ErrorIs(lyr1.CreateAttribute("b", Char(0)), ErrFrozenSchema)
	require.True(lyr1.CanWrite())

	lyr2, err := c.CreateTable("lyr2", nil)
	require.NoError(err)
	require.NoError(lyr2.CreateAttribute("a", Char(0)))
	require.NoError(lyr2.AppendValues("y"))

	require.False(lyr1.CanWrite())
	require.ErrorIs(lyr1.AppendValues("z"), ErrInterleavedWrite)
	require.Equal(1, lyr1.RecordCount())

	_, err = lyr2.Records()
	require.ErrorIs(err, ErrWriteOnly)
	require.ErrorIs(lyr2.AppendValues("a", "b"), ErrWidthMismatch)
	require.ErrorIs(lyr2.Append(nil), ErrWidthMismatch)

	require.NoError(c.Close())
	require.False(lyr2.CanWrite())
	require.ErrorIs(lyr2.AppendValues("w"), ErrClosed)

	r, err := Open(mem, "/i.x10", nil)
	require.NoError(err)
	defer r.Close()
	require.Equal(2, r.TableCount())
	for _, tab := range r.Tables() {
		require.Equal(1, tab.RecordCount())
	}
}

func TestCreateTableErrors(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()

	c, err := Create(mem, "/e.x10", nil)
	require.NoError(err)
	require.True(c.CanCreateTable())
	_, err = c.CreateTable("", nil)
	require.ErrorIs(err, ErrMalformedSchema)
	tab, err := c.CreateTable("t", nil)
	require.NoError(err)
	_, err = c.CreateTable("t", nil)
	require.ErrorIs(err, ErrAlreadyExists)

	require.ErrorIs(tab.CreateAttribute("", Char(0)), ErrMalformedSchema)
	require.ErrorIs(tab.CreateAttribute("a", Kind{}), ErrMalformedSchema)
	require.NoError(tab.CreateAttribute("a", Char(0)))
	require.ErrorIs(tab.CreateAttribute("a", Char(0)), ErrAlreadyExists)
	require.ErrorIs(tab.AppendValues(struct{}{}), ErrInvalidValue)

	_, err = c.CreateTable("bad", config.MustParse("PROFILE=nope"))
	require.Error(err)
	require.NoError(c.Close())
	require.False(c.CanCreateTable())
	_, err = c.CreateTable("late", nil)
	require.ErrorIs(err, ErrClosed)
}

func TestWriteLineBreakRefused(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()

	c, err := Create(mem, "/b.x10", config.MustParse("STANDARD_HEADER=NO"))
	require.NoError(err)
	tab, err := c.CreateTable("t", nil)
	require.NoError(err)
	require.NoError(tab.CreateAttribute("a", Char(0)))
	require.ErrorIs(tab.AppendValues("a\nb"), ErrInvalidValue)
	require.ErrorIs(tab.AppendValues("a\r"), ErrInvalidValue)
	require.NoError(tab.AppendValues("a b"))
	require.NoError(c.Close())
	require.Equal("tbl; t\natr; a\nfrm; char[80]\nrec; \"a b\"\nend; 1\neof; 1\n", readString(t, mem, "/b.x10"))

	r, err := Open(mem, "/b.x10", nil)
	require.NoError(err)
	defer r.Close()
	require.Empty(r.Diagnostics())
	tab, err = r.TableAt(0)
	require.NoError(err)
	recs, err := tab.Records()
	require.NoError(err)
	require.Len(recs, 1)
	require.Equal("a b", recs[0].At(0).Text())
}

func TestWriteReservedHeaderKeys(t *testing.T) {
	require := require.New(t)
	mem := vfs.NewMem()

	for _, opt := range []string{"HEADER_tbl=oops", "HEADER_EOF=1", "HEADER_mod=x", "HEADER_a;b=1", "HEADER_x=a\nb"} {
		_, err := Create(mem, "/r.x10", config.MustParse(opt))
		require.ErrorIs(err, ErrInvalidValue, opt)
		require.False(vfs.Exists(mem, "/r.x10"), opt)
	}

	c, err := Create(mem, "/r.x10", config.MustParse("STANDARD_HEADER=NO", "HEADER_chs=UTF-8"))
	require.NoError(err)
	_, err = c.CreateTable("t", config.MustParse("HEADER_atr=x"))
	require.ErrorIs(err, ErrInvalidValue)
	_, err = c.CreateTable("t", nil)
	require.NoError(err)
	require.NoError(c.Close())
	require.Equal("chs; \"UTF-8\"\ntbl; t\natr;\nfrm;\nend; 0\neof; 1\n", readString(t, mem, "/r.x10"))
}
