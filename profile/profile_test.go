// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	require := require.New(t)

	for _, name := range []string{"NONE", "vdv-452", "VDV-452-ENGLISH", "VDV-452-German"} {
		p, err := Parse(name)
		require.NoError(err, name)
		require.NotNil(p)
	}
	p, err := Parse("")
	require.NoError(err)
	require.True(p.IsNone())

	_, err = Parse("VDV-453")
	require.ErrorIs(err, ErrUnknownProfile)
}

func TestTableLanguages(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		profile Name
		table   string
		found   bool
		lon     string
	}{
		{VDV452, "STOP", true, "POINT_LONGITUDE"},
		{VDV452English, "STOP", true, "POINT_LONGITUDE"},
		{VDV452, "REC_ORT", true, "ORT_POS_LAENGE"},
		{VDV452German, "rec_ort", true, "ORT_POS_LAENGE"},
		{VDV452German, "STOP", false, ""},
		{VDV452English, "REC_ORT", false, ""},
		{VDV452, "UNKNOWN", false, ""},
		{None, "REC_ORT", false, ""},
	}
	for _, tt := range tests {
		p, err := Parse(string(tt.profile))
		require.NoError(err)
		table, ok := p.Table(tt.table)
		require.Equal(tt.found, ok, "%s %s", tt.profile, tt.table)
		if !ok {
			continue
		}
		a, ok := table.Attribute(tt.lon)
		require.True(ok, tt.lon)
		require.True(a.Coordinate)
		require.Equal("num[10.0]", a.Kind)
	}
}

func TestTablesListsBothLanguages(t *testing.T) {
	require := require.New(t)

	both, _ := Parse("VDV-452")
	german, _ := Parse("VDV-452-GERMAN")
	english, _ := Parse("VDV-452-ENGLISH")
	require.Len(both.Tables(), len(german.Tables())+len(english.Tables()))
	require.Contains(german.Tables(), "REC_ORT")
	require.Contains(english.Tables(), "STOP")
}

func encode(t *testing.T, deg float64) int64 {
	packed, err := EncodeDegrees(deg)
	require.NoError(t, err)
	return packed
}

func TestDegrees(t *testing.T) {
	require := require.New(t)

	lon := -(123 + 45.0/60 + 56.789/3600)
	lat := -(23 + 45.0/60 + 56.789/3600)
	require.Equal(int64(-1234556789), encode(t, lon))
	require.Equal(int64(-234556789), encode(t, lat))
	require.Equal(int64(0), encode(t, 0))
	require.Equal(int64(100000), encode(t, 1.0/60))

	require.InDelta(-123.765774722222, DecodeDegrees(-1234556789), 1e-9)
	require.InDelta(-23.7657747222222, DecodeDegrees(-234556789), 1e-9)
	require.InDelta(lon, DecodeDegrees(encode(t, lon)), 1e-9)
}

func TestDegreesOutOfRange(t *testing.T) {
	for _, deg := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1000, -1e300} {
		_, err := EncodeDegrees(deg)
		require.ErrorIs(t, err, ErrInvalidDegrees, "%v", deg)
	}
	_, err := EncodeDegrees(999.5)
	require.NoError(t, err)
}
