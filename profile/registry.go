// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package profile

type attrDef struct {
	german  string
	english string
	kind    string
	coord   bool
}

type tableDef struct {
	german  string
	english string
	attrs   []attrDef
}

func (d *tableDef) table(english bool) *Table {
	t := &Table{Name: d.german, Attributes: make([]Attribute, len(d.attrs))}
	if english {
		t.Name = d.english
	}
	for i, a := range d.attrs {
		name := a.german
		if english {
			name = a.english
		}
		t.Attributes[i] = Attribute{Name: name, Kind: a.kind, Coordinate: a.coord}
	}
	return t
}

var (
	attrBaseVersion = attrDef{"BASIS_VERSION", "BASE_VERSION", "num[9.0]", false}
	attrPointType   = attrDef{"ONR_TYP_NR", "POINT_TYPE_NO", "num[2.0]", false}
	attrPointNo     = attrDef{"ORT_NR", "POINT_NO", "num[6.0]", false}
	attrDayType     = attrDef{"TAGESART_NR", "DAY_TYPE_NO", "num[3.0]", false}
	attrLineNo      = attrDef{"LI_NR", "LINE_NO", "num[6.0]", false}
	attrRouteVar    = attrDef{"STR_LI_VAR", "ROUTE_VARIANT_ABBR", "char[6]", false}
	attrVehicleType = attrDef{"FZG_TYP_NR", "VEHICLE_TYPE_NO", "num[3.0]", false}
)

var registry = []tableDef{
	{"MENGE_BASIS_VERSIONEN", "BASE_VERSION", []attrDef{
		attrBaseVersion,
		{"BASIS_VERSION_TEXT", "BASE_VERSION_TEXT", "char[40]", false},
	}},
	{"BASIS_VER_GUELTIGKEIT", "BASE_VERSION_VALIDITY", []attrDef{
		{"VER_GUELTIGKEIT", "VALIDITY", "num[8.0]", false},
		attrBaseVersion,
	}},
	{"FIRMENKALENDER", "COMPANY_CALENDAR", []attrDef{
		attrBaseVersion,
		{"BETRIEBSTAG", "OPERATING_DAY", "num[8.0]", false},
		{"BETRIEBSTAG_TEXT", "OPERATING_DAY_TEXT", "char[40]", false},
		attrDayType,
	}},
	{"MENGE_TAGESART", "DAY_TYPE", []attrDef{
		attrBaseVersion,
		attrDayType,
		{"TAGESART_TEXT", "DAY_TYPE_TEXT", "char[40]", false},
	}},
	{"MENGE_ONR_TYP", "POINT_TYPE", []attrDef{
		attrBaseVersion,
		attrPointType,
		{"STR_ONR_TYP", "POINT_TYPE_ABBR", "char[6]", false},
		{"ONR_TYP_TEXT", "POINT_TYPE_TEXT", "char[21]", false},
	}},
	{"MENGE_ORT_TYP", "LOCATION_TYPE", []attrDef{
		attrBaseVersion,
		{"ORT_TYP_NR", "LOCATION_TYPE_NO", "num[2.0]", false},
		{"ORT_TYP_TEXT", "LOCATION_TYPE_TEXT", "char[21]", false},
	}},
	{"REC_ORT", "STOP", []attrDef{
		attrBaseVersion,
		attrPointType,
		attrPointNo,
		{"ORT_NAME", "POINT_NAME", "char[40]", false},
		{"ORT_REF_ORT", "REFERENCE_POINT", "num[6.0]", false},
		{"ORT_REF_ORT_TYP", "REFERENCE_POINT_TYPE", "num[2.0]", false},
		{"ORT_REF_ORT_KUERZEL", "REFERENCE_POINT_CODE", "char[8]", false},
		{"ORT_REF_ORT_NAME", "REFERENCE_POINT_NAME", "char[40]", false},
		{"ZONE_WABE_NR", "ZONE_CELL_NO", "num[5.0]", false},
		{"ORT_POS_LAENGE", "POINT_LONGITUDE", "num[10.0]", true},
		{"ORT_POS_BREITE", "POINT_LATITUDE", "num[10.0]", true},
		{"ORT_POS_HOEHE", "POINT_ELEVATION", "num[5.0]", false},
		{"ORT_RICHTUNG", "POINT_HEADING", "num[3.0]", false},
		{"HST_NR_NATIONAL", "NATIONAL_STOP_NO", "num[9.0]", false},
	}},
	{"REC_HP", "STOPPING_POINT", []attrDef{
		attrBaseVersion,
		attrPointType,
		attrPointNo,
		{"HALTEPUNKT_NR", "STOPPING_POINT_NO", "num[2.0]", false},
		{"HP_POS_LAENGE", "STOPPING_POINT_LONGITUDE", "num[10.0]", true},
		{"HP_POS_BREITE", "STOPPING_POINT_LATITUDE", "num[10.0]", true},
	}},
	{"MENGE_FZG_TYP", "VEHICLE_TYPE", []attrDef{
		attrBaseVersion,
		attrVehicleType,
		{"FZG_LAENGE", "VEHICLE_LENGTH", "num[2.0]", false},
		{"FZG_TYP_SITZ", "SEATING_CAPACITY", "num[3.0]", false},
		{"FZG_TYP_STEH", "STANDING_CAPACITY", "num[3.0]", false},
		{"FZG_TYP_TEXT", "VEHICLE_TYPE_TEXT", "char[40]", false},
		{"STR_FZG_TYP", "VEHICLE_TYPE_ABBR", "char[6]", false},
	}},
	{"REC_SEL", "LINK", []attrDef{
		attrBaseVersion,
		{"BEREICH_NR", "AREA_NO", "num[3.0]", false},
		attrPointType,
		attrPointNo,
		{"SEL_ZIEL_TYP", "LINK_DESTINATION_TYPE", "num[2.0]", false},
		{"SEL_ZIEL", "LINK_DESTINATION", "num[6.0]", false},
		{"SEL_LAENGE", "LINK_LENGTH", "num[5.0]", false},
	}},
	{"REC_LID", "ROUTE", []attrDef{
		attrBaseVersion,
		attrLineNo,
		attrRouteVar,
		{"ROUTEN_NR", "ROUTE_NO", "num[4.0]", false},
		{"LI_RI_NR", "DIRECTION_NO", "num[3.0]", false},
		{"LI_KUERZEL", "LINE_CODE", "char[6]", false},
		{"LIDNAME", "ROUTE_NAME", "char[40]", false},
	}},
	{"LID_VERLAUF", "ROUTE_SEQUENCE", []attrDef{
		attrBaseVersion,
		{"LI_LFD_NR", "SEQUENCE_NO", "num[3.0]", false},
		attrLineNo,
		attrRouteVar,
		attrPointType,
		attrPointNo,
	}},
	{"REC_FRT", "TRIP", []attrDef{
		attrBaseVersion,
		{"FRT_FID", "TRIP_ID", "num[10.0]", false},
		{"FRT_START", "DEPARTURE_TIME", "num[6.0]", false},
		attrLineNo,
		attrDayType,
		{"LI_KU_NR", "COURSE_NO", "num[6.0]", false},
		{"FGR_NR", "TRIP_TIME_GROUP", "num[9.0]", false},
		attrVehicleType,
	}},
}
