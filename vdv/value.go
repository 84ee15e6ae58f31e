// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"fmt"
	"strconv"
)

type ValueType uint8

const (
	NullValue ValueType = iota
	TextValue
	IntegerValue
	RealValue
	BoolValue
)

func (t ValueType) String() string {
	switch t {
	case NullValue:
		return "null"
	case TextValue:
		return "text"
	case IntegerValue:
		return "integer"
	case RealValue:
		return "real"
	case BoolValue:
		return "bool"
	}
	return "ValueType(" + strconv.Itoa(int(t)) + ")"
}

// A Value is a single cell. The zero Value is null.
type Value struct {
	typ ValueType
	s   string
	i   int64
	f   float64
	b   bool
}

var Null = Value{}

func Text(s string) Value {
	return Value{typ: TextValue, s: s}
}

func Integer(i int64) Value {
	return Value{typ: IntegerValue, i: i}
}

func Real(f float64) Value {
	return Value{typ: RealValue, f: f}
}

func Bool(b bool) Value {
	return Value{typ: BoolValue, b: b}
}

// ValueOf converts a Go value. It accepts nil, Value, string, bool, the
// integer types and the float types.
func ValueOf(v interface{}) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null, nil
	case Value:
		return v, nil
	case string:
		return Text(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Integer(int64(v)), nil
	case int8:
		return Integer(int64(v)), nil
	case int16:
		return Integer(int64(v)), nil
	case int32:
		return Integer(int64(v)), nil
	case int64:
		return Integer(v), nil
	case uint8:
		return Integer(int64(v)), nil
	case uint16:
		return Integer(int64(v)), nil
	case uint32:
		return Integer(int64(v)), nil
	case float32:
		return Real(float64(v)), nil
	case float64:
		return Real(v), nil
	}
	return Null, fmt.Errorf("%w: unsupported Go type %T", ErrInvalidValue, v)
}

func (v Value) Type() ValueType {
	return v.typ
}

func (v Value) IsNull() bool {
	return v.typ == NullValue
}

// Text returns the value as text: integers in decimal, reals in the
// shortest exact form, booleans as 1 or 0, null as "".
func (v Value) Text() string {
	switch v.typ {
	case TextValue:
		return v.s
	case IntegerValue:
		return strconv.FormatInt(v.i, 10)
	case RealValue:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case BoolValue:
		if v.b {
			return "1"
		}
		return "0"
	}
	return ""
}

// Int64 returns the integer held by an integer value.
func (v Value) Int64() (int64, bool) {
	return v.i, v.typ == IntegerValue
}

// Float64 returns the number held by a real or integer value.
func (v Value) Float64() (float64, bool) {
	switch v.typ {
	case RealValue:
		return v.f, true
	case IntegerValue:
		return float64(v.i), true
	}
	return 0, false
}

// Boolean returns the flag held by a bool value.
func (v Value) Boolean() (bool, bool) {
	return v.b, v.typ == BoolValue
}

// Interface returns nil, string, int64, float64 or bool.
func (v Value) Interface() interface{} {
	switch v.typ {
	case TextValue:
		return v.s
	case IntegerValue:
		return v.i
	case RealValue:
		return v.f
	case BoolValue:
		return v.b
	}
	return nil
}

func (v Value) String() string {
	if v.typ == NullValue {
		return nullToken
	}
	return v.Text()
}
