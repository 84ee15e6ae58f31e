// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"fmt"
	"strconv"
	"strings"
)

type KindType uint8

const (
	KindChar KindType = iota + 1
	KindNum
	KindBoolean
)

func (t KindType) String() string {
	switch t {
	case KindChar:
		return "char"
	case KindNum:
		return "num"
	case KindBoolean:
		return "boolean"
	}
	return "KindType(" + strconv.Itoa(int(t)) + ")"
}

// A Kind is the declared type of an attribute as written on the frm; line.
// Width is only used by char, Precision and Scale only by num.
type Kind struct {
	Type      KindType
	Width     int
	Precision int
	Scale     int
}

const (
	defaultCharWidth      = 80
	defaultIntegerDigits  = 10
	defaultInteger64Digit = 19
)

// Char returns char[width]; a width of zero or less is char[80].
func Char(width int) Kind {
	if width <= 0 {
		width = defaultCharWidth
	}
	return Kind{Type: KindChar, Width: width}
}

// Num returns num[precision.scale].
func Num(precision, scale int) Kind {
	return Kind{Type: KindNum, Precision: precision, Scale: scale}
}

// Boolean returns the boolean kind.
func Boolean() Kind {
	return Kind{Type: KindBoolean}
}

// IntegerKind is the kind for an integer column of the given display
// width, one position being reserved for the sign: num[width-1.0]. A width
// of zero gives num[10.0].
func IntegerKind(width int) Kind {
	if width <= 0 {
		return Num(defaultIntegerDigits, 0)
	}
	digits := width - 1
	if digits < 1 {
		digits = 1
	}
	return Num(digits, 0)
}

// Integer64Kind is num[19.0].
func Integer64Kind() Kind {
	return Num(defaultInteger64Digit, 0)
}

// RealKind is the kind for a decimal column with the given display width
// and number of decimals. A width of zero gives num[10.precision].
func RealKind(width, precision int) Kind {
	if precision < 0 {
		precision = 0
	}
	if width <= 0 {
		return Num(defaultIntegerDigits, precision)
	}
	digits := width - precision - 1
	if precision > 0 {
		digits--
	}
	if digits < 1 {
		digits = 1
	}
	return Num(digits, precision)
}

func (k Kind) String() string {
	switch k.Type {
	case KindChar:
		return "char[" + strconv.Itoa(k.Width) + "]"
	case KindNum:
		return "num[" + strconv.Itoa(k.Precision) + "." + strconv.Itoa(k.Scale) + "]"
	case KindBoolean:
		return "boolean"
	}
	return "invalid"
}

// IsInteger reports whether values of the kind are whole numbers.
func (k Kind) IsInteger() bool {
	return k.Type == KindNum && k.Scale == 0
}

// ParseKind reads the frm; notation of a kind. "num[P]" is read as
// "num[P.0]".
func ParseKind(s string) (Kind, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "boolean" {
		return Boolean(), nil
	}
	open := strings.IndexByte(text, '[')
	if open < 0 || !strings.HasSuffix(text, "]") {
		return Kind{}, fmt.Errorf("%w: kind %q", ErrMalformedSchema, s)
	}
	name, arg := text[:open], text[open+1:len(text)-1]
	switch name {
	case "char":
		w, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || w < 0 {
			return Kind{}, fmt.Errorf("%w: kind %q", ErrMalformedSchema, s)
		}
		return Kind{Type: KindChar, Width: w}, nil
	case "num":
		ps, ss, hasScale := strings.Cut(arg, ".")
		p, err := strconv.Atoi(strings.TrimSpace(ps))
		if err != nil || p < 0 {
			return Kind{}, fmt.Errorf("%w: kind %q", ErrMalformedSchema, s)
		}
		scale := 0
		if hasScale {
			scale, err = strconv.Atoi(strings.TrimSpace(ss))
			if err != nil || scale < 0 {
				return Kind{}, fmt.Errorf("%w: kind %q", ErrMalformedSchema, s)
			}
		}
		return Num(p, scale), nil
	}
	return Kind{}, fmt.Errorf("%w: kind %q", ErrMalformedSchema, s)
}
