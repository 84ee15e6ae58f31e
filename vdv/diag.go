// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"fmt"

	"github.com/untillpro/goutils/logger"
)

type Level uint8

const (
	LevelWarning Level = iota + 1
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "warning"
}

// A Diagnostic is a problem that did not fail the call that found it.
type Diagnostic struct {
	Level Level
	Err   error
	File  string
	Line  int // Zero when not tied to an input line.
	Table string
}

func (d Diagnostic) Error() string {
	switch {
	case d.Line > 0 && d.Table != "":
		return fmt.Sprintf("%s:%d: table %s: %v", d.File, d.Line, d.Table, d.Err)
	case d.Line > 0:
		return fmt.Sprintf("%s:%d: %v", d.File, d.Line, d.Err)
	case d.Table != "":
		return fmt.Sprintf("%s: table %s: %v", d.File, d.Table, d.Err)
	}
	return fmt.Sprintf("%s: %v", d.File, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

type diagnostics []Diagnostic

func (dd *diagnostics) add(d Diagnostic) {
	*dd = append(*dd, d)
	if d.Level == LevelError {
		logger.Error(d.Error())
	} else {
		logger.Warning(d.Error())
	}
}

// HasErrors reports whether any error level diagnostic is present.
func HasErrors(dd []Diagnostic) bool {
	for _, d := range dd {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}
