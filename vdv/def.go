// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vdv

import (
	"errors"
	"time"
)

var (
	ErrOpenFailed          = errors.New("vdv: open failed")
	ErrMalformedSchema     = errors.New("vdv: malformed schema")
	ErrRecordFieldMismatch = errors.New("vdv: record field count mismatch")
	ErrUnknownAttribute    = errors.New("vdv: attribute unknown to profile")
	ErrUnknownTable        = errors.New("vdv: table unknown to profile")
	ErrFrozenSchema        = errors.New("vdv: table schema is frozen")
	ErrInterleavedWrite    = errors.New("vdv: table is no longer writable, another table has received records")
	ErrWidthMismatch       = errors.New("vdv: value count does not match attribute count")
	ErrInvalidValue        = errors.New("vdv: invalid value")
	ErrNotFound            = errors.New("vdv: not found")
	ErrAlreadyExists       = errors.New("vdv: already exists")
	ErrReadOnly            = errors.New("vdv: read only")
	ErrWriteOnly           = errors.New("vdv: table opened for writing can not be read")
	ErrClosed              = errors.New("vdv: container closed")
)

const (
	kwMod = "mod"
	kwSrc = "src"
	kwChs = "chs"
	kwVer = "ver"
	kwIfv = "ifv"
	kwDve = "dve"
	kwFft = "fft"
	kwTbl = "tbl"
	kwAtr = "atr"
	kwFrm = "frm"
	kwRec = "rec"
	kwEnd = "end"
	kwEOF = "eof"
)

var knownKeywords = map[string]bool{
	kwMod: true, kwSrc: true, kwChs: true, kwVer: true, kwIfv: true, kwDve: true, kwFft: true,
	kwTbl: true, kwAtr: true, kwFrm: true, kwRec: true, kwEnd: true, kwEOF: true,
}

// IsKeyword reports whether kw is one of the reserved line keywords.
func IsKeyword(kw string) bool {
	return knownKeywords[kw]
}

// Option keys.
const (
	OptSingleFile      = "SINGLE_FILE"
	OptOverwrite       = "OVERWRITE"
	OptCacheTables     = "CACHE_TABLES"
	OptExtension       = "EXTENSION"
	OptStandardHeader  = "STANDARD_HEADER"
	OptProfile         = "PROFILE"
	OptProfileStrict   = "PROFILE_STRICT"
	OptCreateAllFields = "CREATE_ALL_FIELDS"
	OptHeaderPrefix    = "HEADER_"
)

const (
	DefaultExtension   = "x10"
	DefaultCharset     = "ISO8859-1"
	DefaultVersion     = "1.4"
	DefaultSource      = "UNKNOWN"
	DefaultCacheTables = 8

	modLine    = "mod; DD.MM.YYYY; HH:MM:SS; free"
	dateLayout = "02.01.2006"
	timeLayout = "15.04.05"
)

// timeNow is replaced in tests.
var timeNow = time.Now
