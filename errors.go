// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package marksheet

import (
	"errors"
	"fmt"
)

// ErrNoSubjectCodes indicates the header scan discovered zero subject codes.
// Fatal for the document; the input is static OCR output, so there is no
// retry.
var ErrNoSubjectCodes = errors.New("no subject codes found in header row")

// ErrNoStudentRows indicates zero rows passed the acceptance criteria.
var ErrNoStudentRows = errors.New("no student rows accepted")

// DecodeError wraps a fatal decode failure with enough context to diagnose
// it: grid dimensions and a sample of the cells that were scanned.
// Malformed individual cells are never errors; they degrade to empty-string
// defaults.
type DecodeError struct {
	Err    error
	Rows   int
	Cols   int
	Sample []string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed: %v (rows=%d cols=%d sample=%q)", e.Err, e.Rows, e.Cols, e.Sample)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
