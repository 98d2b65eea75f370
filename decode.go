// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package marksheet

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sassoftware/marksheet-xtract/logger"
)

// Subject codes are ten characters in this scheme; eight is the tolerance
// for header cells that lost trailing characters to OCR.
const minSubjectCodeLen = 8

const headerSampleLen = 15

// Decoder reconstructs the repeating columnar schema (identity columns, then
// N subjects × CIE/SEE/TOTAL/GRADE) from a corrected cell grid. It holds no
// per-document state; one instance can decode any number of grids.
type Decoder struct {
	layout    Layout
	rules     Rules
	subjects  SubjectTable
	corrector *Corrector
	accept    RowAcceptance
}

// NewDecoder creates a Decoder for the given layout, rules, subject
// reference tables and row-acceptance policy.
func NewDecoder(layout Layout, rules Rules, subjects SubjectTable, accept RowAcceptance) *Decoder {
	return &Decoder{
		layout:    layout,
		rules:     rules,
		subjects:  subjects,
		corrector: NewCorrector(rules),
		accept:    accept,
	}
}

// Decode locates the subject-code header block, partitions each data row
// into a student identity plus fixed-width subject blocks, and emits one
// record per accepted student. Malformed or short rows degrade to
// empty-string defaults; the only fatal conditions are an empty subject-code
// sequence and zero accepted rows.
func (d *Decoder) Decode(grid [][]string) (*Document, error) {
	var header []string
	if d.layout.HeaderRow < len(grid) {
		header = grid[d.layout.HeaderRow]
	}

	codes := d.scanSubjectCodes(header)
	if len(codes) == 0 {
		logger.Debug(fmt.Sprintf("Header scan found no subject codes: rows=%d header_cells=%d", len(grid), len(header)), true)
		return nil, &DecodeError{
			Err:    ErrNoSubjectCodes,
			Rows:   len(grid),
			Cols:   len(header),
			Sample: sampleCells(header, headerSampleLen),
		}
	}
	logger.Debug(fmt.Sprintf("Subject codes discovered: count=%d", len(codes)), true)

	subjects := make([]SubjectDescriptor, len(codes))
	for i, code := range codes {
		subjects[i] = d.subjects.Resolve(code)
	}

	var students []StudentRecord
	scanned := 0
	for rowIdx := d.layout.DataStartRow; rowIdx < len(grid); rowIdx++ {
		row := grid[rowIdx]
		if blankCells(row, d.layout.IdentityColumns) {
			continue
		}
		scanned++

		rec, ok := d.decodeRow(row, subjects, len(students))
		if !ok {
			logger.Debug(fmt.Sprintf("Row rejected: row=%d", rowIdx), true)
			continue
		}
		logger.Debug(fmt.Sprintf("Student accepted: row=%d usn=%s", rowIdx, rec.USN), true)
		students = append(students, rec)
	}

	if len(students) == 0 {
		logger.Debug(fmt.Sprintf("No student rows accepted: scanned=%d", scanned), true)
		var sample []string
		if d.layout.DataStartRow < len(grid) {
			sample = sampleCells(grid[d.layout.DataStartRow], d.layout.IdentityColumns)
		}
		return nil, &DecodeError{
			Err:    ErrNoStudentRows,
			Rows:   scanned,
			Cols:   len(header),
			Sample: sample,
		}
	}

	// Source ordinals may be corrupted or missing; sort by whatever parsed,
	// then renumber to a dense 1..N sequence.
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].SlNo < students[j].SlNo
	})
	for i := range students {
		students[i].SlNo = i + 1
	}

	return &Document{Subjects: subjects, Students: students}, nil
}

// scanSubjectCodes walks the header row left to right past the identity
// columns. An accepted code repeats across the whole component block, so the
// scan advances a full block width on acceptance and compares only against
// the immediately preceding accepted code; the contract is adjacent-duplicate
// suppression, not global dedup.
func (d *Decoder) scanSubjectCodes(header []string) []string {
	var codes []string
	i := d.layout.IdentityColumns
	for i < len(header) {
		cell := strings.TrimSpace(header[i])
		if cell == "" || !d.isSubjectCode(cell) {
			i++
			continue
		}

		code := applySubstitutions(strings.ToUpper(cell), d.rules.HeaderFix)
		code = reWhitespace.ReplaceAllString(code, "")

		if len(codes) == 0 || code != codes[len(codes)-1] {
			codes = append(codes, code)
			logger.Debug(fmt.Sprintf("Subject code accepted: index=%d code=%s", len(codes), code), true)
		}
		i += d.layout.BlockWidth
	}
	return codes
}

func (d *Decoder) isSubjectCode(cell string) bool {
	return strings.HasPrefix(cell, d.rules.SeriesPrefix) &&
		len(cell) >= minSubjectCodeLen &&
		!allDigits(cell)
}

// decodeRow cleans the identity cells, applies the acceptance policy and
// reads one fixed-width score block per subject. The identifier is cleaned
// again here; the decoder does not trust upstream correction alone.
func (d *Decoder) decodeRow(row []string, subjects []SubjectDescriptor, accepted int) (StudentRecord, bool) {
	usn := d.corrector.cleanIdentifier(cellAt(row, 1))
	name := d.corrector.cleanName(cellAt(row, 2))

	if !d.accept.Accept(usn, name) {
		return StudentRecord{}, false
	}

	ord := accepted + 1
	if s := strings.TrimSpace(cellAt(row, 0)); s != "" && allDigits(s) {
		if n, err := strconv.Atoi(s); err == nil {
			ord = n
		}
	}

	rec := StudentRecord{
		SlNo:   ord,
		USN:    usn,
		Name:   name,
		Scores: make(map[string]ScoreBlock, 2*len(subjects)),
	}

	col := d.layout.IdentityColumns
	for _, sub := range subjects {
		// Cells past the end of a short row default to "".
		block := ScoreBlock{
			CIE:   strings.TrimSpace(cellAt(row, col)),
			SEE:   strings.TrimSpace(cellAt(row, col+1)),
			Total: strings.TrimSpace(cellAt(row, col+2)),
			Grade: strings.TrimSpace(cellAt(row, col+3)),
		}
		rec.Scores[sub.Code] = block
		if sub.Alias != sub.Code {
			rec.Scores[sub.Alias] = block
		}
		col += d.layout.BlockWidth
	}

	return rec, true
}

func cellAt(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}

func blankCells(row []string, n int) bool {
	for i := 0; i < n; i++ {
		if strings.TrimSpace(cellAt(row, i)) != "" {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func sampleCells(row []string, n int) []string {
	if len(row) < n {
		n = len(row)
	}
	sample := make([]string, n)
	copy(sample, row[:n])
	return sample
}
