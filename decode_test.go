// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package marksheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDecoder() *Decoder {
	rules := DefaultRules()
	return NewDecoder(DefaultLayout(), rules, DefaultSubjectTable(),
		&PermissiveAcceptance{Prefix: rules.InstitutionPrefix})
}

// repeat expands each code into its four component columns, the way the
// header row lays them out.
func repeat(codes ...string) []string {
	var cells []string
	for _, code := range codes {
		for i := 0; i < 4; i++ {
			cells = append(cells, code)
		}
	}
	return cells
}

func headerRow(codes ...string) []string {
	return append([]string{"SI No", "USN", "Name"}, repeat(codes...)...)
}

func TestDecoder_ScanSubjectCodes(t *testing.T) {
	d := newTestDecoder()

	t.Run("adjacent repeats collapse to one code each", func(t *testing.T) {
		header := headerRow("22CS7PCCCT", "22CS7PENLP")
		codes := d.scanSubjectCodes(header)
		assert.Equal(t, []string{"22CS7PCCCT", "22CS7PENLP"}, codes)
	})

	t.Run("corrupted prefix is repaired", func(t *testing.T) {
		header := headerRow("22CSTPCCCT", "22MEZOESSE")
		codes := d.scanSubjectCodes(header)
		assert.Equal(t, []string{"22CS7PCCCT", "22ME2OESSE"}, codes)
	})

	t.Run("non-qualifying cells advance by one", func(t *testing.T) {
		header := append([]string{"SI No", "USN", "Name", "", "12345678", "short"},
			repeat("22CS7PENDL")...)
		codes := d.scanSubjectCodes(header)
		assert.Equal(t, []string{"22CS7PENDL"}, codes)
	})

	t.Run("internal whitespace is stripped", func(t *testing.T) {
		header := headerRow("22CS7 PCCCT")
		codes := d.scanSubjectCodes(header)
		assert.Equal(t, []string{"22CS7PCCCT"}, codes)
	})

	t.Run("empty header yields nothing", func(t *testing.T) {
		assert.Empty(t, d.scanSubjectCodes(nil))
		assert.Empty(t, d.scanSubjectCodes([]string{"SI No", "USN", "Name"}))
	})
}

func testGrid() [][]string {
	return [][]string{
		{"Sl", "University Seat Number", "Student Name", "CIE", "SEE", "TOT", "GRD", "CIE", "SEE", "TOT", "GRD"},
		headerRow("22CS7PCCCT", "22CS7PENLP"),
		{"", "", "", "Max 50", "Max 50", "Max 100", "", "Max 50", "Max 50", "Max 100", ""},
		{"7", "1BM21CS001", "ADITYA DUA", "45", "40", "85", "A", "38", "42", "80", "A"},
		{"", "1BM21CS0O1", "RAHUL C SHIRUR", "30", "35", "65", "B"}, // short row, letter-O in USN
		{"2", "1BM21CS157", "MEERA NAIR", "48", "44", "92", "S", "41", "39", "80", "A"},
		{"", "", "", "", "", "", "", "", "", "", ""}, // blank identity, skipped
	}
}

func TestDecoder_Decode(t *testing.T) {
	d := newTestDecoder()

	doc, err := d.Decode(testGrid())
	require.NoError(t, err)

	require.Len(t, doc.Subjects, 2)
	assert.Equal(t, "22CS7PCCCT", doc.Subjects[0].Code)
	assert.Equal(t, "CC", doc.Subjects[0].Alias)
	assert.Equal(t, "NLP", doc.Subjects[1].Alias)

	require.Len(t, doc.Students, 3)

	// Source ordinals were [7, "", 2]; the blank slot fell back to the next
	// sequential position (2), the stable sort put it ahead of the parsed 2,
	// and the post-pass renumbered everything 1..N.
	assert.Equal(t, []int{1, 2, 3}, []int{doc.Students[0].SlNo, doc.Students[1].SlNo, doc.Students[2].SlNo})
	assert.Equal(t, "1BM21CS001", doc.Students[0].USN) // letter-O row, cleaned
	assert.Equal(t, "RAHUL C SHIRUR", doc.Students[0].Name)
	assert.Equal(t, "1BM21CS157", doc.Students[1].USN)
	assert.Equal(t, "ADITYA DUA", doc.Students[2].Name)
}

func TestDecoder_Decode_Rectangular(t *testing.T) {
	d := newTestDecoder()

	doc, err := d.Decode(testGrid())
	require.NoError(t, err)

	for _, student := range doc.Students {
		for _, sub := range doc.Subjects {
			code, okCode := student.Scores[sub.Code]
			alias, okAlias := student.Scores[sub.Alias]
			assert.True(t, okCode, "student %s missing subject %s", student.USN, sub.Code)
			assert.True(t, okAlias, "student %s missing alias %s", student.USN, sub.Alias)
			assert.Equal(t, code, alias, "code and alias keys must return the same block")
		}
	}

	// The short row carries data for the first subject and empty defaults
	// for the second.
	short := doc.Students[0]
	assert.Equal(t, ScoreBlock{CIE: "30", SEE: "35", Total: "65", Grade: "B"}, short.Scores["CC"])
	assert.Equal(t, ScoreBlock{}, short.Scores["NLP"])
}

func TestDecoder_Decode_NoSubjectCodes(t *testing.T) {
	d := newTestDecoder()

	grid := [][]string{
		{"Sl", "USN", "Name"},
		{"SI No", "USN", "Name", "CIE", "SEE"},
		{},
		{"1", "1BM21CS001", "ADITYA DUA", "45"},
	}

	doc, err := d.Decode(grid)
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSubjectCodes)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 4, decodeErr.Rows)
	assert.NotEmpty(t, decodeErr.Sample)
}

func TestDecoder_Decode_NoStudentRows(t *testing.T) {
	d := newTestDecoder()

	grid := [][]string{
		{},
		headerRow("22CS7PCCCT"),
		{},
		{"", "???", "", "45", "40", "85", "A"}, // identifier cleans to empty
	}

	doc, err := d.Decode(grid)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrNoStudentRows)
}

func TestDecoder_Decode_EmptyGrid(t *testing.T) {
	d := newTestDecoder()

	doc, err := d.Decode(nil)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrNoSubjectCodes)
}

func TestDecoder_Decode_FallbackAcceptance(t *testing.T) {
	d := newTestDecoder()

	// Identifier fails the strict institutional check but both identifier
	// and name are present, so the permissive policy keeps the student.
	grid := [][]string{
		{},
		headerRow("22CS7PCCCT"),
		{},
		{"1", "99XX123", "PRIYA SHARMA", "40", "38", "78", "B"},
	}

	doc, err := d.Decode(grid)
	require.NoError(t, err)
	require.Len(t, doc.Students, 1)
	assert.Equal(t, "99XX123", doc.Students[0].USN)
	assert.Equal(t, "PRIYA SHARMA", doc.Students[0].Name)
}
