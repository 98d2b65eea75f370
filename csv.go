// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package marksheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ReadGrid reads a raw OCR cell grid from CSV. Rows may vary in length;
// short rows are returned as-is and padded with empty cells at decode time.
func ReadGrid(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	grid, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read grid: %w", err)
	}
	return grid, nil
}

// ReadGridFile reads a raw OCR cell grid from a CSV file.
func ReadGridFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGrid(f)
}

// CSVHeader returns the flat column layout of the cleaned table: the three
// identity columns followed by four component columns per subject, keyed by
// canonical code.
func CSVHeader(doc *Document) []string {
	header := []string{"Sl_No", "USN", "Student_Name"}
	for _, sub := range doc.Subjects {
		header = append(header,
			sub.Code+"_CIE",
			sub.Code+"_SEE",
			sub.Code+"_TOTAL",
			sub.Code+"_GRADE",
		)
	}
	return header
}

// WriteCSV writes the cleaned flat table for a decoded document.
func WriteCSV(w io.Writer, doc *Document) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader(doc)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, student := range doc.Students {
		row := []string{strconv.Itoa(student.SlNo), student.USN, student.Name}
		for _, sub := range doc.Subjects {
			block := student.Scores[sub.Code]
			row = append(row, block.CIE, block.SEE, block.Total, block.Grade)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the cleaned flat table to a CSV file.
func WriteCSVFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
