// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package marksheet

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary = "Summary"
	SheetMarks   = "Student_Marks"
	SheetAliases = "Marks_Aliases"
)

// BuildWorkbook renders a decoded document as a formatted workbook with a
// summary sheet, a marks sheet keyed by canonical subject code and a marks
// sheet keyed by subject alias.
func BuildWorkbook(doc *Document) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetMarks); err != nil {
		return nil, fmt.Errorf("create marks sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetAliases); err != nil {
		return nil, fmt.Errorf("create alias sheet: %w", err)
	}

	if err := writeSummarySheet(f, doc); err != nil {
		return nil, err
	}
	if err := writeMarksSheet(f, SheetMarks, doc, false); err != nil {
		return nil, err
	}
	if err := writeMarksSheet(f, SheetAliases, doc, true); err != nil {
		return nil, err
	}
	if err := formatWorkbook(f, doc); err != nil {
		return nil, err
	}

	return f, nil
}

// WriteWorkbookFile builds the workbook and saves it to path.
func WriteWorkbookFile(path string, doc *Document) error {
	f, err := BuildWorkbook(doc)
	if err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return f.Close()
}

func writeSummarySheet(f *excelize.File, doc *Document) error {
	rows := [][]interface{}{
		{"EXTRACTION SUMMARY"},
		{},
		{"Extraction Date:", time.Now().Format("2006-01-02 15:04:05")},
		{"Total Students:", len(doc.Students)},
		{"Total Subjects:", len(doc.Subjects)},
		{"Status:", "COMPLETE"},
		{},
		{"SUBJECTS EXTRACTED:", "Alias", "Full Name"},
	}
	for _, sub := range doc.Subjects {
		rows = append(rows, []interface{}{sub.Code, sub.Alias, sub.Name})
	}

	for i, row := range rows {
		if err := writeRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeMarksSheet(f *excelize.File, sheet string, doc *Document, byAlias bool) error {
	header := []interface{}{"Sl_No", "USN", "Student_Name"}
	for _, sub := range doc.Subjects {
		key := sub.Code
		if byAlias {
			key = sub.Alias
		}
		header = append(header, key+"_CIE", key+"_SEE", key+"_TOTAL", key+"_GRADE")
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, student := range doc.Students {
		row := []interface{}{student.SlNo, student.USN, student.Name}
		for _, sub := range doc.Subjects {
			block := student.Scores[sub.Code]
			row = append(row, block.CIE, block.SEE, block.Total, block.Grade)
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowIdx int, values []interface{}) error {
	for colIdx, v := range values {
		cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
		if err != nil {
			return fmt.Errorf("cell name (%d,%d): %w", colIdx+1, rowIdx, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func formatWorkbook(f *excelize.File, doc *Document) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	thin := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
	identityStyle, err := f.NewStyle(&excelize.Style{
		Border:    thin,
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("identity style: %w", err)
	}
	marksStyle, err := f.NewStyle(&excelize.Style{
		Border:    thin,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("marks style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return fmt.Errorf("title style: %w", err)
	}

	// Summary sheet: wide label columns and a bold title.
	if err := f.SetColWidth(SheetSummary, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSummary, "B", "B", 15); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSummary, "C", "C", 40); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "A1", titleStyle); err != nil {
		return err
	}

	lastCol := 3 + 4*len(doc.Subjects)
	lastColName, err := excelize.ColumnNumberToName(lastCol)
	if err != nil {
		return fmt.Errorf("last column name: %w", err)
	}
	lastRow := len(doc.Students) + 1

	for _, sheet := range []string{SheetMarks, SheetAliases} {
		if err := f.SetCellStyle(sheet, "A1", lastColName+"1", headerStyle); err != nil {
			return err
		}
		if lastRow >= 2 {
			hCell, err := excelize.CoordinatesToCellName(1, 2)
			if err != nil {
				return err
			}
			vCell, err := excelize.CoordinatesToCellName(3, lastRow)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, hCell, vCell, identityStyle); err != nil {
				return err
			}
			if lastCol > 3 {
				mCell, err := excelize.CoordinatesToCellName(4, 2)
				if err != nil {
					return err
				}
				eCell, err := excelize.CoordinatesToCellName(lastCol, lastRow)
				if err != nil {
					return err
				}
				if err := f.SetCellStyle(sheet, mCell, eCell, marksStyle); err != nil {
					return err
				}
			}
		}

		if err := f.SetColWidth(sheet, "A", "A", 8); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "B", "B", 15); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "C", "C", 25); err != nil {
			return err
		}
		if lastCol > 3 {
			if err := f.SetColWidth(sheet, "D", lastColName, 12); err != nil {
				return err
			}
		}

		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze header row: %w", err)
		}
	}

	return nil
}
