// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package marksheet

// ScoreBlock holds the four score components recorded per subject per
// student. An empty string means "no data".
type ScoreBlock struct {
	CIE   string
	SEE   string
	Total string
	Grade string
}

// StudentRecord is one row of the final table. Scores is keyed by both the
// canonical subject code and its alias, and carries an entry (possibly
// all-empty) for every subject discovered in the document, so the schema
// stays rectangular even when source rows were short.
type StudentRecord struct {
	SlNo   int
	USN    string
	Name   string
	Scores map[string]ScoreBlock
}

// Document is the decoded output: the subject descriptors in header
// discovery order and the student records in final ordinal order.
type Document struct {
	Subjects []SubjectDescriptor
	Students []StudentRecord
}
