// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package marksheet

import (
	"regexp"
	"strings"
)

// CellCategory classifies a single grid cell by its own content.
// Classification is re-derivable from the string alone; no surrounding
// context is consulted.
type CellCategory string

const (
	// CategoryIdentifier is an institutional code (e.g. a USN like 1BM21CS001).
	CategoryIdentifier CellCategory = "identifier"
	// CategoryMark is a numeric score or letter-grade token.
	CategoryMark CellCategory = "mark"
	// CategoryFreeText is anything else, typically a personal name.
	CategoryFreeText CellCategory = "free-text"
)

// Substitution is a single ordered find/replace pair. Order matters, so
// tables are slices rather than maps.
type Substitution struct {
	Old string
	New string
}

// Rules carries every institution-specific table and pattern the corrector
// and decoder consult. It is pure data: swapping the rules retargets the
// system to a different code scheme without touching the algorithms.
type Rules struct {
	// AlwaysFix maps glyphs that are wrong in any category (currency and
	// copyright marks that OCR produces for the letter C, curly quotes).
	AlwaysFix []Substitution

	// IdentifierTrial is applied to an uppercased copy only while testing
	// IdentifierPattern; the trial result is never committed.
	IdentifierTrial []Substitution
	// IdentifierPattern matches the trial string of an institutional code:
	// a leading digit, one of two institution letters, then 7-9 further
	// alphanumerics.
	IdentifierPattern *regexp.Regexp
	// IdentifierFix is the committed letter→digit table for identifiers.
	IdentifierFix []Substitution
	// IdentifierRepair fixes a known two-character transposition in this
	// institution's code scheme (1BM2ICS... → 1BM21CS...).
	IdentifierRepair     *regexp.Regexp
	IdentifierRepairWith string

	// MarkPatterns match score tokens: all digits, a single grade letter,
	// the absent marker, or digits split by whitespace. Tested against a
	// trimmed, uppercased copy.
	MarkPatterns []*regexp.Regexp
	// MarkFix is the letter→digit table for marks. It omits Z→2 on purpose;
	// Z only impersonates 2 inside identifiers.
	MarkFix []Substitution

	// HeaderFix repairs known OCR corruptions of the subject-code prefix in
	// the header row.
	HeaderFix []Substitution

	// SeriesPrefix is the two-character year/series prefix every subject
	// code starts with.
	SeriesPrefix string
	// InstitutionPrefix is the three-character prefix of a well-formed
	// student identifier.
	InstitutionPrefix string
}

var (
	reNonASCII      = regexp.MustCompile(`[^\x20-\x7E]`)
	reWhitespace    = regexp.MustCompile(`\s+`)
	reNonAlnumUpper = regexp.MustCompile(`[^A-Z0-9]`)
	reNameChars     = regexp.MustCompile(`[^A-Za-z\s\-'.]`)
)

// DefaultRules returns the rules for the BMS code scheme the system was
// built against.
func DefaultRules() Rules {
	return Rules{
		AlwaysFix: []Substitution{
			{"€", "C"},
			{"Ⓒ", "C"},
			{"©", "C"},
			{"‘", "'"},
			{"’", "'"},
			{"“", `"`},
			{"”", `"`},
		},
		IdentifierTrial: []Substitution{
			{"O", "0"},
			{"I", "1"},
			{"B", "8"},
		},
		IdentifierPattern: regexp.MustCompile(`^1[BM][A-Z0-9]{7,9}$`),
		IdentifierFix: []Substitution{
			{"O", "0"},
			{"I", "1"},
			{"l", "1"},
			{"B", "8"},
			{"Z", "2"},
			{"S", "5"},
		},
		IdentifierRepair:     regexp.MustCompile(`1BM2[I1]CS`),
		IdentifierRepairWith: "1BM21CS",
		MarkPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^[0-9]+$`),
			regexp.MustCompile(`^[A-FP]$`),
			regexp.MustCompile(`^AB$`),
			regexp.MustCompile(`^[0-9]+\s*[0-9]*$`),
		},
		MarkFix: []Substitution{
			{"O", "0"},
			{"I", "1"},
			{"l", "1"},
			{"B", "8"},
			{"S", "5"},
		},
		HeaderFix: []Substitution{
			{"22CST", "22CS7"},
			{"22MEZO", "22ME2O"},
		},
		SeriesPrefix:      "22",
		InstitutionPrefix: "1BM",
	}
}

// Corrector applies context-aware OCR corrections to single cells.
// It is stateless between calls; one instance is safe for concurrent use.
type Corrector struct {
	rules Rules
}

// NewCorrector creates a Corrector owning the given rules.
func NewCorrector(rules Rules) *Corrector {
	return &Corrector{rules: rules}
}

// Classify reports the category of a raw cell. The universal fixes are
// applied first so that, e.g., "€" has already become "C" by the time the
// patterns run.
func (c *Corrector) Classify(raw string) CellCategory {
	text := c.normalize(raw)
	if text == "" {
		return CategoryFreeText
	}
	return c.classify(text)
}

// Correct applies the universal fixes, classifies the cell, and applies the
// category-specific transform. Total and deterministic: empty or blank input
// yields "", and correcting an already-corrected cell is a no-op.
func (c *Corrector) Correct(raw string) string {
	text := c.normalize(raw)
	if text == "" {
		return ""
	}
	switch c.classify(text) {
	case CategoryIdentifier:
		return c.correctIdentifier(text)
	case CategoryMark:
		return c.correctMark(text)
	default:
		return c.correctText(text)
	}
}

// normalize trims and applies the always-fix table.
func (c *Corrector) normalize(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	return applySubstitutions(text, c.rules.AlwaysFix)
}

func (c *Corrector) classify(text string) CellCategory {
	if c.isLikelyIdentifier(text) {
		return CategoryIdentifier
	}
	if c.isLikelyMark(text) {
		return CategoryMark
	}
	return CategoryFreeText
}

// isLikelyIdentifier tests the identifier pattern against a trial string
// with letter-digit look-alikes substituted. The trial substitution is
// never committed.
func (c *Corrector) isLikelyIdentifier(text string) bool {
	trial := applySubstitutions(strings.ToUpper(text), c.rules.IdentifierTrial)
	return c.rules.IdentifierPattern.MatchString(trial)
}

func (c *Corrector) isLikelyMark(text string) bool {
	upper := strings.ToUpper(strings.TrimSpace(text))
	for _, re := range c.rules.MarkPatterns {
		if re.MatchString(upper) {
			return true
		}
	}
	return false
}

// correctIdentifier commits the identifier table, repairs the known
// transposition, strips everything outside [A-Z0-9] and uppercases.
func (c *Corrector) correctIdentifier(text string) string {
	text = applySubstitutions(text, c.rules.IdentifierFix)
	text = c.rules.IdentifierRepair.ReplaceAllString(text, c.rules.IdentifierRepairWith)
	text = reNonAlnumUpper.ReplaceAllString(text, "")
	return strings.ToUpper(text)
}

// correctMark commits the mark table and removes internal whitespace.
// Case is preserved and no other characters are stripped.
func (c *Corrector) correctMark(text string) string {
	text = applySubstitutions(text, c.rules.MarkFix)
	return reWhitespace.ReplaceAllString(text, "")
}

// correctText protects alphabetic content: no case changes and no
// letter→digit substitution. Non-printable-ASCII runes become spaces rather
// than being deleted, so adjacent words do not fuse.
func (c *Corrector) correctText(text string) string {
	text = reNonASCII.ReplaceAllString(text, " ")
	text = reWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// cleanIdentifier is the decode-stage identifier cleanup. It uses a narrow
// O→0/I→1 table on the uppercased string: the committed identifier table's
// B→8 would corrupt the literal institution prefix (1BM → 18M).
func (c *Corrector) cleanIdentifier(raw string) string {
	text := strings.ToUpper(strings.TrimSpace(raw))
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "O", "0")
	text = strings.ReplaceAll(text, "I", "1")
	return reNonAlnumUpper.ReplaceAllString(text, "")
}

// cleanName keeps letters, spaces, hyphens, apostrophes and periods, and
// collapses whitespace runs.
func (c *Corrector) cleanName(raw string) string {
	text := reNameChars.ReplaceAllString(strings.TrimSpace(raw), " ")
	text = reWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func applySubstitutions(text string, subs []Substitution) string {
	for _, s := range subs {
		text = strings.ReplaceAll(text, s.Old, s.New)
	}
	return text
}
