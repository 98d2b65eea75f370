// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package marksheet

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sassoftware/marksheet-xtract/logger"
)

type ParsingMode string

const (
	// Strict accepts a student row only when its identifier passes the full
	// institutional prefix/length check.
	Strict ParsingMode = "strict"
	// BestEffort additionally accepts rows whose identifier failed the
	// strict check but that carry both an identifier and a name. Losing a
	// real student is worse than keeping a row with a malformed identifier.
	BestEffort ParsingMode = "best-effort"
)

// Layout fixes where the decoder looks inside the grid. Row 0 is a
// descriptive header, row 1 carries the subject codes, row 2 is metadata and
// data rows start at row 3; the decoder assumes this layout, it does not
// infer it.
type Layout struct {
	HeaderRow       int `validate:"min=0"`
	DataStartRow    int `validate:"gtfield=HeaderRow"`
	IdentityColumns int `validate:"min=1"`
	BlockWidth      int `validate:"eq=4"`
}

type Config struct {
	MaxConcurrentDocs int           `validate:"min=1,max=10"`
	MaxWorkersPerDoc  int           `validate:"min=1,max=10"`
	WorkerTimeout     time.Duration `validate:"required"`
	ParsingMode       ParsingMode   `validate:"oneof=strict best-effort"`
	Layout            Layout
	Rules             Rules
	Subjects          SubjectTable
	DebugOn           bool
	Logger            logger.LogFunc
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxConcurrentDocs: 5,
		MaxWorkersPerDoc:  1,
		WorkerTimeout:     5 * time.Second,
		ParsingMode:       BestEffort,
		Layout:            DefaultLayout(),
		Rules:             DefaultRules(),
		Subjects:          DefaultSubjectTable(),
		DebugOn:           false,
	}
}

func DefaultLayout() Layout {
	return Layout{
		HeaderRow:       1,
		DataStartRow:    3,
		IdentityColumns: 3,
		BlockWidth:      4,
	}
}

func (cfg *Config) Validate() error {
	logger.Debug("Validating Config Object")
	validate := validator.New()
	return validate.Struct(cfg)
}
