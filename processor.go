// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package marksheet

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/sassoftware/marksheet-xtract/logger"
	"golang.org/x/sync/semaphore"
)

// Processor defines the contract for turning an OCR cell grid into a
// decoded marksheet document.
type Processor interface {
	Decode(ctx context.Context, grid [][]string) (*Document, error)
	DecodeFile(ctx context.Context, path string) (*Document, error)
}

// RowAcceptance decides whether a cleaned identifier/name pair counts as a
// student row. Different policies trade precision against recall.
type RowAcceptance interface {
	Accept(usn, name string) bool
}

// StrictAcceptance accepts only rows whose identifier is non-empty, at least
// nine characters and carries the institution prefix.
type StrictAcceptance struct {
	Prefix string
}

func (s *StrictAcceptance) Accept(usn, name string) bool {
	return usn != "" && len(usn) >= 9 && strings.HasPrefix(usn, s.Prefix)
}

// PermissiveAcceptance falls back to accepting rows where identifier and
// name are both present even when the strict check failed. Silently dropping
// a legitimately scanned student is treated as worse than keeping a row with
// a malformed identifier.
type PermissiveAcceptance struct {
	Prefix string
}

func (p *PermissiveAcceptance) Accept(usn, name string) bool {
	strict := StrictAcceptance{Prefix: p.Prefix}
	return strict.Accept(usn, name) || (usn != "" && name != "")
}

// processor manages marksheet decoding with concurrency control: a
// semaphore bounds simultaneous documents and a worker pool corrects grid
// rows. The correction step is pure, so rows can be corrected in any order
// and reassembled by index.
type processor struct {
	cfg       *Config
	sem       *semaphore.Weighted
	corrector *Corrector
	decoder   *Decoder
}

// NewProcessor validates the config and creates a new processor.
// Selects the RowAcceptance policy (Strict or Permissive) from ParsingMode.
func NewProcessor(cfg *Config) *processor {
	var accept RowAcceptance
	switch cfg.ParsingMode {
	case Strict:
		accept = &StrictAcceptance{Prefix: cfg.Rules.InstitutionPrefix}
	case BestEffort:
		accept = &PermissiveAcceptance{Prefix: cfg.Rules.InstitutionPrefix}
	}

	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	if cfg.Logger != nil {
		logger.SetLogger(cfg.Logger)
	}

	logger.Debug(fmt.Sprintf("Processor initialized: parsing_mode=%v, max_concurrent_docs=%d, max_workers_per_doc=%d",
		cfg.ParsingMode, cfg.MaxConcurrentDocs, cfg.MaxWorkersPerDoc), true)

	return &processor{
		cfg:       cfg,
		sem:       semaphore.NewWeighted(int64(cfg.MaxConcurrentDocs)),
		corrector: NewCorrector(cfg.Rules),
		decoder:   NewDecoder(cfg.Layout, cfg.Rules, cfg.Subjects, accept),
	}
}

// Decode corrects every cell of the grid, then structurally decodes the
// corrected grid into student records and subject descriptors.
func (p *processor) Decode(ctx context.Context, grid [][]string) (*Document, error) {
	logger.Debug(fmt.Sprintf("Starting decode: rows=%d", len(grid)), true)

	if err := p.acquireSlot(ctx); err != nil {
		logger.Debug(fmt.Sprintf("Failed to acquire slot: err=%v", err), true)
		return nil, err
	}
	defer p.sem.Release(1)

	ctxDoc, cancel := context.WithTimeout(ctx, p.cfg.WorkerTimeout)
	defer cancel()

	corrected, err := p.correctGrid(ctxDoc, grid)
	if err != nil {
		logger.Debug(fmt.Sprintf("Grid correction aborted: err=%v", err), true)
		return nil, err
	}

	doc, err := p.decoder.Decode(corrected)
	if err != nil {
		logger.Debug(fmt.Sprintf("Structural decode failed: err=%v", err), true)
		return nil, err
	}

	logger.Debug(fmt.Sprintf("Decode completed: students=%d subjects=%d", len(doc.Students), len(doc.Subjects)), true)
	return doc, nil
}

// DecodeFile reads a CSV grid from disk and decodes it.
func (p *processor) DecodeFile(ctx context.Context, path string) (*Document, error) {
	logger.Debug(fmt.Sprintf("Reading grid: path=%s", path), true)

	grid, err := ReadGridFile(path)
	if err != nil {
		logger.Error("failed to read grid file")
		return nil, fmt.Errorf("read grid %s: %w", path, err)
	}

	return p.Decode(ctx, grid)
}

type rowResult struct {
	index int
	cells []string
}

// correctGrid runs the per-cell corrector over every row on a bounded
// worker pool and reassembles the rows by index.
func (p *processor) correctGrid(ctx context.Context, grid [][]string) ([][]string, error) {
	total := len(grid)
	if total == 0 {
		return nil, nil
	}

	numWorkers := p.adjustWorkerCount(p.cfg.MaxWorkersPerDoc)
	logger.Debug(fmt.Sprintf("Starting correction workers: count=%d rows=%d", numWorkers, total), true)

	jobs, results := make(chan int, total), make(chan rowResult, total)

	var wg sync.WaitGroup
	p.startWorkers(grid, jobs, results, numWorkers, &wg)
	feedErr := p.feedJobs(ctx, total, jobs)
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	corrected := make([][]string, total)
	for res := range results {
		corrected[res.index] = res.cells
	}

	if feedErr != nil {
		return nil, feedErr
	}
	return corrected, nil
}

func (p *processor) startWorkers(grid [][]string, jobs <-chan int, results chan<- rowResult, numWorkers int, wg *sync.WaitGroup) {
	for w := 1; w <= numWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Debug(fmt.Sprintf("Worker started: id=%d", id), true)
			for i := range jobs {
				row := grid[i]
				cells := make([]string, len(row))
				for j, cell := range row {
					cells[j] = p.corrector.Correct(cell)
				}
				results <- rowResult{index: i, cells: cells}
			}
			logger.Debug(fmt.Sprintf("Worker finished: id=%d", id), true)
		}(w)
	}
}

func (p *processor) feedJobs(ctx context.Context, total int, jobs chan<- int) error {
	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			logger.Debug("Context cancelled while feeding jobs", true)
			return ctx.Err()
		case jobs <- i:
		}
	}
	logger.Debug(fmt.Sprintf("All jobs queued: total_rows=%d", total), true)
	return nil
}

func (p *processor) acquireSlot(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire slot: %w", err)
	}
	logger.Debug("Slot acquired successfully", true)
	return nil
}

func (p *processor) adjustWorkerCount(maxWorkers int) int {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxWorkers > runtime.NumCPU()/2 {
		maxWorkers = runtime.NumCPU()
	}
	logger.Debug(fmt.Sprintf("Adjusted worker count: workers=%d", maxWorkers), true)
	return maxWorkers
}
