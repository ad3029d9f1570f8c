// Package importer drives the per-format import pipelines: read the
// uploaded file, route every record through normalization,
// reconciliation and status classification, persist the resulting
// application and accumulate a structured result.
//
// Failure handling is two-tiered. Decoding the file, parsing the JSON
// tree or locating the candidates array fails the whole call and rolls
// back everything. A failure while processing a single record is
// recorded with its line number and never aborts the batch.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/cvbridge/recruit/internal/ingest/db"
	"github.com/cvbridge/recruit/internal/ingest/normalize"
	"github.com/cvbridge/recruit/internal/ingest/reader"
	"github.com/cvbridge/recruit/internal/ingest/reconcile"
	"go.uber.org/zap"
)

// Repository provides the transactional scope one import call runs in.
type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
}

// Importer is the orchestrator shared by all dialects.
type Importer struct {
	repo     Repository
	producer reconcile.EventProducer
	splitter *normalize.Splitter
	logger   *zap.Logger
}

func New(repo Repository, producer reconcile.EventProducer, splitter *normalize.Splitter, logger *zap.Logger) *Importer {
	return &Importer{
		repo:     repo,
		producer: producer,
		splitter: splitter,
		logger:   logger.Named("importer"),
	}
}

// RecordError ties a failure to the 1-based line (CSV) or element
// index (JSON) it occurred on.
type RecordError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e RecordError) String() string {
	return fmt.Sprintf("Line %d: %s", e.Line, e.Message)
}

// Result aggregates one import call.
type Result struct {
	Success int           `json:"success"`
	Skipped int           `json:"skipped"`
	Errors  []RecordError `json:"errors"`
}

func (r *Result) AddError(line int, message string) {
	r.Errors = append(r.Errors, RecordError{Line: line, Message: message})
}

func (r *Result) Failed() int {
	return len(r.Errors)
}

// OK reports whether the batch brought anything in. A partial import
// is a success; only a batch with zero imported (or skipped) records
// counts as failed.
func (r *Result) OK() bool {
	return r.Success+r.Skipped > 0
}

// rowMapper turns one CSV record into a persisted application.
type rowMapper func(ctx context.Context, tx *db.Repository, rec *reconcile.Service, row []string) error

// importCSV is the generic per-row pipeline shared by both CSV
// dialects. The whole call runs in one transaction: records already
// persisted stay committed even when later rows fail, but a fatal
// reader error leaves nothing behind.
func (i *Importer) importCSV(ctx context.Context, data []byte, minColumns int, mapRow rowMapper) (*Result, error) {
	rows, err := reader.ReadCSV(data)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	err = i.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		rec := reconcile.New(tx, i.producer, i.logger)

		line := 2 // line 1 is the header
		for _, row := range rows {
			if err := i.importRow(ctx, tx, rec, row, minColumns, mapRow); err != nil {
				i.logger.Warn("Failed to import record",
					zap.Int("line", line),
					zap.Error(err),
				)
				result.AddError(line, err.Error())
			} else {
				result.Success++
			}
			line++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	i.logger.Info("Import completed",
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed()),
	)
	return result, nil
}

func (i *Importer) importRow(ctx context.Context, tx *db.Repository, rec *reconcile.Service, row []string, minColumns int, mapRow rowMapper) error {
	if len(row) < minColumns {
		return fmt.Errorf("record has only %d columns, minimum %d required", len(row), minColumns)
	}
	return mapRow(ctx, tx, rec, row)
}

// field returns the trimmed value at idx, or "" when the record is
// too short or the cell is blank.
func field(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
