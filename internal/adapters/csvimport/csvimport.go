// Package csvimport loads scouting sheets exported as CSV into a record store.
package csvimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/reefscout/reefscout/internal/domain/model"
	"github.com/reefscout/reefscout/internal/domain/normalize"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/logger"
	"github.com/reefscout/reefscout/pkg/metrics"
)

// Mode selects how imported rows meet existing records.
type Mode string

const (
	ModeReplace Mode = "replace"
	ModeAppend  Mode = "append"
)

// ParseMode accepts "" (replace), "replace" and "append".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeReplace:
		return ModeReplace, nil
	case ModeAppend:
		return ModeAppend, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrMode, s)
	}
}

// Sink is the part of repository.Store the importer writes to.
type Sink interface {
	Append(ctx context.Context, source types.Source, recs ...model.Record) error
	Replace(ctx context.Context, source types.Source, recs []model.Record) error
}

// Sheet is a parsed CSV: its header row and every data row keyed by header.
type Sheet struct {
	Headers []string
	Rows    []map[string]string
}

// Report describes one import.
type Report struct {
	BatchID        string            `json:"batchId"`
	Source         types.Source      `json:"source"`
	Mode           Mode              `json:"mode"`
	Rows           int               `json:"rows"`
	Stored         int               `json:"stored"`
	UnknownHeaders []string          `json:"unknownHeaders"`
	Suggestions    map[string]string `json:"suggestions"`
}

// Parse reads RFC 4180 CSV with a header row. Short rows leave the
// missing columns empty; blank lines are skipped.
func Parse(r io.Reader) (Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Sheet{}, ErrNoHeader
	}
	if err != nil {
		return Sheet{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	sheet := Sheet{Headers: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Sheet{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if blank(rec) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	if len(sheet.Rows) == 0 {
		return Sheet{}, ErrNoRows
	}
	return sheet, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Diagnose lists headers the alias table does not know, with a fuzzy
// suggestion when one is close.
func Diagnose(headers []string) (unknown []string, suggestions map[string]string) {
	unknown = make([]string, 0)
	suggestions = make(map[string]string)
	for _, h := range headers {
		if h == "" {
			continue
		}
		if _, ok := normalize.Canonical(h); ok {
			continue
		}
		unknown = append(unknown, h)
		if s, ok := normalize.Suggest(h); ok {
			suggestions[h] = s
		}
	}
	return unknown, suggestions
}

// Records normalizes every row.
func (s Sheet) Records() []model.Record {
	out := make([]model.Record, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = normalize.Record(row)
	}
	return out
}

// Importer writes parsed sheets into a Sink.
type Importer struct {
	sink Sink
	log  logger.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the importer logger.
func WithLogger(l logger.Logger) Option {
	return func(i *Importer) {
		if l != nil {
			i.log = l
		}
	}
}

// New returns an Importer writing to sink.
func New(sink Sink, opts ...Option) *Importer {
	i := &Importer{sink: sink, log: logger.Nop()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import parses r and stores its rows under source.
func (i *Importer) Import(ctx context.Context, source types.Source, mode Mode, r io.Reader) (Report, error) {
	sheet, err := Parse(r)
	if err != nil {
		metrics.RecordIngestError("import_parse")
		return Report{}, err
	}
	return i.ImportSheet(ctx, source, mode, sheet)
}

// ImportSheet stores an already parsed sheet.
func (i *Importer) ImportSheet(ctx context.Context, source types.Source, mode Mode, sheet Sheet) (Report, error) {
	unknown, suggestions := Diagnose(sheet.Headers)
	recs := sheet.Records()

	rep := Report{
		BatchID:        uuid.NewString(),
		Source:         source,
		Mode:           mode,
		Rows:           len(recs),
		UnknownHeaders: unknown,
		Suggestions:    suggestions,
	}

	switch mode {
	case ModeAppend:
		err := i.sink.Append(ctx, source, recs...)
		if err != nil {
			return rep, fmt.Errorf("append import: %w", err)
		}
	case ModeReplace, "":
		rep.Mode = ModeReplace
		if err := i.sink.Replace(ctx, source, recs); err != nil {
			return rep, fmt.Errorf("replace import: %w", err)
		}
	default:
		return rep, fmt.Errorf("%w: %q", ErrMode, mode)
	}
	rep.Stored = len(recs)

	metrics.RecordImportRows(string(source), rep.Stored)
	metrics.RecordImportUnknownHeaders(len(unknown))
	i.log.Info(ctx, "csv imported",
		logger.String("batch_id", rep.BatchID),
		logger.String("source", string(source)),
		logger.String("mode", string(rep.Mode)),
		logger.Int("rows", rep.Rows),
		logger.Int("unknown_headers", len(unknown)),
	)
	return rep, nil
}
