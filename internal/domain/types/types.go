// Package types holds the selector types passed explicitly through the
// engine: record source, aggregation mode, zero handling and ranking metric.
package types

import (
	"fmt"
	"strings"
)

// Source selects which record set a query reads.
type Source string

const (
	SourceLive     Source = "live"
	SourcePrescout Source = "prescout"
)

// ParseSource accepts live and prescout. The historical spelling
// "presecout" is accepted as prescout. Empty means live.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "live":
		return SourceLive, nil
	case "prescout", "presecout", "pre":
		return SourcePrescout, nil
	default:
		return "", fmt.Errorf("%w: source %q", ErrInvalidSelector, s)
	}
}

// Sources lists every known source.
func Sources() []Source { return []Source{SourceLive, SourcePrescout} }

// Mode selects how per-match values reduce to one team value.
type Mode string

const (
	ModeAverage Mode = "average"
	ModeTop50   Mode = "top50"
	ModeBest    Mode = "best"
)

// ParseMode accepts average, top50 and best. Empty means average.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "average", "avg", "mean":
		return ModeAverage, nil
	case "top50", "top", "top-50":
		return ModeTop50, nil
	case "best", "max":
		return ModeBest, nil
	default:
		return "", fmt.Errorf("%w: mode %q", ErrInvalidSelector, s)
	}
}

// ZeroHandling controls whether zero-valued matches count.
type ZeroHandling string

const (
	ZeroInclude ZeroHandling = "include"
	ZeroExclude ZeroHandling = "exclude"
)

// ParseZeroHandling accepts include and exclude. Empty means include.
func ParseZeroHandling(s string) (ZeroHandling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "include":
		return ZeroInclude, nil
	case "exclude":
		return ZeroExclude, nil
	default:
		return "", fmt.Errorf("%w: zero handling %q", ErrInvalidSelector, s)
	}
}

// Metric selects what the overall ranking sorts on.
type Metric string

const (
	// MetricEPA ranks on derived point scores.
	MetricEPA Metric = "epa"
	// MetricCount ranks on raw game-piece counts.
	MetricCount Metric = "count"
)

// ParseMetric accepts epa and count. Empty means epa.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "epa", "points":
		return MetricEPA, nil
	case "count", "counts", "raw":
		return MetricCount, nil
	default:
		return "", fmt.Errorf("%w: metric %q", ErrInvalidSelector, s)
	}
}

// Query bundles the selectors shared by ranking and report requests.
type Query struct {
	Source Source       `json:"source"`
	Mode   Mode         `json:"mode"`
	Zero   ZeroHandling `json:"zero"`
	Metric Metric       `json:"metric"`
}

// DefaultQuery is live data, averaged, zeros included, ranked by points.
func DefaultQuery() Query {
	return Query{Source: SourceLive, Mode: ModeAverage, Zero: ZeroInclude, Metric: MetricEPA}
}

// ParseQuery parses all four selectors, falling back to base for empty ones.
func ParseQuery(base Query, source, mode, zero, metric string) (Query, error) {
	q := base
	var err error
	if source != "" {
		if q.Source, err = ParseSource(source); err != nil {
			return Query{}, err
		}
	}
	if mode != "" {
		if q.Mode, err = ParseMode(mode); err != nil {
			return Query{}, err
		}
	}
	if zero != "" {
		if q.Zero, err = ParseZeroHandling(zero); err != nil {
			return Query{}, err
		}
	}
	if metric != "" {
		if q.Metric, err = ParseMetric(metric); err != nil {
			return Query{}, err
		}
	}
	return q, nil
}
