// Package pipeline orchestrates the per-station collection loop: partition
// the global range into month windows, fetch each window in order, strip
// repeated headers, normalize rows, and assemble one continuous output
// file per station.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/tide-data-collector/internal/domain"
	"github.com/couchcryptid/tide-data-collector/internal/observability"
)

// Fetcher performs one window request against the remote service.
type Fetcher interface {
	Fetch(ctx context.Context, remoteID string, window domain.MonthWindow) (string, error)
}

// RowSink is one station's output artifact. The header must be written
// exactly once, before any rows.
type RowSink interface {
	Path() string
	WriteHeader(header []string) error
	WriteRows(rows [][]string) error
	Close() error
}

// SinkOpener creates (truncating) the output sink for a station.
type SinkOpener func(station domain.StationSpec) (RowSink, error)

// RowPublisher optionally forwards normalized rows to a secondary
// destination. A nil publisher disables forwarding.
type RowPublisher interface {
	PublishRows(ctx context.Context, station domain.StationSpec, header []string, rows [][]string) error
}

// Collector assembles one station's complete observation series.
type Collector struct {
	fetcher   Fetcher
	openSink  SinkOpener
	publisher RowPublisher
	opts      domain.NormalizeOptions
	logger    *slog.Logger
	metrics   *observability.Metrics
	fetched   atomic.Bool
}

// NewCollector creates a Collector. publisher may be nil.
func NewCollector(f Fetcher, open SinkOpener, publisher RowPublisher, opts domain.NormalizeOptions, logger *slog.Logger, metrics *observability.Metrics) *Collector {
	return &Collector{
		fetcher:   f,
		openSink:  open,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one window has been fetched,
// or an error describing why the run is not yet making progress.
func (c *Collector) CheckReadiness(_ context.Context) error {
	if !c.fetched.Load() {
		return fmt.Errorf("no window has been fetched yet")
	}
	return nil
}

// Stats summarizes one station's collection.
type Stats struct {
	Windows int
	Rows    int
	Output  string
}

// Collect gathers the full range for one station into its sink. Windows
// are fetched strictly in ascending order, so rows land in chronological
// order without sorting. The header from the first window is written
// once; later windows' headers are dropped. Any error aborts this
// station immediately, leaving the sink in its partially-written state
// for inspection.
func (c *Collector) Collect(ctx context.Context, station domain.StationSpec, globalRange domain.DateRange) (Stats, error) {
	windows, err := globalRange.Partition()
	if err != nil {
		return Stats{}, err
	}

	s, err := c.openSink(station)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Output: s.Path()}
	header, timeIdx := []string(nil), 0

	for i, w := range windows {
		if err := ctx.Err(); err != nil {
			s.Close()
			return stats, err
		}

		rows, tableHeader, err := c.fetchWindow(ctx, station, w)
		if err != nil {
			s.Close()
			return stats, fmt.Errorf("window %s..%s: %w", domain.Dashless(w.Start), domain.Dashless(w.End), err)
		}
		stats.Windows++

		if i == 0 {
			header = domain.NormalizeHeader(tableHeader, c.opts)
			if c.opts.Enabled() {
				timeIdx, err = domain.TimeColumnIndex(tableHeader)
				if err != nil {
					s.Close()
					return stats, err
				}
			}
			if err := s.WriteHeader(header); err != nil {
				s.Close()
				return stats, err
			}
		}

		if c.opts.Enabled() {
			for j, row := range rows {
				rows[j], err = domain.NormalizeRow(row, timeIdx, c.opts)
				if err != nil {
					s.Close()
					return stats, fmt.Errorf("window %s..%s: %w", domain.Dashless(w.Start), domain.Dashless(w.End), err)
				}
			}
		}

		if err := s.WriteRows(rows); err != nil {
			s.Close()
			return stats, err
		}
		stats.Rows += len(rows)
		c.metrics.RowsWritten.Add(float64(len(rows)))

		if c.publisher != nil {
			if err := c.publisher.PublishRows(ctx, station, header, rows); err != nil {
				s.Close()
				return stats, fmt.Errorf("publish rows: %w", err)
			}
		}

		c.logger.Debug("window collected",
			"station", station.Name,
			"window", fmt.Sprintf("%d/%d", i+1, len(windows)),
			"rows", len(rows),
		)
	}

	if err := s.Close(); err != nil {
		return stats, err
	}
	return stats, nil
}

// fetchWindow performs one fetch and parses the response into a header
// and data rows.
func (c *Collector) fetchWindow(ctx context.Context, station domain.StationSpec, w domain.MonthWindow) ([][]string, []string, error) {
	start := time.Now()
	raw, err := c.fetcher.Fetch(ctx, station.RemoteID, w)
	if err != nil {
		return nil, nil, err
	}
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	c.metrics.WindowsFetched.Inc()
	c.fetched.Store(true)

	table, err := domain.ParseTable(raw)
	if err != nil {
		return nil, nil, err
	}
	return table.Rows, table.Header, nil
}
