package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/tide-data-collector/internal/domain"
	"github.com/couchcryptid/tide-data-collector/internal/observability"
)

// Mirror optionally copies a finished station file to secondary storage.
// A nil mirror disables it.
type Mirror interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// Result is one station's collection outcome.
type Result struct {
	Station     domain.StationSpec
	Windows     int
	Rows        int
	Output      string
	MirrorKey   string
	Err         error
	CompletedAt time.Time
}

// Runner drives collection across the configured stations. Stations share
// no mutable state, so they can run concurrently; within a station the
// window sequence stays strictly ordered. One station's failure never
// stops the others.
type Runner struct {
	collector   *Collector
	mirror      Mirror
	concurrency int
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewRunner creates a Runner. mirror may be nil; concurrency below 1 is
// treated as 1 (the original strictly-sequential behavior).
func NewRunner(c *Collector, mirror Mirror, concurrency int, logger *slog.Logger, metrics *observability.Metrics) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		collector:   c,
		mirror:      mirror,
		concurrency: concurrency,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness delegates to the collector's progress signal.
func (r *Runner) CheckReadiness(ctx context.Context) error {
	return r.collector.CheckReadiness(ctx)
}

// Run collects every station and returns one Result per station, in the
// order the stations were given, regardless of worker scheduling.
func (r *Runner) Run(ctx context.Context, stations []domain.StationSpec, globalRange domain.DateRange) []Result {
	r.metrics.RunActive.Set(1)
	defer r.metrics.RunActive.Set(0)

	results := make([]Result, len(stations))
	indexes := make(chan int, len(stations))
	for i := range stations {
		indexes <- i
	}
	close(indexes)

	workers := r.concurrency
	if workers > len(stations) {
		workers = len(stations)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = r.collectStation(ctx, stations[i], globalRange)
			}
		}()
	}
	wg.Wait()

	return results
}

func (r *Runner) collectStation(ctx context.Context, station domain.StationSpec, globalRange domain.DateRange) Result {
	start := time.Now()
	r.logger.Info("collecting station", "station", station.Name, "remote_id", station.RemoteID)

	stats, err := r.collector.Collect(ctx, station, globalRange)
	res := Result{
		Station:     station,
		Windows:     stats.Windows,
		Rows:        stats.Rows,
		Output:      stats.Output,
		Err:         err,
		CompletedAt: domain.Now(),
	}

	if err == nil && r.mirror != nil {
		res.MirrorKey, res.Err = r.mirror.Upload(ctx, stats.Output)
	}

	r.metrics.StationDuration.Observe(time.Since(start).Seconds())
	if res.Err != nil {
		r.metrics.StationOutcomes.WithLabelValues("error").Inc()
		r.logger.Error("station collection failed",
			"station", station.Name,
			"windows_completed", res.Windows,
			"rows_written", res.Rows,
			"error", res.Err,
		)
		return res
	}

	r.metrics.StationOutcomes.WithLabelValues("success").Inc()
	r.logger.Info("station collected",
		"station", station.Name,
		"windows", res.Windows,
		"rows", res.Rows,
		"output", res.Output,
	)
	return res
}
