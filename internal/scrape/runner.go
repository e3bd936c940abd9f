package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/wa-dockets/internal/config"
	"github.com/pfrederiksen/wa-dockets/internal/docket"
	"github.com/pfrederiksen/wa-dockets/internal/fetch"
	"github.com/pfrederiksen/wa-dockets/internal/logger"
	"github.com/pfrederiksen/wa-dockets/internal/page"
)

// MaxConsecutiveFailures is how many cases in a row may fail to save before a page
// is rolled back and its division abandoned
const MaxConsecutiveFailures = 5

// ErrTooManyFailures aborts a division after repeated persistence failures
var ErrTooManyFailures = errors.New("too many consecutive persistence failures")

// Request describes one scrape run
type Request struct {
	Divisions []config.Division
	Start     time.Time
	End       time.Time
	// Resume starts each division the day after its last processed date
	Resume bool
}

// DivisionResult summarises the run for one division
type DivisionResult struct {
	Division int   `json:"division"`
	Dates    int   `json:"dates"`
	Dockets  int   `json:"dockets"`
	Cases    int   `json:"cases"`
	Skipped  int   `json:"skipped"`
	Failures int   `json:"failures"`
	Err      error `json:"-"`
}

// Summary is the outcome of Run
type Summary struct {
	RunID     string           `json:"run_id"`
	Started   time.Time        `json:"started"`
	Finished  time.Time        `json:"finished"`
	Divisions []DivisionResult `json:"divisions"`
}

// Cases returns the number of cases saved across all divisions
func (s *Summary) Cases() int {
	n := 0
	for _, d := range s.Divisions {
		n += d.Cases
	}
	return n
}

// Runner executes scrape runs
type Runner struct {
	fetcher fetch.Fetcher
	store   Store
	log     *logger.Logger
	metrics *logger.Metrics
	delay   time.Duration
	minDate time.Time
	now     func() time.Time
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the run logger
func WithLogger(l *logger.Logger) Option { return func(r *Runner) { r.log = l } }

// WithMetrics sets the metrics tracker
func WithMetrics(m *logger.Metrics) Option { return func(r *Runner) { r.metrics = m } }

// WithDelay pauses between page fetches
func WithDelay(d time.Duration) Option { return func(r *Runner) { r.delay = d } }

// WithMinDate overrides the earliest allowed start date
func WithMinDate(t time.Time) Option { return func(r *Runner) { r.minDate = t } }

// WithClock overrides the current time, used for the end-of-year limit
func WithClock(now func() time.Time) Option { return func(r *Runner) { r.now = now } }

// New creates a Runner
func New(f fetch.Fetcher, s Store, opts ...Option) *Runner {
	r := &Runner{
		fetcher: f,
		store:   s,
		log:     logger.Default(),
		metrics: logger.NewMetrics(),
		minDate: config.DefaultMinDate,
		now:     time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Metrics returns the runner's metrics tracker
func (r *Runner) Metrics() *logger.Metrics {
	return r.metrics
}

// Run scrapes every requested division in turn. A division aborted by
// ErrTooManyFailures does not stop the others; the returned error joins every
// division's error. Cancelling ctx stops the run after the current page.
func (r *Runner) Run(ctx context.Context, req Request) (*Summary, error) {
	start, end := truncateDay(req.Start), truncateDay(req.End)
	if err := ValidateRange(start, end, r.minDate, r.now()); err != nil {
		return nil, err
	}
	if len(req.Divisions) == 0 {
		return nil, errors.New("no divisions to scrape")
	}

	summary := &Summary{
		RunID:   uuid.NewString(),
		Started: time.Now().UTC(),
	}
	log := r.log.With(logger.Fields{"run_id": summary.RunID})
	log.Info("Scrape started", logger.Fields{
		"start":     start.Format("2006-01-02"),
		"end":       end.Format("2006-01-02"),
		"divisions": len(req.Divisions),
		"resume":    req.Resume,
	})

	var errs []error
	for _, div := range req.Divisions {
		res := r.runDivision(ctx, log.With(logger.Fields{"division": div.Number}), div, start, end, req.Resume)
		summary.Divisions = append(summary.Divisions, res)
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("division %d: %w", div.Number, res.Err))
		}
		if ctx.Err() != nil {
			break
		}
	}

	summary.Finished = time.Now().UTC()
	r.metrics.RecordTiming("run.total", summary.Finished.Sub(summary.Started))
	log.Info("Scrape finished", logger.Fields{
		"cases":    summary.Cases(),
		"duration": summary.Finished.Sub(summary.Started).String(),
	})

	return summary, errors.Join(errs...)
}

func (r *Runner) runDivision(ctx context.Context, log *logger.Logger, div config.Division, start, end time.Time, resume bool) DivisionResult {
	res := DivisionResult{Division: div.Number}

	if resume {
		last, ok, err := r.store.LastProcessedDate(ctx, div.Number)
		if err != nil {
			res.Err = fmt.Errorf("reading last processed date: %w", err)
			log.Error("Cannot resume division", nil, err)
			return res
		}
		if ok && !last.Before(start) {
			start = last.AddDate(0, 0, 1)
			log.Info("Resuming division", logger.Fields{"from": start.Format("2006-01-02")})
		}
	}

	first := true
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		if !first && r.delay > 0 {
			if err := sleep(ctx, r.delay); err != nil {
				res.Err = err
				return res
			}
		}
		first = false

		res.Dates++
		saved, found, failures, err := r.processDate(ctx, log, div, date)
		res.Failures += failures
		if found {
			res.Dockets++
		}
		res.Cases += saved
		r.metrics.SetGauge("dates.remaining", float64(end.Sub(date)/(24*time.Hour)))

		if errors.Is(err, ErrTooManyFailures) {
			log.Error("Aborting division", logger.Fields{"date": date.Format("2006-01-02")}, err)
			res.Err = err
			return res
		}
		if err != nil {
			if ctx.Err() != nil {
				res.Err = ctx.Err()
				return res
			}
			res.Skipped++
			log.Warn("Skipping date", logger.Fields{
				"date":  date.Format("2006-01-02"),
				"error": err.Error(),
			})
		}
	}

	log.Info("Division finished", logger.Fields{
		"dates":   res.Dates,
		"dockets": res.Dockets,
		"cases":   res.Cases,
		"skipped": res.Skipped,
	})
	return res
}

// processDate handles a single docket page. It returns the number of cases saved,
// whether the page carried a docket and how many cases failed to save.
func (r *Runner) processDate(ctx context.Context, log *logger.Logger, div config.Division, date time.Time) (int, bool, int, error) {
	url := div.DocketURL(date)
	log.Debug("Fetching docket", logger.Fields{"url": url})

	fetchStart := time.Now()
	body, err := r.fetcher.Fetch(ctx, url)
	r.metrics.RecordTiming("page.fetch", time.Since(fetchStart))
	if err != nil {
		r.metrics.IncrCounter("pages.failed")
		return 0, false, 0, fmt.Errorf("fetching %s: %w", url, err)
	}
	r.metrics.IncrCounter("pages.fetched")

	parseStart := time.Now()
	p, err := page.Parse(bytes.NewReader(body))
	if err != nil {
		r.metrics.IncrCounter("pages.invalid")
		return 0, false, 0, err
	}
	d, err := docket.ParsePage(p)
	r.metrics.RecordTiming("page.parse", time.Since(parseStart))
	if err != nil {
		r.metrics.IncrCounter("pages.invalid")
		return 0, false, 0, fmt.Errorf("parsing %s: %w", url, err)
	}

	if !d.Found {
		log.Debug("No docket scheduled", logger.Fields{"date": date.Format("2006-01-02")})
		return 0, false, 0, nil
	}
	r.metrics.IncrCounter("dockets.found")
	r.metrics.AddCounter("cases.parsed", int64(len(d.Cases)))

	log.Info("Docket parsed", logger.Fields{
		"date":  date.Format("2006-01-02"),
		"cases": len(d.Cases),
	})

	saved, failures, err := r.persist(ctx, log, div.Number, date, d)
	return saved, true, failures, err
}

func (r *Runner) persist(ctx context.Context, log *logger.Logger, division int, date time.Time, d *docket.Docket) (int, int, error) {
	batch, err := r.store.Begin(ctx, division)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning batch: %w", err)
	}

	saved, failures, consecutive := 0, 0, 0
	for _, rec := range d.Cases {
		if err := batch.SaveCase(ctx, rec); err != nil {
			failures++
			consecutive++
			r.metrics.IncrCounter("cases.failed")
			log.Error("Failed to save case", logger.Fields{"case": rec.PrimaryNumber()}, err)

			if consecutive > MaxConsecutiveFailures {
				if rbErr := batch.Rollback(); rbErr != nil {
					log.Error("Rollback failed", nil, rbErr)
				}
				return 0, failures, fmt.Errorf("%w: %d in a row on %s", ErrTooManyFailures,
					consecutive, date.Format("2006-01-02"))
			}
			continue
		}
		consecutive = 0
		saved++
	}

	if err := batch.MarkProcessed(ctx, date); err != nil {
		batch.Rollback() // nolint:errcheck
		return 0, failures, err
	}
	if err := batch.Commit(); err != nil {
		return 0, failures, err
	}

	r.metrics.AddCounter("cases.saved", int64(saved))
	return saved, failures, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
