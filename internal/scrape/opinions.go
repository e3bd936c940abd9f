package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/wa-dockets/internal/config"
	"github.com/pfrederiksen/wa-dockets/internal/logger"
	"github.com/pfrederiksen/wa-dockets/internal/opinions"
	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

// MaxOpinionFailures is how many opinions on one release page may fail to save
// before the page is rolled back and the run stopped
const MaxOpinionFailures = 5

// OpinionsRequest describes one opinion update run
type OpinionsRequest struct {
	Year int
	// MinYear defaults to config.DefaultOpinionsMinYear
	MinYear int
	// SearchURL returns the release search for opinions filed from begin to end
	SearchURL func(begin, end time.Time) string
}

// OpinionSummary is the outcome of RunOpinions
type OpinionSummary struct {
	RunID    string    `json:"run_id"`
	Year     int       `json:"year"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Searches int       `json:"searches"`
	Opinions int       `json:"opinions"`
	Updated  int       `json:"updated"`
	Inserted int       `json:"inserted"`
	Invalid  int       `json:"invalid"`
	Failures int       `json:"failures"`
	Skipped  int       `json:"skipped"`
}

// RunOpinions searches the opinion releases of a year month by month and records each
// opinion's filing date and publication status on the matching stored cases. A month
// that hits the search's result limit is split and searched again in halves. Pages
// that cannot be fetched or read are skipped; more than MaxOpinionFailures failed
// saves on one page stop the run with ErrTooManyFailures.
func (r *Runner) RunOpinions(ctx context.Context, req OpinionsRequest) (*OpinionSummary, error) {
	minYear := req.MinYear
	if minYear == 0 {
		minYear = config.DefaultOpinionsMinYear
	}
	if err := ValidateYear(req.Year, minYear, r.now()); err != nil {
		return nil, err
	}
	if req.SearchURL == nil {
		return nil, errors.New("no opinion search URL")
	}

	summary := &OpinionSummary{
		RunID:   uuid.NewString(),
		Year:    req.Year,
		Started: time.Now().UTC(),
	}
	run := &opinionRun{
		runner:  r,
		req:     req,
		summary: summary,
		log:     r.log.With(logger.Fields{"run_id": summary.RunID, "year": req.Year}),
	}
	run.log.Info("Opinion update started", nil)

	var err error
	for _, rg := range opinions.MonthRanges(req.Year) {
		if err = run.search(ctx, rg); err != nil {
			break
		}
	}

	summary.Finished = time.Now().UTC()
	r.metrics.RecordTiming("run.total", summary.Finished.Sub(summary.Started))
	run.log.Info("Opinion update finished", logger.Fields{
		"opinions": summary.Opinions,
		"updated":  summary.Updated,
		"inserted": summary.Inserted,
		"duration": summary.Finished.Sub(summary.Started).String(),
	})

	return summary, err
}

type opinionRun struct {
	runner  *Runner
	req     OpinionsRequest
	summary *OpinionSummary
	log     *logger.Logger
	fetched bool
}

// search handles one release window. An error ends the run.
func (o *opinionRun) search(ctx context.Context, rg opinions.Range) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.fetched && o.runner.delay > 0 {
		if err := sleep(ctx, o.runner.delay); err != nil {
			return err
		}
	}
	o.fetched = true
	o.summary.Searches++

	log := o.log.With(logger.Fields{"range": rg.String()})
	rel, err := o.fetchRelease(ctx, log, o.req.SearchURL(rg.Begin, rg.End))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		o.summary.Skipped++
		log.Warn("Skipping release search", logger.Fields{"error": err.Error()})
		return nil
	}

	if rel.Capped() {
		if rg.Days() > 1 {
			first, second := rg.Split()
			log.Info("Release search hit the result limit, splitting", logger.Fields{"results": len(rel.Opinions)})
			if err := o.search(ctx, first); err != nil {
				return err
			}
			return o.search(ctx, second)
		}
		log.Warn("Release search hit the result limit, opinions may be missing", logger.Fields{"results": len(rel.Opinions)})
	}

	for _, row := range rel.Invalid {
		log.Warn("Unreadable opinion row", logger.Fields{"row": row})
	}
	o.summary.Invalid += len(rel.Invalid)
	o.summary.Opinions += len(rel.Opinions)

	return o.persist(ctx, log, rel.Opinions)
}

func (o *opinionRun) fetchRelease(ctx context.Context, log *logger.Logger, url string) (*opinions.Release, error) {
	m := o.runner.metrics
	log.Debug("Fetching opinion release", logger.Fields{"url": url})

	start := time.Now()
	body, err := o.runner.fetcher.Fetch(ctx, url)
	m.RecordTiming("page.fetch", time.Since(start))
	if err != nil {
		m.IncrCounter("pages.failed")
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	m.IncrCounter("pages.fetched")

	rel, err := opinions.Parse(bytes.NewReader(body))
	if err != nil {
		m.IncrCounter("pages.invalid")
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return rel, nil
}

func (o *opinionRun) persist(ctx context.Context, log *logger.Logger, ops []opinions.Opinion) error {
	if len(ops) == 0 {
		return nil
	}
	m := o.runner.metrics

	batch, err := o.runner.store.BeginOpinions(ctx)
	if err != nil {
		return fmt.Errorf("beginning batch: %w", err)
	}

	updated, inserted, failures := 0, 0, 0
	for _, op := range ops {
		res, err := batch.SaveOpinion(ctx, op)
		if err != nil {
			failures++
			o.summary.Failures++
			m.IncrCounter("opinions.failed")
			log.Error("Failed to save opinion", logger.Fields{"case": op.CaseNumber}, err)

			if failures > MaxOpinionFailures {
				if rbErr := batch.Rollback(); rbErr != nil {
					log.Error("Rollback failed", nil, rbErr)
				}
				return fmt.Errorf("%w: %d opinions failed", ErrTooManyFailures, failures)
			}
			continue
		}

		if res == storage.OpinionInserted {
			inserted++
			log.Info("No stored case for opinion, inserted one", logger.Fields{
				"case":     op.CaseNumber,
				"division": op.Division,
			})
			continue
		}
		updated++
	}

	if err := batch.Commit(); err != nil {
		return err
	}

	o.summary.Updated += updated
	o.summary.Inserted += inserted
	m.AddCounter("opinions.updated", int64(updated))
	m.AddCounter("opinions.inserted", int64(inserted))
	return nil
}
