// Package harvest drives the paginated harvest run: per area it walks the
// feed page by page, extracts records, and appends them to the output sink.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/harvestkit/townpage/config"
	"github.com/harvestkit/townpage/extract"
	"github.com/harvestkit/townpage/fetch"
	"github.com/harvestkit/townpage/models"
	"github.com/harvestkit/townpage/sink"
)

// Sink is the durable record writer whose lifecycle the harvester owns.
type Sink interface {
	Open() error
	Append(*models.Record) error
	Close() error
	Remove() error
}

// Harvester composes the fetch backend, extraction strategies, pagination
// controller, and output sink into one sequential run.
type Harvester struct {
	cfg     *config.Config
	backend fetch.Backend
	sink    Sink
	ctrl    *Controller
	metrics *Metrics
	sleep   func(time.Duration)
}

// New wires a harvester from its collaborators. The configuration must
// already be validated.
func New(cfg *config.Config, backend fetch.Backend, out Sink, metrics *Metrics) *Harvester {
	return &Harvester{
		cfg:     cfg,
		backend: backend,
		sink:    out,
		ctrl:    NewController(cfg.Interval),
		metrics: metrics,
		sleep:   time.Sleep,
	}
}

// Run harvests every configured area in order. Any unrecovered error
// aborts the run and deletes the output artifact: a run either produces
// a complete artifact for every area or none at all. The fetch backend
// is torn down exactly once, on both paths.
func (h *Harvester) Run(ctx context.Context) (err error) {
	defer func() {
		if cerr := h.backend.Close(); cerr != nil {
			slog.Error("close fetch backend", slog.Any("error", cerr))
		}
	}()

	slog.Info("starting harvest",
		slog.String("keyword", h.cfg.Keyword),
		slog.Int("areas", len(h.cfg.Areas)),
		slog.String("backend", string(h.cfg.Backend)),
	)

	if err := h.sink.Open(); err != nil {
		h.metrics.IncError(errorLabel(err))
		if rerr := h.sink.Remove(); rerr != nil {
			slog.Error("remove partial artifact", slog.Any("error", rerr))
		}
		return err
	}
	defer func() {
		if err == nil {
			err = h.sink.Close()
			return
		}
		if cerr := h.sink.Close(); cerr != nil {
			slog.Error("close sink", slog.Any("error", cerr))
		}
		if rerr := h.sink.Remove(); rerr != nil {
			slog.Error("remove partial artifact", slog.Any("error", rerr))
		}
	}()

	total := 0
	for _, area := range h.cfg.Areas {
		count, aerr := h.harvestArea(ctx, area)
		total += count
		if aerr != nil {
			h.metrics.IncError(errorLabel(aerr))
			slog.Error("harvest aborted",
				slog.String("area", area),
				slog.Any("error", aerr),
			)
			return aerr
		}
		h.metrics.IncAreas()
	}

	slog.Info("harvest complete",
		slog.String("keyword", h.cfg.Keyword),
		slog.Int("records", total),
	)
	return nil
}

// harvestArea runs one area's pagination loop and returns the number of
// records appended for it.
func (h *Harvester) harvestArea(ctx context.Context, area string) (int, error) {
	locator := h.cfg.SearchURL(area)
	progress := h.ctrl.Start(area)

	for {
		content, err := h.fetchPage(ctx, locator, progress.Offset())
		if err != nil {
			return progress.Count, fmt.Errorf("fetch %s page %d: %w", area, progress.Page, err)
		}

		doc, err := extract.ParseContent(content)
		if err != nil {
			return progress.Count, err
		}
		records, err := extract.Extract(doc, h.cfg.Keyword, area)
		if err != nil {
			return progress.Count, fmt.Errorf("extract %s page %d: %w", area, progress.Page, err)
		}

		// Append immediately, not batched per page, so earlier records
		// survive in the artifact until the failure handler removes it.
		for _, record := range records {
			if err := h.sink.Append(record); err != nil {
				return progress.Count, err
			}
		}
		h.metrics.IncRecords(len(records))

		if !h.ctrl.Advance(progress, len(records)) {
			break
		}
	}

	slog.Info("area complete",
		slog.String("area", area),
		slog.Int("records", progress.Count),
	)
	return progress.Count, nil
}

// fetchPage retrieves one page through the backend with bounded
// retry-and-backoff. Only fetch errors are retried; extraction and sink
// failures abort without a second attempt.
func (h *Harvester) fetchPage(ctx context.Context, locator string, offset int) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= h.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			h.metrics.IncRetries()
			h.sleep(retryBackoff(attempt))
		}

		start := time.Now()
		content, err := h.backend.Fetch(ctx, locator, offset)
		h.metrics.ObserveFetch(time.Since(start))
		if err == nil {
			h.metrics.IncPage(string(h.cfg.Backend))
			return content, nil
		}

		lastErr = err
		slog.Warn("page fetch failed",
			slog.String("locator", locator),
			slog.Int("offset", offset),
			slog.Int("attempt", attempt+1),
			slog.String("error_type", fetch.TypeLabel(err)),
			slog.Any("error", err),
		)
	}
	return nil, lastErr
}

// retryBackoff doubles from a half-second base, capped at ten seconds.
func retryBackoff(attempt int) time.Duration {
	const (
		base    = 500 * time.Millisecond
		ceiling = 10 * time.Second
	)
	delay := base * time.Duration(1<<(attempt-1))
	if delay > ceiling {
		delay = ceiling
	}
	return delay
}

// errorLabel maps a surfaced error onto its taxonomy tag for metrics.
func errorLabel(err error) string {
	var malformed extract.ErrMalformedListing
	if errors.As(err, &malformed) {
		return "malformed_listing"
	}
	var sinkErr sink.ErrSink
	if errors.As(err, &sinkErr) {
		return "sink"
	}
	return fetch.TypeLabel(err)
}
