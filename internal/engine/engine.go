// Package engine runs monitor cycles: scrape every source, decide which
// listings are unseen, deliver notifications, and commit confirmed
// fingerprints to the seen set.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sfeuerstein/watch-monitor/internal/metrics"
	"github.com/sfeuerstein/watch-monitor/internal/notify"
	"github.com/sfeuerstein/watch-monitor/internal/scrape"
	"github.com/sfeuerstein/watch-monitor/internal/store"
	"github.com/sfeuerstein/watch-monitor/pkg/identity"
	"github.com/sfeuerstein/watch-monitor/pkg/normalize"
	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

const (
	defaultRetryBackoff = 2 * time.Second
	defaultSendDelay    = time.Second

	// commitTimeout bounds seen-set writes once deliveries are confirmed.
	// Commits run on a context detached from cycle cancellation, so a
	// shutdown mid-cycle never strands a delivered-but-unrecorded batch.
	commitTimeout = 10 * time.Second
)

// ErrCycleInFlight is returned by RunCycle when a cycle is already
// running. Ticks and manual triggers that hit it are skipped, not queued.
var ErrCycleInFlight = errors.New("cycle already in flight")

// Engine orchestrates monitor cycles over a fixed set of sources.
type Engine struct {
	store    store.Store
	scrapers []scrape.Scraper
	norm     *normalize.Normalizer
	notifier notify.Notifier
	log      *slog.Logger

	retryBackoff time.Duration
	sendDelay    time.Duration

	running atomic.Bool
}

// NewEngine creates an Engine with injected dependencies.
func NewEngine(
	s store.Store,
	scrapers []scrape.Scraper,
	norm *normalize.Normalizer,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:        s,
		scrapers:     scrapers,
		norm:         norm,
		notifier:     n,
		log:          slog.Default(),
		retryBackoff: defaultRetryBackoff,
		sendDelay:    defaultSendDelay,
	}
	if eng.norm == nil {
		eng.norm = normalize.New(nil)
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithRetryBackoff sets the wait before a failed source is retried.
func WithRetryBackoff(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.retryBackoff = d
	}
}

// WithSendDelay sets the pause between consecutive notifications.
func WithSendDelay(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.sendDelay = d
	}
}

// Running reports whether a cycle is currently in flight.
func (eng *Engine) Running() bool {
	return eng.running.Load()
}

// sourceResult is what one scrape task hands back to the cycle.
type sourceResult struct {
	source   domain.Source
	listings []domain.RawListing
	err      error
}

// decision is the outcome of the decide phase for one source.
type decision struct {
	source     domain.Source
	bootstrap  bool
	seenBefore int64
	seeds      []domain.SeenRecord        // bootstrap-only, no notifications
	events     []domain.NotificationEvent // unseen listings, page order
}

// RunCycle executes one full monitor cycle. Source failures are isolated
// and retried once; a storage failure aborts all further commits so that
// nothing is marked seen on a backend that is failing. Overlapping
// invocations are rejected with ErrCycleInFlight.
func (eng *Engine) RunCycle(ctx context.Context) error {
	if !eng.running.CompareAndSwap(false, true) {
		metrics.CycleSkippedTotal.Inc()
		return ErrCycleInFlight
	}
	defer eng.running.Store(false)

	metrics.CyclesTotal.Inc()
	start := time.Now()
	defer func() {
		metrics.CycleDuration.Observe(time.Since(start).Seconds())
	}()

	// Best effort: a missing run record never affects dedup.
	runID, err := eng.store.InsertCycleRun(ctx, start.UTC())
	if err != nil {
		eng.log.Warn("recording cycle run failed", "error", err)
	}

	eng.log.Info("cycle starting", "sources", len(eng.scrapers))

	results := eng.scrapeAll(ctx)

	run := &domain.CycleRun{
		ID:        runID,
		StartedAt: start.UTC(),
		Status:    domain.RunStatusCompleted,
	}
	cycleErr := eng.processResults(ctx, results, run)
	if cycleErr != nil {
		run.Status = domain.RunStatusFailed
		run.ErrorText = cycleErr.Error()
	}

	eng.finishRun(ctx, run)

	eng.log.Info("cycle complete",
		"sources_ok", run.SourcesOK,
		"sources_failed", run.SourcesFailed,
		"listings", run.Listings,
		"new", run.NewListings,
		"notified", run.Notified,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return cycleErr
}

// scrapeAll fans out one task per source and waits for all of them. Each
// result carries either the source's listings or its final error; a
// failed source never aborts the cycle.
func (eng *Engine) scrapeAll(ctx context.Context) []sourceResult {
	results := make([]sourceResult, len(eng.scrapers))

	g, gctx := errgroup.WithContext(ctx)
	for i, sc := range eng.scrapers {
		g.Go(func() error {
			results[i] = eng.scrapeSource(gctx, sc)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// scrapeSource runs one source's scrape, retrying once after
// retryBackoff on any failure except cancellation.
func (eng *Engine) scrapeSource(ctx context.Context, sc scrape.Scraper) sourceResult {
	src := sc.Source()
	start := time.Now()
	defer func() {
		metrics.SourceScrapeDuration.WithLabelValues(src.Key).Observe(time.Since(start).Seconds())
	}()

	listings, err := sc.Scrape(ctx)
	if err != nil && ctx.Err() == nil {
		metrics.SourceRetriesTotal.WithLabelValues(src.Key).Inc()
		eng.log.Warn("scrape failed, retrying once",
			"source", src.Key, "backoff", eng.retryBackoff, "error", err)

		select {
		case <-ctx.Done():
			err = ctx.Err()
		case <-time.After(eng.retryBackoff):
			listings, err = sc.Scrape(ctx)
		}
	}

	if err != nil {
		if ctx.Err() == nil {
			metrics.SourceFailuresTotal.WithLabelValues(src.Key).Inc()
			eng.log.Error("source failed this cycle", "source", src.Key, "error", err)
		}
		return sourceResult{source: src, err: err}
	}

	metrics.SourceListingsTotal.WithLabelValues(src.Key).Add(float64(len(listings)))
	eng.log.Info("source scraped", "source", src.Key, "listings", len(listings))
	return sourceResult{source: src, listings: listings}
}

// processResults walks sources in adapter order through decide, notify,
// and commit. The first storage failure stops the walk: nothing further
// is delivered or committed, while batches already committed stay.
func (eng *Engine) processResults(ctx context.Context, results []sourceResult, run *domain.CycleRun) error {
	now := time.Now().UTC()

	for i := range results {
		if err := ctx.Err(); err != nil {
			return err
		}

		res := &results[i]
		if res.err != nil {
			run.SourcesFailed++
			continue
		}
		run.SourcesOK++
		run.Listings += len(res.listings)

		d, err := eng.decideSource(ctx, res.source, res.listings, now)
		if err != nil {
			metrics.StorageErrorsTotal.Inc()
			eng.log.Error("seen-set read failed, aborting cycle commits",
				"source", res.source.Key, "error", err)
			return err
		}

		if d.bootstrap {
			if err := eng.commitBootstrap(ctx, d); err != nil {
				return err
			}
			continue
		}

		run.NewListings += len(d.events)
		confirmed := eng.deliver(ctx, d)
		run.Notified += len(confirmed)

		if err := eng.commitConfirmed(ctx, d, confirmed); err != nil {
			return err
		}
	}

	return nil
}

// decideSource normalizes one source's listings and splits them into
// bootstrap seeds or notification events. Intra-cycle duplicates of a
// fingerprint collapse to their first occurrence.
func (eng *Engine) decideSource(
	ctx context.Context,
	src domain.Source,
	raws []domain.RawListing,
	now time.Time,
) (*decision, error) {
	seenBefore, err := eng.store.SeenCount(ctx, src.Key)
	if err != nil {
		return nil, fmt.Errorf("counting seen records for %s: %w", src.Key, err)
	}

	d := &decision{
		source:     src,
		bootstrap:  seenBefore == 0,
		seenBefore: seenBefore,
	}

	inCycle := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		listing, convErr := eng.norm.Canonical(ctx, raw)
		if convErr != nil {
			eng.log.Warn("price conversion degraded",
				"source", src.Key, "listing", listing.DisplayTitle(), "error", convErr)
		}

		fp := identity.Fingerprint(&listing)
		if _, dup := inCycle[fp]; dup {
			continue
		}
		inCycle[fp] = struct{}{}

		if d.bootstrap {
			d.seeds = append(d.seeds, domain.SeenRecord{
				SourceKey:   src.Key,
				Fingerprint: fp,
				FirstSeenAt: now,
			})
			continue
		}

		seen, err := eng.store.SeenExists(ctx, src.Key, fp)
		if err != nil {
			return nil, fmt.Errorf("checking seen set for %s: %w", src.Key, err)
		}
		if seen {
			continue
		}

		metrics.NewListingsTotal.WithLabelValues(src.Key).Inc()
		d.events = append(d.events, domain.NotificationEvent{
			Listing:     listing,
			Source:      src,
			Fingerprint: fp,
			DetectedAt:  now,
		})
	}

	return d, nil
}

// deliver sends one notification per event, pausing sendDelay between
// consecutive sends. Only confirmed deliveries become seen records; a
// failed send leaves its fingerprint unseen so the listing is retried
// next cycle. Cancellation stops further sends, never un-confirms.
func (eng *Engine) deliver(ctx context.Context, d *decision) []domain.SeenRecord {
	confirmed := make([]domain.SeenRecord, 0, len(d.events))

	for i := range d.events {
		if ctx.Err() != nil {
			return confirmed
		}
		if i > 0 && eng.sendDelay > 0 {
			select {
			case <-ctx.Done():
				return confirmed
			case <-time.After(eng.sendDelay):
			}
		}

		ev := &d.events[i]
		if err := eng.notifier.Notify(ctx, *ev); err != nil {
			metrics.NotificationFailuresTotal.WithLabelValues(d.source.Key).Inc()
			eng.log.Error("notification failed",
				"source", d.source.Key, "listing", ev.Listing.DisplayTitle(), "error", err)
			continue
		}

		metrics.NotificationsSentTotal.WithLabelValues(d.source.Key).Inc()
		eng.log.Info("new listing notified",
			"source", d.source.Key,
			"listing", ev.Listing.DisplayTitle(),
			"price", ev.Listing.DisplayPrice,
		)
		confirmed = append(confirmed, domain.SeenRecord{
			SourceKey:   d.source.Key,
			Fingerprint: ev.Fingerprint,
			FirstSeenAt: ev.DetectedAt,
		})
	}

	return confirmed
}

// commitBootstrap seeds a source's entire visible inventory without
// notifying. The first cycle for a source only observes.
func (eng *Engine) commitBootstrap(ctx context.Context, d *decision) error {
	inserted, err := eng.commitSeen(ctx, d.seeds)
	if err != nil {
		metrics.StorageErrorsTotal.Inc()
		eng.log.Error("bootstrap seeding failed, aborting cycle commits",
			"source", d.source.Key, "error", err)
		return fmt.Errorf("seeding %s: %w", d.source.Key, err)
	}

	metrics.BootstrapSeedsTotal.WithLabelValues(d.source.Key).Add(float64(inserted))
	metrics.SeenSetSize.WithLabelValues(d.source.Key).Set(float64(inserted))
	eng.log.Info("source bootstrapped, observe-only cycle",
		"source", d.source.Key, "seeded", inserted)
	return nil
}

// commitConfirmed records the fingerprints whose notifications were
// confirmed delivered.
func (eng *Engine) commitConfirmed(ctx context.Context, d *decision, confirmed []domain.SeenRecord) error {
	inserted, err := eng.commitSeen(ctx, confirmed)
	if err != nil {
		metrics.StorageErrorsTotal.Inc()
		eng.log.Error("seen-set commit failed, aborting cycle commits",
			"source", d.source.Key, "error", err)
		return fmt.Errorf("committing %s: %w", d.source.Key, err)
	}

	metrics.SeenSetSize.WithLabelValues(d.source.Key).Set(float64(d.seenBefore + int64(inserted)))
	return nil
}

// commitSeen writes a batch on a context detached from cycle
// cancellation: confirmed deliveries must be recorded even when the
// cycle is being cut off.
func (eng *Engine) commitSeen(ctx context.Context, records []domain.SeenRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()
	return eng.store.InsertSeenBatch(cctx, records)
}

// finishRun closes the cycle's run record. Best effort, detached from
// cancellation: a failed write is logged and never fails the cycle.
func (eng *Engine) finishRun(ctx context.Context, run *domain.CycleRun) {
	if run.ID == "" {
		return
	}
	done := time.Now().UTC()
	run.CompletedAt = &done

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()
	if err := eng.store.FinishCycleRun(fctx, run); err != nil {
		eng.log.Warn("finishing cycle run failed", "run", run.ID, "error", err)
	}
}
