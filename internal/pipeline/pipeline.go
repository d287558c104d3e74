// internal/pipeline/pipeline.go

// Package pipeline runs a full scrape: catalog in, validated and
// deduplicated vehicle records out. Sources are processed one at a
// time, the checkpoint is saved after each, and accepted records
// stream to the output backend as they arrive, so a crash costs at
// most the source in flight.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evscout/evscout/internal/browser"
	"github.com/evscout/evscout/internal/checkpoint"
	"github.com/evscout/evscout/internal/config"
	"github.com/evscout/evscout/internal/dedupe"
	"github.com/evscout/evscout/internal/monitoring"
	"github.com/evscout/evscout/internal/output"
	"github.com/evscout/evscout/internal/scraper"
	"github.com/evscout/evscout/internal/sources"
	"github.com/evscout/evscout/internal/utils"
	"github.com/evscout/evscout/internal/validator"
	"github.com/evscout/evscout/internal/vehicle"
)

// Summary reports the outcome of one run.
type Summary struct {
	Sources          int
	SourcesSkipped   int
	SourcesFailed    int
	RecordsExtracted int
	RecordsAccepted  int
	RecordsRejected  int
	Duplicates       int
	RecordsWritten   int
	Resumed          bool
	Elapsed          time.Duration
	Report           *validator.Report
}

// Runner owns the collaborators of one run.
type Runner struct {
	cfg     *config.Config
	logger  utils.Logger
	metrics *monitoring.Metrics

	// newFetcher is swappable for tests
	newFetcher func() (scraper.Fetcher, func(), error)
	newWriter  func(output.Config) (output.Writer, error)

	mu         sync.Mutex
	current    string
	currentSrc string
	done       int
	total      int
	records    int
	started    time.Time
}

// NewRunner builds a runner from validated configuration.
func NewRunner(cfg *config.Config, logger utils.Logger) *Runner {
	if logger == nil {
		logger = utils.NewLogger()
	}
	r := &Runner{
		cfg:       cfg,
		logger:    logger,
		metrics:   monitoring.NewMetrics(),
		newWriter: output.NewWriter,
	}
	r.newFetcher = r.defaultFetcher
	return r
}

// defaultFetcher picks headless Chrome when the browser is enabled,
// the plain HTTP client otherwise.
func (r *Runner) defaultFetcher() (scraper.Fetcher, func(), error) {
	if b := r.cfg.Browser; b != nil && b.Enabled {
		f, err := browser.New(browser.Config{
			Headless:      b.Headless,
			Timeout:       b.Timeout,
			UserAgent:     b.UserAgent,
			WaitDelay:     b.WaitDelay,
			DisableImages: b.DisableImages,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("starting browser: %w", err)
		}
		return f, func() { f.Close() }, nil
	}

	s := r.cfg.Scraping
	c := scraper.NewHTTPClient(scraper.ClientConfig{
		Timeout:       s.RequestTimeout,
		RetryAttempts: s.RetryAttempts,
		RetryDelay:    s.RetryDelay,
		UserAgents:    s.UserAgents,
		RateLimit:     s.RateLimit,
		RateBurst:     s.RateBurst,
		MinDelay:      s.MinDelay,
		MaxDelay:      s.MaxDelay,
		Logger:        r.logger,
	})
	return c, func() {}, nil
}

// Run executes the pipeline. The returned summary is valid even when
// err is non-nil, describing everything completed before the failure.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Report: validator.NewReport()}

	catalog, err := sources.LoadCSV(r.cfg.CatalogPath, r.logger)
	if err != nil {
		return summary, err
	}
	if len(catalog) == 0 {
		return summary, fmt.Errorf("catalog %s contains no usable sources", r.cfg.CatalogPath)
	}
	summary.Sources = len(catalog)

	cp := checkpoint.NewManager(r.cfg.Checkpoint.Path, r.logger)
	if !r.cfg.Checkpoint.Disabled && cp.Load() {
		summary.Resumed = true
		progress := cp.GetProgress()
		r.logger.Infof("Resuming: %d sources done, %d listings restored",
			progress.CompletedSources, progress.ScrapedListings)
	}

	r.mu.Lock()
	r.total = len(catalog)
	r.started = start
	r.mu.Unlock()

	var server *monitoring.Server
	if r.cfg.Monitoring.Enabled {
		server = monitoring.NewServer(r.cfg.Monitoring.ListenAddr, r.metrics, r.progressSnapshot, r.logger)
		server.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
	}

	writer, err := r.newWriter(r.cfg.Output)
	if err != nil {
		return summary, fmt.Errorf("opening output: %w", err)
	}
	defer writer.Close()

	fetcher, closeFetcher, err := r.newFetcher()
	if err != nil {
		return summary, err
	}
	defer closeFetcher()

	fetcher = &countingFetcher{inner: fetcher, runner: r}
	adapter := scraper.NewGenericAdapter(fetcher, r.cfg.Scraping.MaxPages, r.logger)
	sc := scraper.NewScraper(fetcher, adapter, r.logger)
	sc.MaxListings = r.cfg.Scraping.MaxListings

	// The output file is recreated each run, so restored listings are
	// re-emitted first and seed the duplicate index.
	index := dedupe.NewIndex()
	restored, stats := dedupe.Deduplicate(cp.Listings(), r.cfg.Dedupe.PreferLatest)
	index.Seed(restored)
	if len(restored) > 0 {
		if err := writer.Append(restored); err != nil {
			return summary, fmt.Errorf("re-emitting checkpoint listings: %w", err)
		}
		summary.RecordsWritten += len(restored)
	}
	summary.Duplicates += stats.DuplicatesByVIN + stats.DuplicatesByURL

	for _, src := range catalog {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}

		if cp.IsCompleted(src.ID) {
			r.logger.Infof("Skipping %s: already completed", src.Name)
			r.metrics.SourcesSkipped.Inc()
			summary.SourcesSkipped++
			r.advance(src.Name, 0)
			continue
		}

		r.setCurrent(src.ID, src.Name)
		srcStart := time.Now()

		records, err := sc.ScrapeSource(ctx, src)
		if err != nil {
			if ctx.Err() != nil {
				summary.Elapsed = time.Since(start)
				return summary, ctx.Err()
			}
			// Dead or blocking sites stay failed across retries, so
			// mark them done rather than stalling every resume.
			r.logger.Warnf("Source %s failed, marking completed: %v", src.Name, err)
			summary.SourcesFailed++
		}
		summary.RecordsExtracted += len(records)
		r.metrics.RecordsExtracted.WithLabelValues(src.ID).Add(float64(len(records)))

		accepted := r.filter(src, records, summary)
		fresh := make([]*vehicle.Record, 0, len(accepted))
		for _, rec := range accepted {
			if !index.Admit(rec) {
				summary.Duplicates++
				r.metrics.Duplicates.Inc()
				continue
			}
			cp.AddListing(rec)
			fresh = append(fresh, rec)
		}

		if len(fresh) > 0 {
			if err := writer.Append(fresh); err != nil {
				summary.Elapsed = time.Since(start)
				return summary, fmt.Errorf("writing records for %s: %w", src.Name, err)
			}
			summary.RecordsWritten += len(fresh)
		}

		cp.MarkCompleted(src.ID)
		if !r.cfg.Checkpoint.Disabled {
			if err := cp.Save(cp.CompletedSources(), cp.Listings()); err != nil {
				r.logger.Errorf("Checkpoint save failed: %v", err)
			} else {
				r.metrics.CheckpointSaves.Inc()
			}
		}

		r.metrics.SourcesCompleted.Inc()
		r.metrics.SourceDuration.WithLabelValues(src.ID).Observe(time.Since(srcStart).Seconds())
		r.advance(src.Name, len(fresh))
		r.logger.Infof("Source %s done: %d records (%d new) in %s",
			src.Name, len(records), len(fresh), time.Since(srcStart).Round(time.Second))
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

// filter applies validation and updates counters.
func (r *Runner) filter(src sources.Source, records []*vehicle.Record, summary *Summary) []*vehicle.Record {
	accepted := make([]*vehicle.Record, 0, len(records))
	for _, rec := range records {
		valid, issues := validator.Validate(rec, r.cfg.Validation.Strict)
		summary.Report.Add(rec, valid, issues)
		if !valid {
			summary.RecordsRejected++
			r.metrics.RecordsRejected.Inc()
			r.logger.Debugf("Rejected %d %s %s from %s: %v",
				rec.Year, rec.Make, rec.Model, src.Name, issues)
			continue
		}
		summary.RecordsAccepted++
		r.metrics.RecordsAccepted.Inc()
		accepted = append(accepted, rec)
	}
	return accepted
}

// countingFetcher feeds per-source fetch metrics without the scraper
// layer knowing about Prometheus.
type countingFetcher struct {
	inner  scraper.Fetcher
	runner *Runner
}

func (c *countingFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	html, err := c.inner.Fetch(ctx, pageURL)
	label := c.runner.currentID()
	if err != nil {
		c.runner.metrics.FetchErrors.WithLabelValues(label).Inc()
		return "", err
	}
	c.runner.metrics.PagesFetched.WithLabelValues(label).Inc()
	return html, nil
}

func (r *Runner) setCurrent(id, name string) {
	r.mu.Lock()
	r.current = name
	r.currentSrc = id
	r.mu.Unlock()
}

func (r *Runner) currentID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.currentSrc == "" {
		return "unknown"
	}
	return r.currentSrc
}

func (r *Runner) advance(name string, newRecords int) {
	r.mu.Lock()
	if r.current == name {
		r.current = ""
	}
	r.done++
	r.records += newRecords
	r.mu.Unlock()
}

func (r *Runner) progressSnapshot() monitoring.ProgressSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return monitoring.ProgressSnapshot{
		CompletedSources: r.done,
		TotalSources:     r.total,
		Records:          r.records,
		CurrentSource:    r.current,
		StartedAt:        r.started,
	}
}
