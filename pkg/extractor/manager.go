// Package extractor orchestrates the extraction strategies: cache check,
// priority-ordered fallback, bounded-concurrency batch runs, and progress
// reporting.
package extractor

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/clipmark/article-extractor/models"
	"github.com/clipmark/article-extractor/pkg/cache"
	"github.com/clipmark/article-extractor/pkg/strategy"
)

// Manager holds the ordered strategy list and the cache. It is safe for
// concurrent use; each extraction builds its own document tree.
type Manager struct {
	logger     *slog.Logger
	cache      cache.Cache
	strategies []strategy.Strategy
}

// NewManager builds a manager. Strategies are sorted by descending priority;
// equal priorities keep registration order. The cache may be nil to disable
// caching entirely.
func NewManager(logger *slog.Logger, c cache.Cache, strategies ...strategy.Strategy) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ordered := make([]strategy.Strategy, len(strategies))
	copy(ordered, strategies)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() > ordered[j].Priority()
	})
	return &Manager{logger: logger, cache: c, strategies: ordered}
}

// Extract runs the fallback protocol: strategies are tried in priority order
// until one succeeds. It fails with UNSUPPORTED_FORMAT when no strategy
// declares support, and EXTRACTION_FAILED when every eligible strategy failed.
func (m *Manager) Extract(ctx context.Context, input strategy.Input, opts models.ExtractionOptions) (*models.ExtractedContent, error) {
	opts = opts.Normalized()
	described := input.Describe()

	var key string
	if opts.CacheEnabled && m.cache != nil && input.CacheText() != "" {
		key = cache.Key(input.CacheText(), opts)
		content, ok, err := m.cache.Get(ctx, key)
		if err != nil {
			m.logger.Warn("cache read failed", "input", described, "error", err)
		} else if ok {
			m.emit(opts, models.StageComplete, 100, "served from cache", described)
			return content, nil
		}
	}

	var lastErr error
	for _, s := range m.strategies {
		if !s.Supports(input) {
			continue
		}

		m.emit(opts, models.StageParsing, 10, "trying strategy "+string(s.Name()), described)
		result, err := s.Extract(ctx, input, opts)
		if err != nil {
			lastErr = err
			m.logger.Warn("strategy failed",
				"strategy", s.Name(), "input", described, "error", err)
			if opts.OnError != nil {
				opts.OnError(models.AsExtractionError(err, described))
			}
			// A caller-initiated abort takes precedence over fallback.
			if ctx.Err() != nil {
				break
			}
			continue
		}

		m.emit(opts, models.StageConverting, 80, "strategy succeeded", described)
		if key != "" {
			m.writeCacheDetached(ctx, key, result, opts.CacheTTL, described)
		}
		m.emit(opts, models.StageComplete, 100, "extraction complete", described)
		return result, nil
	}

	if lastErr == nil {
		return nil, models.NewError(models.ErrUnsupportedFormat, described, "no strategy supports this input")
	}
	return nil, models.WrapError(models.ErrExtractionFailed, described, "all strategies failed", lastErr)
}

// writeCacheDetached writes the cache entry in the background so the caller's
// result is never delayed by cache I/O. Write failures are logged, never
// surfaced.
func (m *Manager) writeCacheDetached(ctx context.Context, key string, content *models.ExtractedContent, ttl time.Duration, described string) {
	bg := context.WithoutCancel(ctx)
	go func() {
		if err := m.cache.Set(bg, key, content, ttl); err != nil {
			m.logger.Warn("cache write failed", "input", described, "error", err)
		}
	}()
}

func (m *Manager) emit(opts models.ExtractionOptions, stage models.Stage, percent int, message, input string) {
	if opts.OnProgress == nil {
		return
	}
	opts.OnProgress(models.ExtractionProgress{
		Stage:        stage,
		Percent:      percent,
		Message:      message,
		CurrentInput: input,
	})
}

type batchJob struct {
	index int
	input strategy.Input
}

type batchOutcome struct {
	input   strategy.Input
	content *models.ExtractedContent
	err     error
}

// ExtractBatch fans inputs out across at most MaxConcurrency workers. It
// never fails as a whole: per-item failures are collected in the result's
// Failed list. Batch progress is a non-decreasing function of completed
// items.
func (m *Manager) ExtractBatch(ctx context.Context, inputs []strategy.Input, opts models.ExtractionOptions) *models.BatchExtractionResult {
	opts = opts.Normalized()
	start := time.Now()
	out := &models.BatchExtractionResult{}
	if len(inputs) == 0 {
		return out
	}

	workers := opts.MaxConcurrency
	if workers > len(inputs) {
		workers = len(inputs)
	}

	// Per-item progress is folded into the batch-level percentage.
	itemOpts := opts
	itemOpts.OnProgress = nil

	jobs := make(chan batchJob, len(inputs))
	outcomes := make(chan batchOutcome, len(inputs))

	var wg sync.WaitGroup
	var progressMu sync.Mutex
	completed := 0

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for job := range jobs {
				m.logger.Info("batch worker started item",
					"worker_id", id, "input", job.input.Describe())
				content, err := m.Extract(ctx, job.input, itemOpts)

				progressMu.Lock()
				completed++
				m.emit(opts, models.StageComplete, completed*100/len(inputs),
					"batch item finished", job.input.Describe())
				progressMu.Unlock()

				outcomes <- batchOutcome{input: job.input, content: content, err: err}
			}
		}(w)
	}

	for i, input := range inputs {
		jobs <- batchJob{index: i, input: input}
	}
	close(jobs)

	wg.Wait()
	close(outcomes)

	for outcome := range outcomes {
		out.TotalProcessed++
		if outcome.err != nil {
			out.Failed = append(out.Failed, models.BatchFailure{
				Input: outcome.input.Describe(),
				Error: models.AsExtractionError(outcome.err, outcome.input.Describe()),
			})
			continue
		}
		out.Successful = append(out.Successful, outcome.content)
	}

	out.TotalElapsedMillis = time.Since(start).Milliseconds()
	return out
}
