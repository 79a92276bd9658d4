// Package extract wires the CLI commands to the extraction manager.
package extract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/clipmark/article-extractor/models"
	"github.com/clipmark/article-extractor/pkg/cache"
	"github.com/clipmark/article-extractor/pkg/extractor"
	"github.com/clipmark/article-extractor/pkg/strategy"
)

// Command returns the single-input extract command.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Extract a clean article from a URL or a local HTML file",
		Flags: append(commonFlags(),
			&cli.StringFlag{Name: "url", Usage: "URL to extract"},
			&cli.StringFlag{Name: "file", Usage: "local HTML file to extract"},
			&cli.StringFlag{Name: "source-url", Usage: "source URL hint for --file inputs"},
			&cli.StringFlag{Name: "output", Usage: "write the body to this file instead of stdout"},
		),
		Action: extractAction,
	}
}

// BatchCommand returns the multi-input batch command.
func BatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Extract multiple URLs concurrently",
		Flags: append(commonFlags(),
			&cli.StringFlag{Name: "urls", Usage: "comma-separated list of URLs", Required: true},
			&cli.IntFlag{Name: "concurrency", Usage: "max concurrent extractions", Value: models.DefaultMaxConcurrency},
		),
		Action: batchAction,
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "YAML config with defaults and site rules"},
		&cli.StringFlag{Name: "reader-host", Usage: "remote reader endpoint host", Value: strategy.DefaultReaderHost},
		&cli.StringFlag{Name: "cache-dir", Usage: "directory for the persistent cache (memory-only when unset)"},
		&cli.IntFlag{Name: "min-length", Usage: "minimum content length", Value: models.DefaultMinContentLength},
		&cli.BoolFlag{Name: "aggressive", Usage: "enable the aggressive noise-density pass"},
		&cli.BoolFlag{Name: "plain-text", Usage: "emit plain text instead of markdown"},
		&cli.BoolFlag{Name: "no-cache", Usage: "disable the result cache"},
		&cli.BoolFlag{Name: "quiet", Usage: "only log errors"},
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("quiet") {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func buildOptions(c *cli.Context) (models.ExtractionOptions, string, error) {
	opts := models.ExtractionOptions{CacheEnabled: true}
	readerHost := c.String("reader-host")

	if path := c.String("config"); path != "" {
		cfg, err := models.LoadConfig(path)
		if err != nil {
			return opts, "", err
		}
		opts = cfg.ToOptions()
		if cfg.ReaderHost != "" && !c.IsSet("reader-host") {
			readerHost = cfg.ReaderHost
		}
	}

	if c.IsSet("min-length") || opts.MinContentLength == 0 {
		opts.MinContentLength = c.Int("min-length")
	}
	if c.IsSet("aggressive") {
		opts.Aggressive = c.Bool("aggressive")
	}
	opts.PlainText = c.Bool("plain-text")
	if c.Bool("no-cache") {
		opts.CacheEnabled = false
	}
	if c.IsSet("concurrency") {
		opts.MaxConcurrency = c.Int("concurrency")
	}
	return opts.Normalized(), readerHost, nil
}

func buildManager(c *cli.Context, logger *slog.Logger, readerHost string) (*extractor.Manager, func(), error) {
	var store cache.Cache = cache.NewMemory()
	cleanup := func() {}

	if dir := c.String("cache-dir"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		persistent, err := cache.OpenSQLite(filepath.Join(dir, "extractions.db"))
		if err != nil {
			return nil, nil, err
		}
		store = cache.NewTiered(persistent, 0)
		cleanup = func() { _ = persistent.Close() }
	}

	manager := extractor.NewManager(logger, store,
		strategy.NewRemote(readerHost),
		strategy.NewLocal(),
		strategy.NewDocument(),
	)
	return manager, cleanup, nil
}

func extractAction(c *cli.Context) error {
	logger := newLogger(c)
	opts, readerHost, err := buildOptions(c)
	if err != nil {
		return err
	}

	var input strategy.Input
	switch {
	case c.String("url") != "":
		input = strategy.FromString(c.String("url"))
	case c.String("file") != "":
		data, err := os.ReadFile(c.String("file"))
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		input = strategy.FromMarkup(string(data), c.String("source-url"))
	default:
		return fmt.Errorf("one of --url or --file is required")
	}

	manager, cleanup, err := buildManager(c, logger, readerHost)
	if err != nil {
		return err
	}
	defer cleanup()

	content, err := manager.Extract(c.Context, input, opts)
	if err != nil {
		return err
	}

	logger.Info("extraction finished",
		"title", content.Title,
		"method", content.Metadata.ExtractionMethod,
		"words", content.Metadata.WordCount,
		"quality", content.Metadata.SourceQuality)

	if out := c.String("output"); out != "" {
		if err := os.WriteFile(out, []byte(content.Body), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	fmt.Printf("# %s\n\n%s\n", content.Title, content.Body)
	return nil
}

func batchAction(c *cli.Context) error {
	logger := newLogger(c)
	opts, readerHost, err := buildOptions(c)
	if err != nil {
		return err
	}

	var inputs []strategy.Input
	for _, raw := range strings.Split(c.String("urls"), ",") {
		raw = strings.TrimSpace(raw)
		if raw != "" {
			inputs = append(inputs, strategy.FromString(raw))
		}
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no URLs provided")
	}

	manager, cleanup, err := buildManager(c, logger, readerHost)
	if err != nil {
		return err
	}
	defer cleanup()

	result := manager.ExtractBatch(c.Context, inputs, opts)

	logger.Info("batch finished",
		"processed", result.TotalProcessed,
		"succeeded", len(result.Successful),
		"failed", len(result.Failed),
		"elapsed_ms", result.TotalElapsedMillis)

	for _, content := range result.Successful {
		fmt.Printf("ok\t%s\t%d words\t%s\n",
			content.Title, content.Metadata.WordCount, content.Metadata.SourceQuality)
	}
	for _, failure := range result.Failed {
		fmt.Printf("failed\t%s\t%s\n", failure.Input, failure.Error.Code)
	}
	return nil
}
