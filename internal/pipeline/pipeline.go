package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"imgprep/internal/config"
	"imgprep/internal/htmlpatch"
	"imgprep/internal/imageset"
	"imgprep/internal/logging"
	"imgprep/internal/outdir"
	"imgprep/internal/preflight"
	"imgprep/internal/variants"
)

// Runner executes pipeline runs for a fixed configuration.
type Runner struct {
	cfg *config.Config
	// base is handed to the stages so each adds its own component.
	base     *slog.Logger
	logger   *slog.Logger
	encoders variants.Encoders
}

// Option configures optional Runner behavior.
type Option func(*Runner)

// WithEncoders swaps the production encoder set, mainly for tests.
func WithEncoders(encoders variants.Encoders) Option {
	return func(r *Runner) {
		r.encoders = encoders
	}
}

// New constructs a Runner. A nil logger discards output.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:    cfg,
		base:   logger,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one full pass: lock, preflight, wipe, generate, patch.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)
	summary := Summary{RunID: runID, OutputDir: r.cfg.Paths.OutputDir}

	genOpts, err := GeneratorOptions(r.cfg)
	if err != nil {
		return summary, err
	}
	gen, err := variants.NewGenerator(genOpts, r.encoders, r.base)
	if err != nil {
		return summary, fmt.Errorf("build generator: %w", err)
	}

	lock, err := outdir.Acquire(r.cfg.Paths.OutputDir)
	if err != nil {
		return summary, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release output lock", logging.Error(err), logging.String("lock", lock.Path()))
		}
	}()

	if err := r.runPreflightChecks(logger); err != nil {
		return summary, err
	}

	if err := outdir.Reset(r.cfg.Paths.OutputDir, r.protectedPaths()); err != nil {
		return summary, err
	}
	logger.Debug("output directory reset", logging.String("path", r.cfg.Paths.OutputDir))

	sources, skipped := collectSources(r.cfg.Paths.Inputs, logger)
	summary.Skipped = skipped
	logger.Info("processing images",
		logging.Int("images", len(sources)),
		logging.Int("jobs", r.cfg.Workflow.Jobs),
		logging.String("output", r.cfg.Paths.OutputDir),
	)

	results, err := process(ctx, sources, r.cfg.Workflow.Jobs, func(ctx context.Context, src imageset.Source) (variants.Result, error) {
		imageStart := time.Now()
		res, err := gen.Generate(ctx, src, r.cfg.Paths.OutputDir)
		if err != nil {
			return res, err
		}
		logger.Info("image processed",
			logging.String(logging.FieldImage, src.Name),
			logging.Int("files", len(res.Files)),
			logging.String("size", humanize.IBytes(uint64(res.TotalBytes()))),
			logging.Duration("duration", time.Since(imageStart)),
		)
		return res, nil
	})
	if err != nil {
		logger.Error("run failed", logging.Error(err), logging.String(logging.FieldEventType, "run_failed"))
		return summary, err
	}

	placeholders := make(map[string]string, len(results))
	for _, res := range results {
		row := summarize(res)
		summary.Images = append(summary.Images, row)
		summary.Files += row.Files
		summary.Bytes += row.Bytes
		if res.Placeholder != "" {
			placeholders[res.Source.Stem] = res.Placeholder
		}
	}

	if r.cfg.PatchHTML() && len(placeholders) > 0 {
		patcher := htmlpatch.New(genOpts.Table.Labels(), logging.WithContext(ctx, r.base))
		report, err := patcher.PatchFile(r.cfg.Paths.HTMLFile, placeholders)
		if err != nil {
			return summary, err
		}
		summary.HTML = &report
		if report.Written {
			logger.Info("html document patched",
				logging.String("path", r.cfg.Paths.HTMLFile),
				logging.Int("placeholders", len(report.Patched)),
				logging.Int("not_found", len(report.NotFound)),
			)
		}
	}

	summary.Duration = time.Since(start)
	logger.Info("run complete",
		logging.Int("images", len(summary.Images)),
		logging.Int("files", summary.Files),
		logging.String("size", humanize.IBytes(uint64(summary.Bytes))),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// protectedPaths lists what the output reset must never delete.
func (r *Runner) protectedPaths() []string {
	paths := append([]string(nil), r.cfg.Paths.Inputs...)
	if r.cfg.PatchHTML() {
		paths = append(paths, r.cfg.Paths.HTMLFile)
	}
	return paths
}

// runPreflightChecks logs every failed check and returns an error only for
// fatal failures.
func (r *Runner) runPreflightChecks(logger *slog.Logger) error {
	results := preflight.RunAll(r.cfg)
	for _, res := range results {
		if res.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", res.Name),
				logging.String("detail", res.Detail),
			)
			continue
		}
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", res.Name),
			logging.String("detail", res.Detail),
			logging.Bool("fatal", res.Fatal),
			logging.String(logging.FieldErrorHint, "run 'imgprep check' for details"),
		)
	}
	return preflight.Err(results)
}

// collectSources enumerates inputs, dropping repeated paths silently and
// repeated stems with a warning since their outputs would collide.
func collectSources(inputs []string, logger *slog.Logger) ([]imageset.Source, []string) {
	var (
		sources []imageset.Source
		skipped []string
	)
	seenPaths := make(map[string]struct{})
	seenStems := make(map[string]string)
	for src := range imageset.Collect(inputs) {
		abs, err := filepath.Abs(src.Path)
		if err != nil {
			abs = src.Path
		}
		if _, dup := seenPaths[abs]; dup {
			continue
		}
		seenPaths[abs] = struct{}{}

		if first, dup := seenStems[src.Stem]; dup {
			logging.WarnWithContext(logger, "duplicate image stem skipped", "duplicate_stem",
				logging.String(logging.FieldImage, src.Name),
				logging.String("path", src.Path),
				logging.String("kept", first),
				logging.String(logging.FieldErrorHint, "rename one of the images so outputs do not collide"),
			)
			skipped = append(skipped, src.Path)
			continue
		}
		seenStems[src.Stem] = src.Path
		sources = append(sources, src)
	}
	return sources, skipped
}
