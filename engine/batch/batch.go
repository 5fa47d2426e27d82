// Package batch analyzes directories of force-curve files on a bounded
// worker pool. Per-curve failures become failed records, never pool
// failures: one bad export must not sink a thousand-curve session.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/loader"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/pipeline"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/engine/sink"
	"github.com/karinaurazova/AFM-nanoindentation-data-analysis/pkg/logger"
)

// Runner fans curve files out to pipeline workers.
type Runner struct {
	fs       afero.Fs
	loader   loader.Loader
	pipeline *pipeline.Pipeline
	workers  int
}

// New builds a Runner. A nil fs means the OS filesystem; workers below 1
// behave as 1.
func New(fs afero.Fs, ld loader.Loader, p *pipeline.Pipeline, workers int) Runner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if workers < 1 {
		workers = 1
	}
	return Runner{fs: fs, loader: ld, pipeline: p, workers: workers}
}

// Run analyzes every file under dir matching pattern and returns one record
// per file, in lexical input order. The returned error covers only the walk
// itself and context cancellation; per-curve failures live in the records.
func (r Runner) Run(ctx context.Context, dir, pattern string) ([]sink.Record, error) {
	paths, err := afero.Glob(r.fs, filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s in %s: %w", pattern, dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files matching %s in %s", pattern, dir)
	}
	sort.Strings(paths)

	log := logger.FromContext(ctx)
	log.Info("starting batch run", "files", len(paths), "workers", r.workers)

	records := make([]sink.Record, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records[i] = r.analyzeOne(ctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, rec := range records {
		if rec.Err != nil {
			failed++
		}
	}
	log.Info("batch run finished", "files", len(paths), "failed", failed)
	return records, nil
}

func (r Runner) analyzeOne(ctx context.Context, path string) sink.Record {
	log := logger.FromContext(ctx).With("source", path)

	cy, err := r.loader.Load(path)
	if err != nil {
		log.Warn("load failed", "error", err)
		return sink.Record{Source: path, Err: err}
	}

	result, err := r.pipeline.Analyze(logger.ContextWithLogger(ctx, log), cy.Approach, cy.Retract)
	if err != nil {
		log.Warn("analysis failed", "error", err)
		return sink.Record{Source: path, Err: err}
	}
	result.Source = path
	return sink.Record{Source: path, Result: result}
}
