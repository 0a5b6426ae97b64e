package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/cache"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/observability"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/plan"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/render/scad"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/stack"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is how long rendered artifacts are cached. Zero means DefaultTTL.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute plans the board and renders every requested format.
// The returned error covers invalid options and unprintable boards; per-task
// render failures are in Result.Failures.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	p, err := r.Plan(ctx, opts)
	if err != nil {
		return nil, err
	}
	planTime := time.Since(start)

	result, err := r.Render(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.PlanTime = planTime
	return result, nil
}

// Plan runs the planning stage.
func (r *Runner) Plan(ctx context.Context, opts Options) (*plan.Plan, error) {
	r.applyLogger(&opts)

	start := time.Now()
	p, err := plan.Build(opts.Board, opts.PlanOptions())
	duration := time.Since(start)

	tiles, stacks := 0, 0
	if p != nil {
		tiles, stacks = p.TileCount(), len(p.Stacks)
	}
	observability.Pipeline().OnPlanComplete(ctx, tiles, stacks, duration, err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("planned board",
		"board", fmt.Sprintf("%dx%d", p.Board.WidthCells, p.Board.HeightCells),
		"tile", p.Size.String(),
		"tiles", tiles,
		"stacks", stacks)
	return p, nil
}

type task struct {
	filename string
	format   string
	stack    *plan.NamedStack
}

// Render produces every requested format for a plan.
func (r *Runner) Render(ctx context.Context, p *plan.Plan, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	var tasks []task
	boardName := BoardName(p, opts.Prefix)
	for _, format := range opts.Formats {
		if IsModelFormat(format) {
			for i := range p.Stacks {
				s := &p.Stacks[i]
				tasks = append(tasks, task{filename: s.Name + "." + format, format: format, stack: s})
			}
			continue
		}
		tasks = append(tasks, task{filename: boardName + "." + format, format: format})
	}

	start := time.Now()
	artifacts := make([]*Artifact, len(tasks))
	failures := make([]*Failure, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	var mu sync.Mutex
	hits := 0

	for i, t := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				failures[i] = &Failure{Filename: t.filename, Format: t.format, Err: err}
				return nil
			}
			a, err := r.runTask(gctx, p, t, opts)
			if err != nil {
				opts.Logger.Error("render failed", "file", t.filename, "error", err)
				failures[i] = &Failure{Filename: t.filename, Format: t.format, Stack: stackName(t), Err: err}
				return nil
			}
			if a.Cached {
				mu.Lock()
				hits++
				mu.Unlock()
			}
			artifacts[i] = a
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Plan: p}
	for i := range tasks {
		if artifacts[i] != nil {
			result.Artifacts = append(result.Artifacts, *artifacts[i])
		}
		if failures[i] != nil {
			result.Failures = append(result.Failures, *failures[i])
		}
	}
	result.Stats = Stats{
		Tiles:      p.TileCount(),
		Stacks:     len(p.Stacks),
		RenderTime: time.Since(start),
		CacheHits:  hits,
	}

	opts.Logger.Info("rendered outputs",
		"artifacts", len(result.Artifacts),
		"failed", len(result.Failures),
		"cached", hits,
		"duration", result.Stats.RenderTime)
	return result, nil
}

func stackName(t task) string {
	if t.stack == nil {
		return ""
	}
	return t.stack.Name
}

func (r *Runner) runTask(ctx context.Context, p *plan.Plan, t task, opts Options) (*Artifact, error) {
	if t.stack != nil {
		data, cached, err := r.compileStack(ctx, t.stack.Stack, t.stack.Name, t.format, opts)
		if err != nil {
			return nil, err
		}
		return &Artifact{Filename: t.filename, Format: t.format, Stack: t.stack.Name, Data: data, Cached: cached}, nil
	}

	data, cached, err := r.drawBoard(ctx, p, t.format, opts)
	if err != nil {
		return nil, err
	}
	return &Artifact{Filename: t.filename, Format: t.format, Data: data, Cached: cached}, nil
}

func (r *Runner) compileStack(ctx context.Context, s stack.Stack, name, format string, opts Options) ([]byte, bool, error) {
	source, err := opts.Compiler.SourceBytes()
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.ModelKey(scad.Param(s), cache.ModelKeyOpts{Format: format, SourceHash: cache.Hash(source)})

	if data, ok := r.cached(ctx, key, "model", opts); ok {
		opts.Logger.Debug("model from cache", "stack", name, "format", format)
		return data, true, nil
	}

	observability.Pipeline().OnCompileStart(ctx, name, format)
	opts.Logger.Info("compiling", "stack", name, "format", format)
	start := time.Now()
	data, err := opts.Compiler.Compile(ctx, s, format)
	observability.Pipeline().OnCompileComplete(ctx, name, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.store(ctx, key, "model", data)
	opts.Logger.Debug("compiled", "stack", name, "format", format, "bytes", len(data), "duration", time.Since(start))
	return data, false, nil
}

func (r *Runner) drawBoard(ctx context.Context, p *plan.Plan, format string, opts Options) ([]byte, bool, error) {
	if format == FormatJSON {
		var buf bytes.Buffer
		err := p.Encode(&buf, plan.FormatJSON)
		return buf.Bytes(), false, err
	}

	layoutData, err := json.Marshal(p.Layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	key := r.Keyer.DrawingKey(cache.Hash(layoutData), cache.DrawingKeyOpts{Format: format, GapMM: opts.GapMM, Title: opts.Title})
	if data, ok := r.cached(ctx, key, "drawing", opts); ok {
		return data, true, nil
	}

	start := time.Now()
	data, err := Draw(ctx, p, format, opts)
	observability.Pipeline().OnDrawingComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, key, "drawing", data)
	return data, false, nil
}

func (r *Runner) cached(ctx context.Context, key, keyType string, opts Options) ([]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte) {
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
