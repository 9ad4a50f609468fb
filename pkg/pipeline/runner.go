package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svcmap/pkg/cache"
	"github.com/matzehuels/svcmap/pkg/layout"
	"github.com/matzehuels/svcmap/pkg/observability"
	"github.com/matzehuels/svcmap/pkg/topology"
)

// Cache key types reported to observability hooks.
const (
	keyTypeFrame    = "frame"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default lifetime of cache entries when positive.
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

// Execute runs the frame → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, snap topology.Snapshot, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	prepared, err := Prepare(snap)
	if err != nil {
		return nil, err
	}
	result := &Result{Snapshot: prepared}
	result.Stats.Services = len(prepared.Services)
	result.Stats.Links = len(prepared.Links)

	layoutStart := time.Now()
	frame, hit, err := r.frame(ctx, prepared, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Frame = frame
	result.SnapshotHash = hashSnapshot(prepared)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Cards = len(frame.Cards)
	result.Stats.Pending = len(frame.Pending)
	result.Stats.Arrows = len(frame.Arrows)
	result.CacheInfo.FrameHit = hit

	r.Logger.Info("computed frame",
		"cards", len(frame.Cards),
		"arrows", len(frame.Arrows),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.render(ctx, prepared, frame, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.FrameHash = hashFrame(frame)
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Prepare returns a normalized, validated copy of snap. The caller's slices
// are not modified.
func Prepare(snap topology.Snapshot) (topology.Snapshot, error) {
	out := topology.Snapshot{
		Services: slices.Clone(snap.Services),
		Links:    slices.Clone(snap.Links),
	}
	out.Normalize()
	if err := out.Validate(); err != nil {
		return topology.Snapshot{}, err
	}
	return out, nil
}

// FrameWithCacheInfo computes the frame of snap with caching and returns
// cache hit info.
func (r *Runner) FrameWithCacheInfo(ctx context.Context, snap topology.Snapshot, opts Options) (*layout.Frame, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	prepared, err := Prepare(snap)
	if err != nil {
		return nil, false, err
	}
	return r.frame(ctx, prepared, opts)
}

// Frame is a convenience wrapper that calls FrameWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Frame(ctx context.Context, snap topology.Snapshot, opts Options) (*layout.Frame, error) {
	f, _, err := r.FrameWithCacheInfo(ctx, snap, opts)
	return f, err
}

func (r *Runner) frame(ctx context.Context, snap topology.Snapshot, opts Options) (*layout.Frame, bool, error) {
	cacheKey := r.Keyer.FrameKey(hashSnapshot(snap), opts.FrameKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if f, err := UnmarshalFrame(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeFrame)
				return f, true, nil
			}
			// A corrupt entry falls through to recompute.
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeFrame)

	engineOpts := []layout.Option{layout.WithLogger(opts.Logger)}
	if opts.DefaultSizes {
		engineOpts = append(engineOpts, layout.WithDefaultSizes())
	}
	engine := layout.New(opts.Layout, engineOpts...)
	if err := engine.SetTopology(ctx, snap); err != nil {
		return nil, false, err
	}
	f := engine.Frame()

	if data, err := json.Marshal(f); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLFrame)); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeFrame, len(data))
		}
	}
	return f, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info. snap must be the prepared snapshot f was computed from.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap topology.Snapshot, f *layout.Frame, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	return r.render(ctx, snap, f, opts)
}

func (r *Runner) render(ctx context.Context, snap topology.Snapshot, f *layout.Frame, opts Options) (map[string][]byte, bool, error) {
	// The Graphviz views depend on the snapshot, not only on the frame.
	base := cache.Hash([]byte(hashFrame(f) + hashSnapshot(snap)))

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)

	rendered, err := Render(ctx, snap, f, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func hashSnapshot(s topology.Snapshot) string {
	h, _ := cache.HashJSON(s)
	return h
}

func hashFrame(f *layout.Frame) string {
	h, _ := cache.HashJSON(f)
	return h
}
