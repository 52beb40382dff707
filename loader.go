package marionette

import (
	"context"
	"fmt"
	"path"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ManifestReader fetches and parses a figure's manifest and the files it
// references. Implementations must be safe to call from multiple goroutines.
type ManifestReader interface {
	ReadManifest(ctx context.Context, dir, file string) (*Manifest, error)
}

// defaultLoadConcurrency bounds concurrent reads per manifest.
const defaultLoadConcurrency = 4

// ManifestLoader reads a manifest through a FileSource and then inspects
// every referenced motion and expression file concurrently. Motion timing
// (Meta.Duration, Meta.Loop) is copied into the returned manifest.
type ManifestLoader struct {
	Source FileSource
	// Concurrency bounds referenced-file reads; 0 uses a default.
	Concurrency int
}

// ReadManifest implements ManifestReader.
func (l *ManifestLoader) ReadManifest(ctx context.Context, dir, file string) (*Manifest, error) {
	if l.Source == nil {
		return nil, fmt.Errorf("load %s: no file source", file)
	}
	data, err := l.Source.ReadFile(ctx, path.Join(dir, file))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path.Join(dir, file), err)
	}
	m, err := ParseManifest(dir, data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path.Join(dir, file), err)
	}

	limit := l.Concurrency
	if limit <= 0 {
		limit = defaultLoadConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, group := range m.MotionGroups {
		clips := m.Motions[group]
		for i := range clips {
			ref := &clips[i]
			if ref.File == "" {
				continue
			}
			g.Go(func() error {
				raw, err := l.Source.ReadFile(gctx, m.Resolve(ref.File))
				if err != nil {
					return fmt.Errorf("motion %s: %w", ref.File, err)
				}
				d, loop, err := motionMeta(raw)
				if err != nil {
					return fmt.Errorf("motion %s: %w", ref.File, err)
				}
				ref.Duration = d
				ref.Loop = loop
				return nil
			})
		}
	}

	for _, e := range m.Expressions {
		if e.File == "" {
			continue
		}
		g.Go(func() error {
			raw, err := l.Source.ReadFile(gctx, m.Resolve(e.File))
			if err != nil {
				return fmt.Errorf("expression %s: %w", e.Name, err)
			}
			if err := validateExpression(raw); err != nil {
				return fmt.Errorf("expression %s: %w", e.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path.Join(dir, file), err)
	}
	return m, nil
}

// loadResult is one finished asset request.
type loadResult struct {
	figure   *Figure
	manifest *Manifest
	err      error
}

// AssetLoader runs manifest reads off the frame thread. Results are queued
// and handed back on the frame thread through Drain, so figures are only
// ever mutated by the frame loop.
type AssetLoader struct {
	reader ManifestReader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	done    []loadResult
	pending int
}

// NewAssetLoader returns a loader reading through reader.
func NewAssetLoader(reader ManifestReader) *AssetLoader {
	ctx, cancel := context.WithCancel(context.Background())
	return &AssetLoader{reader: reader, ctx: ctx, cancel: cancel}
}

// Request starts loading the figure's manifest and returns immediately.
func (l *AssetLoader) Request(f *Figure) {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		m, err := l.reader.ReadManifest(l.ctx, f.dir, f.file)
		l.mu.Lock()
		l.done = append(l.done, loadResult{figure: f, manifest: m, err: err})
		l.pending--
		l.mu.Unlock()
	}()
}

// Pending returns the number of requests still in flight.
func (l *AssetLoader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Drain hands every completed result to apply, in completion order.
// Call it from the frame thread only.
func (l *AssetLoader) Drain(apply func(loadResult)) int {
	l.mu.Lock()
	batch := l.done
	l.done = nil
	l.mu.Unlock()

	for _, r := range batch {
		apply(r)
	}
	return len(batch)
}

// Wait blocks until every in-flight request has completed.
func (l *AssetLoader) Wait() {
	l.wg.Wait()
}

// Close cancels in-flight requests and waits for them to stop.
func (l *AssetLoader) Close() {
	l.cancel()
	l.wg.Wait()
}
