// Package detect runs best-effort presence checks for every catalog
// extension and reduces the outcomes to the set of detected display
// names.
package detect

import (
	"context"
	"fmt"
	"sync"

	"github.com/just-josh-inc/extguard/pkg/catalog"
	"github.com/just-josh-inc/extguard/pkg/probe"
)

// Engine probes a fixed catalog through a single prober.
type Engine struct {
	catalog       catalog.Catalog
	prober        probe.Prober
	scheme        probe.Scheme
	maxConcurrent int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithScheme sets the URL scheme used to address extension resources.
// The default is chrome-extension.
func WithScheme(scheme probe.Scheme) EngineOption {
	return func(e *Engine) {
		e.scheme = scheme
	}
}

// WithMaxConcurrent bounds the number of in-flight probes per round. Zero
// or negative probes the whole catalog at once.
func WithMaxConcurrent(n int) EngineOption {
	return func(e *Engine) {
		e.maxConcurrent = n
	}
}

// NewEngine creates an engine over a private copy of the catalog. The
// catalog is validated once here and never changes afterwards.
func NewEngine(cat catalog.Catalog, p probe.Prober, opts ...EngineOption) (*Engine, error) {
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	cp := make(catalog.Catalog, len(cat))
	copy(cp, cat)

	e := &Engine{
		catalog: cp,
		prober:  p,
		scheme:  probe.SchemeChrome,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Catalog returns a copy of the engine's catalog, in probe order.
func (e *Engine) Catalog() catalog.Catalog {
	cp := make(catalog.Catalog, len(e.catalog))
	copy(cp, e.catalog)
	return cp
}

// Detect probes every catalog entry concurrently and returns the display
// names whose resource answered. A round only finishes once every probe
// has settled.
//
// Detect never fails: a probe error means that extension is absent, and
// nothing about individual failures is reported or logged. When no
// browsing context is available the catalog is not probed at all and the
// result is empty.
func (e *Engine) Detect(ctx context.Context) map[string]struct{} {
	detected := make(map[string]struct{})

	if e.prober == nil || !e.prober.Available() {
		return detected
	}

	var sem chan struct{}
	if e.maxConcurrent > 0 {
		sem = make(chan struct{}, e.maxConcurrent)
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, d := range e.catalog {
		wg.Add(1)
		go func(d catalog.Descriptor) {
			defer wg.Done()

			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			ok, err := e.prober.Probe(ctx, probe.ResourceURL(e.scheme, d.ID, d.ProbePath))
			if err != nil || !ok {
				return
			}

			mu.Lock()
			detected[d.DisplayName] = struct{}{}
			mu.Unlock()
		}(d)
	}

	wg.Wait()
	return detected
}
