package cluster

import (
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"

	"github.com/sells-group/cluster-cli/internal/config"
	"github.com/sells-group/cluster-cli/internal/taxonomy"
)

var (
	// ErrNilTaxonomy is returned by New when no taxonomy is supplied.
	ErrNilTaxonomy = eris.New("cluster: nil taxonomy")
	// ErrNilSpace is returned when a space reference is missing.
	ErrNilSpace = eris.New("cluster: nil space")
	// ErrInvalidSpace is returned for a space that violates its invariants.
	ErrInvalidSpace = eris.New("cluster: invalid space")
)

// Observer receives timing for engine operations. monitoring.Metrics
// satisfies it.
type Observer interface {
	ObserveComputation(op string, d time.Duration)
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver reports operation timings to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// Engine scores businesses and spaces against a fixed taxonomy. It holds no
// mutable state after construction and is safe for concurrent use.
type Engine struct {
	tax *taxonomy.Taxonomy
	cfg config.EngineConfig

	// Folded per-cluster match terms, indexed like the taxonomy.
	categories [][]string
	amenities  [][]string
	hubs       []string

	observer Observer
}

// New builds an Engine after validating cfg.
func New(tax *taxonomy.Taxonomy, cfg config.EngineConfig, opts ...Option) (*Engine, error) {
	if tax == nil {
		return nil, ErrNilTaxonomy
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	f := newFolder()
	e := &Engine{
		tax:        tax,
		cfg:        cfg,
		categories: make([][]string, tax.Len()),
		amenities:  make([][]string, tax.Len()),
		hubs:       f.all(cfg.HubDistricts),
	}
	tax.Each(func(i int, c *taxonomy.Cluster) {
		e.categories[i] = f.all(c.Categories)
		e.amenities[i] = f.all(c.AmenityKeywords)
	})
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Taxonomy returns the taxonomy the engine scores against.
func (e *Engine) Taxonomy() *taxonomy.Taxonomy { return e.tax }

// Config returns a copy of the engine configuration.
func (e *Engine) Config() config.EngineConfig { return e.cfg }

func (e *Engine) observe(op string, start time.Time) {
	if e.observer != nil {
		e.observer.ObserveComputation(op, time.Since(start))
	}
}

// folder case-folds strings for case-insensitive matching. A cases.Caser
// is stateful, so each folder must stay on one goroutine.
type folder struct {
	c cases.Caser
}

func newFolder() *folder {
	return &folder{c: cases.Fold()}
}

func (f *folder) fold(s string) string {
	return f.c.String(strings.TrimSpace(s))
}

func (f *folder) all(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, f.fold(s))
	}
	return out
}

// fuzzyMatch reports whether a and b (already folded) are equal or one
// contains the other. Blank terms never match.
func fuzzyMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
