// Package snapshot caches fully derived engine results per reference-data
// version.
package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/cluster-cli/internal/cluster"
	"github.com/sells-group/cluster-cli/internal/model"
)

// Snapshot is the engine output for one Key. It is shared between callers
// and must be treated as read-only.
type Snapshot struct {
	Key             Key                         `json:"key"`
	Businesses      []model.BusinessProfile     `json:"businesses"`
	Spaces          []model.Space               `json:"spaces"`
	Recommendations []model.SpaceRecommendation `json:"recommendations"`
	ComputedAt      time.Time                   `json:"computed_at"`

	businessIdx map[string]int
	spaceIdx    map[string]int
}

// Business returns the derived profile with the given id.
func (s *Snapshot) Business(id string) (model.BusinessProfile, bool) {
	i, ok := s.businessIdx[id]
	if !ok {
		return model.BusinessProfile{}, false
	}
	return s.Businesses[i], true
}

// Space returns the space with the given id, cluster data attached.
func (s *Snapshot) Space(id string) (model.Space, bool) {
	i, ok := s.spaceIdx[id]
	if !ok {
		return model.Space{}, false
	}
	return s.Spaces[i], true
}

// Recorder receives cache hit and miss events. monitoring.Metrics satisfies it.
type Recorder interface {
	CacheHit()
	CacheMiss()
}

// Option configures a Cache.
type Option func(*Cache)

// WithRecorder reports hits and misses to r.
func WithRecorder(r Recorder) Option {
	return func(c *Cache) { c.recorder = r }
}

// Cache holds at most maxEntries snapshots and evicts the oldest first.
// Concurrent misses on the same key share a single computation.
type Cache struct {
	engine     *cluster.Engine
	maxEntries int
	recorder   Recorder

	mu      sync.Mutex
	entries map[Key]*Snapshot
	order   []Key

	group singleflight.Group
}

// NewCache creates a cache over engine. maxEntries <= 0 means 1.
func NewCache(engine *cluster.Engine, maxEntries int, opts ...Option) *Cache {
	c := &Cache{
		engine:     engine,
		maxEntries: max(maxEntries, 1),
		entries:    make(map[Key]*Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the snapshot for businesses and spaces, computing it on a miss.
func (c *Cache) Get(ctx context.Context, businesses []model.BusinessProfile, spaces []model.Space) (*Snapshot, error) {
	key, err := KeyFor(c.engine.Taxonomy(), businesses, spaces)
	if err != nil {
		return nil, err
	}

	if snap := c.lookup(key); snap != nil {
		if c.recorder != nil {
			c.recorder.CacheHit()
		}
		return snap, nil
	}
	if c.recorder != nil {
		c.recorder.CacheMiss()
	}

	ch := c.group.DoChan(key.String(), func() (any, error) {
		if snap := c.lookup(key); snap != nil {
			return snap, nil
		}
		snap, err := c.compute(key, businesses, spaces)
		if err != nil {
			return nil, err
		}
		c.store(snap)
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, eris.Wrap(ctx.Err(), "snapshot: wait for computation")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Invalidate drops every cached snapshot.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*Snapshot)
	c.order = nil
}

// Len returns the number of cached snapshots.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) lookup(key Key) *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key]
}

func (c *Cache) store(snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[snap.Key]; ok {
		return
	}
	for len(c.order) >= c.maxEntries {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	c.entries[snap.Key] = snap
	c.order = append(c.order, snap.Key)
}

func (c *Cache) compute(key Key, businesses []model.BusinessProfile, spaces []model.Space) (*Snapshot, error) {
	start := time.Now()

	affiliated := c.engine.Affiliate(businesses)
	recs, err := c.engine.OptimalSpaceClusters(affiliated, spaces)
	if err != nil {
		return nil, eris.Wrap(err, "snapshot: optimize spaces")
	}

	snap := &Snapshot{
		Key:             key,
		Businesses:      c.engine.ComputeCentrality(affiliated),
		Spaces:          cluster.AttachClusterData(spaces, recs),
		Recommendations: recs,
		ComputedAt:      time.Now().UTC(),
		businessIdx:     make(map[string]int, len(businesses)),
		spaceIdx:        make(map[string]int, len(spaces)),
	}
	for i, b := range snap.Businesses {
		if _, dup := snap.businessIdx[b.ID]; !dup {
			snap.businessIdx[b.ID] = i
		}
	}
	for i, s := range snap.Spaces {
		if _, dup := snap.spaceIdx[s.ID]; !dup {
			snap.spaceIdx[s.ID] = i
		}
	}

	zap.L().Info("snapshot: computed",
		zap.String("taxonomy", key.Taxonomy),
		zap.Int("businesses", len(businesses)),
		zap.Int("spaces", len(spaces)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return snap, nil
}
