// Package store persists reference data and optimizer runs.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cluster-cli/internal/config"
	"github.com/sells-group/cluster-cli/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = eris.New("store: not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	CreatedAfter time.Time `json:"created_after,omitempty"`
	Limit        int       `json:"limit,omitempty"`
	Offset       int       `json:"offset,omitempty"`
}

// Store defines the persistence interface for reference data and runs.
// Only input fields of businesses and spaces are stored; affiliations,
// centrality and cluster data are always recomputed.
type Store interface {
	// Reference data
	UpsertBusinesses(ctx context.Context, businesses []model.BusinessProfile) (int, error)
	ListBusinesses(ctx context.Context) ([]model.BusinessProfile, error)
	UpsertSpaces(ctx context.Context, spaces []model.Space) (int, error)
	ListSpaces(ctx context.Context) ([]model.Space, error)

	// Runs
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open connects to the backend named by cfg.Driver and runs migrations.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		st  Store
		err error
	)
	switch cfg.Driver {
	case "sqlite", "":
		st, err = NewSQLite(cfg.DatabaseURL)
	case "postgres":
		st, err = NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// dedupeBusinesses keeps the last record for each id, in first-seen order.
func dedupeBusinesses(in []model.BusinessProfile) []model.BusinessProfile {
	pos := make(map[string]int, len(in))
	out := make([]model.BusinessProfile, 0, len(in))
	for _, b := range in {
		if i, ok := pos[b.ID]; ok {
			out[i] = b
			continue
		}
		pos[b.ID] = len(out)
		out = append(out, b)
	}
	return out
}

func dedupeSpaces(in []model.Space) []model.Space {
	pos := make(map[string]int, len(in))
	out := make([]model.Space, 0, len(in))
	for _, s := range in {
		if i, ok := pos[s.ID]; ok {
			out[i] = s
			continue
		}
		pos[s.ID] = len(out)
		out = append(out, s)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
