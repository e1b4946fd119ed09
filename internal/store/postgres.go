package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/cluster-cli/internal/db"
	"github.com/sells-group/cluster-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS businesses (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	company    TEXT NOT NULL DEFAULT '',
	type       TEXT NOT NULL DEFAULT '',
	interests  TEXT[] NOT NULL DEFAULT '{}',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS spaces (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	capacity   INTEGER NOT NULL CHECK (capacity > 0),
	location   TEXT NOT NULL DEFAULT '',
	amenities  TEXT[] NOT NULL DEFAULT '{}',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	taxonomy_version TEXT NOT NULL,
	business_hash    TEXT NOT NULL,
	space_hash       TEXT NOT NULL,
	businesses       INTEGER NOT NULL DEFAULT 0,
	spaces           INTEGER NOT NULL DEFAULT 0,
	recommendations  JSONB NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
`

var (
	businessUpsert = db.UpsertConfig{
		Table:        "businesses",
		Columns:      []string{"id", "name", "company", "type", "interests", "updated_at"},
		ConflictKeys: []string{"id"},
	}
	spaceUpsert = db.UpsertConfig{
		Table:        "spaces",
		Columns:      []string{"id", "name", "capacity", "location", "amenities", "updated_at"},
		ConflictKeys: []string{"id"},
	}
)

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertBusinesses(ctx context.Context, businesses []model.BusinessProfile) (int, error) {
	businesses = dedupeBusinesses(businesses)
	now := time.Now().UTC()

	rows := make([][]any, len(businesses))
	for i, b := range businesses {
		rows[i] = []any{b.ID, b.Name, b.Company, b.Type, nonNil(b.Interests), now}
	}
	if _, err := db.BulkUpsert(ctx, s.pool, businessUpsert, rows); err != nil {
		return 0, eris.Wrap(err, "postgres: upsert businesses")
	}
	return len(businesses), nil
}

func (s *PostgresStore) ListBusinesses(ctx context.Context) ([]model.BusinessProfile, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, company, type, interests FROM businesses ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list businesses")
	}
	defer rows.Close()

	out := []model.BusinessProfile{}
	for rows.Next() {
		var b model.BusinessProfile
		if err := rows.Scan(&b.ID, &b.Name, &b.Company, &b.Type, &b.Interests); err != nil {
			return nil, eris.Wrap(err, "postgres: scan business")
		}
		out = append(out, b)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list businesses iterate")
}

func (s *PostgresStore) UpsertSpaces(ctx context.Context, spaces []model.Space) (int, error) {
	spaces = dedupeSpaces(spaces)
	now := time.Now().UTC()

	rows := make([][]any, len(spaces))
	for i, sp := range spaces {
		rows[i] = []any{sp.ID, sp.Name, sp.Capacity, sp.Location, nonNil(sp.Amenities), now}
	}
	if _, err := db.BulkUpsert(ctx, s.pool, spaceUpsert, rows); err != nil {
		return 0, eris.Wrap(err, "postgres: upsert spaces")
	}
	return len(spaces), nil
}

func (s *PostgresStore) ListSpaces(ctx context.Context) ([]model.Space, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, capacity, location, amenities FROM spaces ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list spaces")
	}
	defer rows.Close()

	out := []model.Space{}
	for rows.Next() {
		var sp model.Space
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Capacity, &sp.Location, &sp.Amenities); err != nil {
			return nil, eris.Wrap(err, "postgres: scan space")
		}
		out = append(out, sp)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list spaces iterate")
}

func (s *PostgresStore) SaveRun(ctx context.Context, run *model.Run) error {
	prepareRun(run)

	recs, err := json.Marshal(run.Recommendations)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal recommendations")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, taxonomy_version, business_hash, space_hash, businesses, spaces, recommendations, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.TaxonomyVersion, run.BusinessHash, run.SpaceHash,
		run.Businesses, run.Spaces, recs, run.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: insert run %s", run.ID)
}

const postgresRunColumns = `id, taxonomy_version, business_hash, space_hash, businesses, spaces, recommendations, created_at`

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+postgresRunColumns+` FROM runs WHERE id = $1`, runID)

	r, err := scanPostgresRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: get run %s", runID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT ` + postgresRunColumns + ` FROM runs WHERE created_at > $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`

	after := filter.CreatedAfter
	if after.IsZero() {
		after = time.Unix(0, 0).UTC()
	}

	rows, err := s.pool.Query(ctx, query, after, runLimit(filter), max(filter.Offset, 0))
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanPostgresRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: list runs")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func scanPostgresRun(row pgx.Row) (*model.Run, error) {
	var r model.Run
	var recs []byte

	if err := row.Scan(&r.ID, &r.TaxonomyVersion, &r.BusinessHash, &r.SpaceHash,
		&r.Businesses, &r.Spaces, &recs, &r.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(recs, &r.Recommendations); err != nil {
		return nil, eris.Wrapf(err, "unmarshal recommendations for run %s", r.ID)
	}
	return &r, nil
}
