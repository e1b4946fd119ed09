package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/cluster-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS businesses (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	company    TEXT NOT NULL DEFAULT '',
	type       TEXT NOT NULL DEFAULT '',
	interests  TEXT NOT NULL DEFAULT '[]',
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS spaces (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	capacity   INTEGER NOT NULL CHECK (capacity > 0),
	location   TEXT NOT NULL DEFAULT '',
	amenities  TEXT NOT NULL DEFAULT '[]',
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	taxonomy_version TEXT NOT NULL,
	business_hash    TEXT NOT NULL,
	space_hash       TEXT NOT NULL,
	businesses       INTEGER NOT NULL DEFAULT 0,
	spaces           INTEGER NOT NULL DEFAULT 0,
	recommendations  TEXT NOT NULL,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertBusinesses(ctx context.Context, businesses []model.BusinessProfile) (int, error) {
	businesses = dedupeBusinesses(businesses)
	now := time.Now().UTC()

	err := s.inTx(ctx, `INSERT INTO businesses (id, name, company, type, interests, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			company = excluded.company,
			type = excluded.type,
			interests = excluded.interests,
			updated_at = excluded.updated_at`,
		len(businesses), func(i int) ([]any, error) {
			b := businesses[i]
			interests, err := json.Marshal(nonNil(b.Interests))
			if err != nil {
				return nil, eris.Wrapf(err, "sqlite: marshal interests for %s", b.ID)
			}
			return []any{b.ID, b.Name, b.Company, b.Type, string(interests), now}, nil
		})
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert businesses")
	}
	return len(businesses), nil
}

func (s *SQLiteStore) ListBusinesses(ctx context.Context) ([]model.BusinessProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, company, type, interests FROM businesses ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list businesses")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.BusinessProfile{}
	for rows.Next() {
		var b model.BusinessProfile
		var interests string
		if err := rows.Scan(&b.ID, &b.Name, &b.Company, &b.Type, &interests); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan business")
		}
		if err := json.Unmarshal([]byte(interests), &b.Interests); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal interests for %s", b.ID)
		}
		out = append(out, b)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list businesses iterate")
}

func (s *SQLiteStore) UpsertSpaces(ctx context.Context, spaces []model.Space) (int, error) {
	spaces = dedupeSpaces(spaces)
	now := time.Now().UTC()

	err := s.inTx(ctx, `INSERT INTO spaces (id, name, capacity, location, amenities, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			capacity = excluded.capacity,
			location = excluded.location,
			amenities = excluded.amenities,
			updated_at = excluded.updated_at`,
		len(spaces), func(i int) ([]any, error) {
			sp := spaces[i]
			amenities, err := json.Marshal(nonNil(sp.Amenities))
			if err != nil {
				return nil, eris.Wrapf(err, "sqlite: marshal amenities for %s", sp.ID)
			}
			return []any{sp.ID, sp.Name, sp.Capacity, sp.Location, string(amenities), now}, nil
		})
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert spaces")
	}
	return len(spaces), nil
}

func (s *SQLiteStore) ListSpaces(ctx context.Context) ([]model.Space, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, capacity, location, amenities FROM spaces ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list spaces")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.Space{}
	for rows.Next() {
		var sp model.Space
		var amenities string
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Capacity, &sp.Location, &amenities); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan space")
		}
		if err := json.Unmarshal([]byte(amenities), &sp.Amenities); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal amenities for %s", sp.ID)
		}
		out = append(out, sp)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list spaces iterate")
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.Run) error {
	prepareRun(run)

	recs, err := json.Marshal(run.Recommendations)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal recommendations")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, taxonomy_version, business_hash, space_hash, businesses, spaces, recommendations, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.TaxonomyVersion, run.BusinessHash, run.SpaceHash,
		run.Businesses, run.Spaces, string(recs), run.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
}

const sqliteRunColumns = `id, taxonomy_version, business_hash, space_hash, businesses, spaces, recommendations, created_at`

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteRunColumns+` FROM runs WHERE id = ?`, runID)

	r, err := scanSQLiteRun(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: get run %s", runID)
	}
	return r, err
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT ` + sqliteRunColumns + ` FROM runs WHERE 1=1`
	var args []any

	if !filter.CreatedAfter.IsZero() {
		query += ` AND created_at > ?`
		args = append(args, filter.CreatedAfter.UTC())
	}
	query += ` ORDER BY created_at DESC, id`

	query += ` LIMIT ?`
	args = append(args, runLimit(filter))

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.Run
	for rows.Next() {
		r, err := scanSQLiteRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

// helpers

// inTx prepares query once and executes it n times with args(i) inside a
// single transaction.
func (s *SQLiteStore) inTx(ctx context.Context, query string, n int, args func(i int) ([]any, error)) error {
	if n == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return eris.Wrap(err, "prepare")
	}
	defer stmt.Close() //nolint:errcheck

	for i := 0; i < n; i++ {
		a, err := args(i)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, a...); err != nil {
			return eris.Wrapf(err, "exec row %d", i)
		}
	}
	return eris.Wrap(tx.Commit(), "commit")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSQLiteRun(row scannable) (*model.Run, error) {
	var r model.Run
	var recs string

	err := row.Scan(&r.ID, &r.TaxonomyVersion, &r.BusinessHash, &r.SpaceHash,
		&r.Businesses, &r.Spaces, &recs, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	if err := json.Unmarshal([]byte(recs), &r.Recommendations); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal recommendations for run %s", r.ID)
	}
	return &r, nil
}

// prepareRun assigns an id and creation time to a run that lacks them.
func prepareRun(run *model.Run) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.Recommendations == nil {
		run.Recommendations = []model.SpaceRecommendation{}
	}
}

func runLimit(f RunFilter) int {
	if f.Limit <= 0 {
		return 100
	}
	return f.Limit
}
