package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-ingest/internal/db"
	"github.com/sells-group/prospect-ingest/internal/model"
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

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"upsert_prospect": postgresUpsert,
	"get_prospect":    postgresSelect + ` WHERE email = $1`,
	"count_prospects": `SELECT COUNT(*) FROM prospects`,
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

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

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

// NewPostgresWithPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS prospects (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	email        TEXT UNIQUE,
	first_name   TEXT NOT NULL DEFAULT '',
	last_name    TEXT NOT NULL DEFAULT '',
	job_title    TEXT NOT NULL DEFAULT '',
	phone        TEXT NOT NULL DEFAULT '',
	linkedin_url TEXT NOT NULL DEFAULT '',
	website_url  TEXT NOT NULL DEFAULT '',
	notes        TEXT NOT NULL DEFAULT '',
	company      JSONB NOT NULL DEFAULT '{}',
	custom       JSONB,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_prospects_company_domain ON prospects((company->>'domain'));
CREATE INDEX IF NOT EXISTS idx_prospects_company_name ON prospects((company->>'name'));
`

const postgresSelect = `SELECT email, first_name, last_name, job_title, phone, linkedin_url, website_url, notes, company, custom FROM prospects`

const postgresUpsert = `
INSERT INTO prospects
	(id, email, first_name, last_name, job_title, phone, linkedin_url, website_url, notes, company, custom, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (email) DO UPDATE SET
	first_name   = COALESCE(NULLIF(EXCLUDED.first_name, ''), prospects.first_name),
	last_name    = COALESCE(NULLIF(EXCLUDED.last_name, ''), prospects.last_name),
	job_title    = COALESCE(NULLIF(EXCLUDED.job_title, ''), prospects.job_title),
	phone        = COALESCE(NULLIF(EXCLUDED.phone, ''), prospects.phone),
	linkedin_url = COALESCE(NULLIF(EXCLUDED.linkedin_url, ''), prospects.linkedin_url),
	website_url  = COALESCE(NULLIF(EXCLUDED.website_url, ''), prospects.website_url),
	notes        = COALESCE(NULLIF(EXCLUDED.notes, ''), prospects.notes),
	company      = CASE WHEN EXCLUDED.company = '{}'::jsonb THEN prospects.company ELSE EXCLUDED.company END,
	custom       = COALESCE(EXCLUDED.custom, prospects.custom),
	updated_at   = EXCLUDED.updated_at`

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

// SaveRecords upserts records keyed by email. On conflict each column fills
// only when the incoming value is non-empty.
func (s *PostgresStore) SaveRecords(ctx context.Context, records []*model.Record) error {
	now := time.Now().UTC()
	for _, rec := range records {
		companyJSON, customJSON, err := marshalRecordBlobs(rec)
		if err != nil {
			return err
		}
		_, err = s.pool.Exec(ctx, postgresUpsert,
			uuid.New().String(), emailOrNil(rec.Email),
			rec.FirstName, rec.LastName, rec.JobTitle, rec.Phone,
			rec.LinkedInURL, rec.WebsiteURL, rec.Notes,
			companyJSON, customJSON, now, now,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: upsert prospect %s", rec.Email)
		}
	}
	return nil
}

// BulkLoad inserts a large import batch via COPY and a temp-table upsert.
// Unlike SaveRecords, a conflicting row is overwritten wholesale: the bulk
// path is meant for initial loads where the incoming file is authoritative.
func (s *PostgresStore) BulkLoad(ctx context.Context, records []*model.Record) (int64, error) {
	now := time.Now().UTC()
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		companyJSON, customJSON, err := marshalRecordBlobs(rec)
		if err != nil {
			return 0, err
		}
		rows = append(rows, []any{
			uuid.New().String(), emailOrNil(rec.Email),
			rec.FirstName, rec.LastName, rec.JobTitle, rec.Phone,
			rec.LinkedInURL, rec.WebsiteURL, rec.Notes,
			companyJSON, customJSON, now, now,
		})
	}

	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table: "prospects",
		Columns: []string{
			"id", "email", "first_name", "last_name", "job_title", "phone",
			"linkedin_url", "website_url", "notes", "company", "custom",
			"created_at", "updated_at",
		},
		ConflictKeys: []string{"email"},
		UpdateCols: []string{
			"first_name", "last_name", "job_title", "phone", "linkedin_url",
			"website_url", "notes", "company", "custom", "updated_at",
		},
	}, rows)
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*model.Record, error) {
	row := s.pool.QueryRow(ctx, postgresSelect+` WHERE email = $1`, email)
	rec, err := scanPgProspect(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (s *PostgresStore) List(ctx context.Context, filter RecordFilter) ([]model.Record, error) {
	query := postgresSelect + ` WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Domain != "" {
		query += fmt.Sprintf(` AND company->>'domain' = $%d`, argIdx)
		args = append(args, filter.Domain)
		argIdx++
	}
	if filter.Company != "" {
		query += fmt.Sprintf(` AND company->>'name' = $%d`, argIdx)
		args = append(args, filter.Company)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list prospects")
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		rec, err := scanPgProspect(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list prospects iterate")
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM prospects`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count prospects")
}

func scanPgProspect(row pgx.Row) (*model.Record, error) {
	var rec model.Record
	var email *string
	var companyJSON []byte
	var customJSON *[]byte

	err := row.Scan(&email, &rec.FirstName, &rec.LastName, &rec.JobTitle,
		&rec.Phone, &rec.LinkedInURL, &rec.WebsiteURL, &rec.Notes,
		&companyJSON, &customJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "postgres: scan prospect")
	}

	if email != nil {
		rec.Email = *email
	}
	if err := json.Unmarshal(companyJSON, &rec.Company); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal company")
	}
	if customJSON != nil {
		if err := json.Unmarshal(*customJSON, &rec.Custom); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal custom fields")
		}
	}
	return &rec, nil
}
