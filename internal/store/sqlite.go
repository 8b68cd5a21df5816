package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/prospect-ingest/internal/model"
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
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Email is nullable so that records scraped without one (company pages
// rarely expose a contact address) can coexist under the unique index.
const sqliteMigration = `
CREATE TABLE IF NOT EXISTS prospects (
	id           TEXT PRIMARY KEY,
	email        TEXT UNIQUE,
	first_name   TEXT NOT NULL DEFAULT '',
	last_name    TEXT NOT NULL DEFAULT '',
	job_title    TEXT NOT NULL DEFAULT '',
	phone        TEXT NOT NULL DEFAULT '',
	linkedin_url TEXT NOT NULL DEFAULT '',
	website_url  TEXT NOT NULL DEFAULT '',
	notes        TEXT NOT NULL DEFAULT '',
	company      TEXT NOT NULL DEFAULT '{}',
	custom       TEXT,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_prospects_company_domain ON prospects(json_extract(company, '$.domain'));
CREATE INDEX IF NOT EXISTS idx_prospects_company_name ON prospects(json_extract(company, '$.name'));
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteUpsert = `
INSERT INTO prospects
	(id, email, first_name, last_name, job_title, phone, linkedin_url, website_url, notes, company, custom, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(email) DO UPDATE SET
	first_name   = COALESCE(NULLIF(excluded.first_name, ''), first_name),
	last_name    = COALESCE(NULLIF(excluded.last_name, ''), last_name),
	job_title    = COALESCE(NULLIF(excluded.job_title, ''), job_title),
	phone        = COALESCE(NULLIF(excluded.phone, ''), phone),
	linkedin_url = COALESCE(NULLIF(excluded.linkedin_url, ''), linkedin_url),
	website_url  = COALESCE(NULLIF(excluded.website_url, ''), website_url),
	notes        = COALESCE(NULLIF(excluded.notes, ''), notes),
	company      = COALESCE(NULLIF(excluded.company, '{}'), company),
	custom       = COALESCE(excluded.custom, custom),
	updated_at   = excluded.updated_at`

// SaveRecords upserts records keyed by email inside one transaction. On
// conflict each column fills only when the incoming value is non-empty.
func (s *SQLiteStore) SaveRecords(ctx context.Context, records []*model.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, rec := range records {
		companyJSON, customJSON, err := marshalRecordBlobs(rec)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			uuid.New().String(), emailOrNil(rec.Email),
			rec.FirstName, rec.LastName, rec.JobTitle, rec.Phone,
			rec.LinkedInURL, rec.WebsiteURL, rec.Notes,
			companyJSON, customJSON, now, now,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: upsert prospect %s", rec.Email)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit tx")
}

func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (*model.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT email, first_name, last_name, job_title, phone, linkedin_url, website_url, notes, company, custom
		 FROM prospects WHERE email = ?`,
		email,
	)
	rec, err := scanProspect(row)
	if err == errNoProspect {
		return nil, nil
	}
	return rec, err
}

func (s *SQLiteStore) List(ctx context.Context, filter RecordFilter) ([]model.Record, error) {
	query := `SELECT email, first_name, last_name, job_title, phone, linkedin_url, website_url, notes, company, custom
	          FROM prospects WHERE 1=1`
	var args []any

	if filter.Domain != "" {
		query += ` AND json_extract(company, '$.domain') = ?`
		args = append(args, filter.Domain)
	}
	if filter.Company != "" {
		query += ` AND json_extract(company, '$.name') = ?`
		args = append(args, filter.Company)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list prospects")
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		rec, err := scanProspect(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list prospects iterate")
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prospects`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count prospects")
}

// helpers

var errNoProspect = eris.New("prospect not found")

func emailOrNil(email string) any {
	if email == "" {
		return nil
	}
	return email
}

func marshalRecordBlobs(rec *model.Record) (string, any, error) {
	companyJSON, err := json.Marshal(rec.Company)
	if err != nil {
		return "", nil, eris.Wrap(err, "store: marshal company")
	}
	var customJSON any
	if len(rec.Custom) > 0 {
		b, err := json.Marshal(rec.Custom)
		if err != nil {
			return "", nil, eris.Wrap(err, "store: marshal custom fields")
		}
		customJSON = string(b)
	}
	return string(companyJSON), customJSON, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanProspect(row scannable) (*model.Record, error) {
	var rec model.Record
	var email, custom sql.NullString
	var companyJSON string

	err := row.Scan(&email, &rec.FirstName, &rec.LastName, &rec.JobTitle,
		&rec.Phone, &rec.LinkedInURL, &rec.WebsiteURL, &rec.Notes,
		&companyJSON, &custom)
	if err == sql.ErrNoRows {
		return nil, errNoProspect
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: scan prospect")
	}

	rec.Email = email.String
	if err := json.Unmarshal([]byte(companyJSON), &rec.Company); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal company")
	}
	if custom.Valid {
		if err := json.Unmarshal([]byte(custom.String), &rec.Custom); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal custom fields")
		}
	}
	return &rec, nil
}
