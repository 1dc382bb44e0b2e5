// Package store persists validated templates in Postgres.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "docmagic/internal/common/errors"
	"docmagic/internal/templates"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

const table = "templates"

// Schema creates the templates table.
const Schema = `CREATE TABLE IF NOT EXISTS templates (
	id           TEXT PRIMARY KEY,
	type         TEXT NOT NULL,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL,
	content      JSONB,
	metadata     JSONB,
	score        INTEGER NOT NULL,
	is_valid     BOOLEAN NOT NULL,
	errors       TEXT[] NOT NULL DEFAULT '{}',
	warnings     TEXT[] NOT NULL DEFAULT '{}',
	validated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS templates_type_validated_at_idx ON templates (type, validated_at DESC);`

var columns = []string{
	"id", "type", "title", "description", "content", "metadata",
	"score", "is_valid", "errors", "warnings", "validated_at",
}

// StoredTemplate is a template together with the result it was stored with.
type StoredTemplate struct {
	Template    templates.TemplateContent  `json:"template"`
	Result      templates.ValidationResult `json:"validationResult"`
	ValidatedAt time.Time                  `json:"validatedAt"`
}

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db DBTX
	sb sq.StatementBuilderType
}

func New(db DBTX) *Store {
	return &Store{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return apperrors.NewQueryExecutionFailedError("migrate", err)
	}
	return nil
}

// Save inserts st or replaces the row with the same id.
func (s *Store) Save(ctx context.Context, st StoredTemplate) error {
	content, err := json.Marshal(st.Template.Content)
	if err != nil {
		return apperrors.NewTemplateInvalidPayloadError(fmt.Sprintf("content: %v", err))
	}
	var metadata interface{}
	if st.Template.Metadata != nil {
		raw, err := json.Marshal(st.Template.Metadata)
		if err != nil {
			return apperrors.NewTemplateInvalidPayloadError(fmt.Sprintf("metadata: %v", err))
		}
		metadata = raw
	}

	query, args, err := s.sb.Insert(table).
		Columns(columns...).
		Values(
			st.Template.ID, string(st.Template.Type), st.Template.Title, st.Template.Description,
			content, metadata, st.Result.Score, st.Result.IsValid,
			pq.StringArray(st.Result.Errors), pq.StringArray(st.Result.Warnings), st.ValidatedAt,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type, title = EXCLUDED.title, description = EXCLUDED.description,
			content = EXCLUDED.content, metadata = EXCLUDED.metadata, score = EXCLUDED.score,
			is_valid = EXCLUDED.is_valid, errors = EXCLUDED.errors, warnings = EXCLUDED.warnings,
			validated_at = EXCLUDED.validated_at`).
		ToSql()
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("save", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// Get returns the template stored under id or a TEMPLATE_NOT_FOUND error.
func (s *Store) Get(ctx context.Context, id string) (*StoredTemplate, error) {
	query, args, err := s.sb.Select(columns...).From(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get", err)
	}

	st, err := scanTemplate(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewTemplateNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get", err)
	}
	return st, nil
}

// ListByType returns the most recently validated templates of one type.
func (s *Store) ListByType(ctx context.Context, t templates.Type, limit int) ([]StoredTemplate, error) {
	if limit <= 0 {
		limit = 50
	}
	query, args, err := s.sb.Select(columns...).
		From(table).
		Where(sq.Eq{"type": string(t)}).
		OrderBy("validated_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list", err)
	}
	defer rows.Close()

	out := make([]StoredTemplate, 0)
	for rows.Next() {
		st, err := scanTemplate(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("list", err)
		}
		out = append(out, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list", err)
	}
	return out, nil
}

// Delete removes the template stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	query, args, err := s.sb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("delete", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("delete", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewTemplateNotFoundError(id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTemplate(row scanner) (*StoredTemplate, error) {
	var (
		st                StoredTemplate
		typ               string
		content, metadata []byte
		errs, warns       pq.StringArray
	)
	if err := row.Scan(
		&st.Template.ID, &typ, &st.Template.Title, &st.Template.Description,
		&content, &metadata, &st.Result.Score, &st.Result.IsValid,
		&errs, &warns, &st.ValidatedAt,
	); err != nil {
		return nil, err
	}

	st.Template.Type = templates.Type(typ)
	if len(content) > 0 {
		if err := json.Unmarshal(content, &st.Template.Content); err != nil {
			return nil, fmt.Errorf("decode content: %w", err)
		}
	}
	if len(metadata) > 0 {
		st.Template.Metadata = &templates.Metadata{}
		if err := json.Unmarshal(metadata, st.Template.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	st.Result.Errors = append([]string{}, errs...)
	st.Result.Warnings = append([]string{}, warns...)
	return &st, nil
}
