package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	apperrors "docmagic/internal/common/errors"
	"docmagic/internal/templates"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validatedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func createTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func sampleStored() StoredTemplate {
	return StoredTemplate{
		Template: templates.TemplateContent{
			ID:          "deck-1",
			Title:       "Quarterly Business Review",
			Description: "Slides summarising quarterly results, pipeline health and next steps.",
			Type:        templates.TypePresentation,
			Content:     map[string]interface{}{"title": "Q3"},
			Metadata:    &templates.Metadata{Industry: "Business", Tags: []string{"qbr", "sales"}},
		},
		Result: templates.ValidationResult{
			IsValid:  false,
			Errors:   []string{"Presentation template missing slides array"},
			Warnings: []string{},
			Score:    85,
		},
		ValidatedAt: validatedAt,
	}
}

func storedRows() *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(
		"deck-1", "presentation", "Quarterly Business Review",
		"Slides summarising quarterly results, pipeline health and next steps.",
		[]byte(`{"title":"Q3"}`), []byte(`{"industry":"Business","tags":["qbr","sales"]}`),
		85, false, `{"Presentation template missing slides array"}`, `{}`, validatedAt,
	)
}

func TestStore_Save(t *testing.T) {
	s, mock := createTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO templates (id,type,title,description,content,metadata,score,is_valid,errors,warnings,validated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) ON CONFLICT (id) DO UPDATE SET`)).
		WithArgs("deck-1", "presentation", "Quarterly Business Review", sqlmock.AnyArg(),
			[]byte(`{"title":"Q3"}`), sqlmock.AnyArg(), 85, false, sqlmock.AnyArg(), sqlmock.AnyArg(), validatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Save(context.Background(), sampleStored()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Save_InsertFailure(t *testing.T) {
	s, mock := createTestStore(t)

	mock.ExpectExec(`INSERT INTO templates`).WillReturnError(errors.New("connection reset"))

	err := s.Save(context.Background(), sampleStored())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseInsertFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Get(t *testing.T) {
	s, mock := createTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, type, title, description, content, metadata, score, is_valid, errors, warnings, validated_at FROM templates WHERE id = $1`)).
		WithArgs("deck-1").
		WillReturnRows(storedRows())

	got, err := s.Get(context.Background(), "deck-1")
	require.NoError(t, err)

	want := sampleStored()
	assert.Equal(t, want.Template, got.Template)
	assert.Equal(t, want.Result, got.Result)
	assert.True(t, want.ValidatedAt.Equal(got.ValidatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Get_NotFound(t *testing.T) {
	s, mock := createTestStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM templates WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTemplateNotFound))
}

func TestStore_ListByType(t *testing.T) {
	s, mock := createTestStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM templates WHERE type = \$1 ORDER BY validated_at DESC LIMIT 20`).
		WithArgs("presentation").
		WillReturnRows(storedRows())

	got, err := s.ListByType(context.Background(), templates.TypePresentation, 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "deck-1", got[0].Template.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Delete(t *testing.T) {
	s, mock := createTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM templates WHERE id = $1`)).
		WithArgs("deck-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM templates WHERE id = $1`)).
		WithArgs("deck-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Delete(context.Background(), "deck-1"))
	err := s.Delete(context.Background(), "deck-1")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTemplateNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Migrate(t *testing.T) {
	s, mock := createTestStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS templates`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
