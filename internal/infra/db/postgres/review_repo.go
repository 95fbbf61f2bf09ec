package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/code-reviewer/internal/domain/review"
)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// EnsureSchema creates the history table when it does not exist yet.
func (r *ReviewRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS analysis_history (
  id          BIGSERIAL PRIMARY KEY,
  language    VARCHAR(64) NOT NULL,
  code        TEXT        NOT NULL,
  explanation TEXT        NOT NULL,
  suggestions JSONB       NOT NULL,
  bugs        JSONB       NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_history_created_at ON analysis_history (created_at DESC, id DESC);`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Save inserts one analysis; the id comes back via RETURNING.
func (r *ReviewRepository) Save(ctx context.Context, a *domain.Analysis) error {
	suggestions, bugs, err := marshalLists(a)
	if err != nil {
		return err
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const q = `
INSERT INTO analysis_history (language, code, explanation, suggestions, bugs, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id;`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, a.Language, a.Code, a.Explanation, suggestions, bugs, createdAt).Scan(&id); err != nil {
		return err
	}
	a.ID = domain.AnalysisID(id)
	a.CreatedAt = createdAt
	return nil
}

// List returns analyses ordered by created_at desc, id desc.
// limit <= 0 means everything.
func (r *ReviewRepository) List(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	q := `
SELECT id, language, code, explanation, suggestions, bugs, created_at
FROM analysis_history
ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += `
LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func marshalLists(a *domain.Analysis) (string, string, error) {
	a.Normalize()
	suggestions, err := json.Marshal(a.Suggestions)
	if err != nil {
		return "", "", fmt.Errorf("marshal suggestions: %w", err)
	}
	bugs, err := json.Marshal(a.Bugs)
	if err != nil {
		return "", "", fmt.Errorf("marshal bugs: %w", err)
	}
	return string(suggestions), string(bugs), nil
}

func scanAnalysis(rows *sql.Rows) (*domain.Analysis, error) {
	var a domain.Analysis
	var suggestions, bugs []byte
	var created time.Time
	if err := rows.Scan(&a.ID, &a.Language, &a.Code, &a.Explanation, &suggestions, &bugs, &created); err != nil {
		return nil, err
	}
	a.CreatedAt = created
	if len(suggestions) > 0 {
		if err := json.Unmarshal(suggestions, &a.Suggestions); err != nil {
			return nil, fmt.Errorf("decode suggestions for id %d: %w", a.ID, err)
		}
	}
	if len(bugs) > 0 {
		if err := json.Unmarshal(bugs, &a.Bugs); err != nil {
			return nil, fmt.Errorf("decode bugs for id %d: %w", a.ID, err)
		}
	}
	a.Normalize()
	return &a, nil
}
