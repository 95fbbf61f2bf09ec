package review

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/code-reviewer/internal/application"
	domai "github.com/bryanwahyu/code-reviewer/internal/domain/ai"
	domain "github.com/bryanwahyu/code-reviewer/internal/domain/review"
	"github.com/google/uuid"
)

// Archive port for keeping raw provider payloads around (optional).
type Archive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Service orchestrates the analyze/persist/list flow.
type Service struct {
	Repo     domain.Repository
	Analyzer domai.Analyzer
	Archive  Archive // nil disables archiving
	Clock    application.Clock
	Logger   *zap.Logger
}

// Analyze runs one review round trip: model call, then insert.
// A gateway failure writes nothing.
func (s *Service) Analyze(ctx context.Context, code, language string) (*domain.Analysis, error) {
	res, err := s.Analyzer.Analyze(ctx, code, language)
	if err != nil {
		return nil, err
	}

	a := &domain.Analysis{
		Code:        code,
		Language:    language,
		Explanation: res.Explanation,
		Suggestions: res.Suggestions,
		Bugs:        res.Bugs,
		CreatedAt:   s.Clock.Now().UTC(),
	}
	a.Normalize()

	if err := s.Repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	// Best effort: an archive failure must not fail the request.
	if s.Archive != nil && res.Raw != "" {
		key := archiveKey(a.CreatedAt)
		if _, err := s.Archive.Put(ctx, key, []byte(res.Raw), "application/json"); err != nil {
			s.log().Warn("archive raw response failed",
				zap.Int64("analysis_id", int64(a.ID)),
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	return a, nil
}

// History returns past analyses newest first. limit <= 0 returns everything.
// An empty history is a valid, empty result.
func (s *Service) History(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	list, err := s.Repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	if list == nil {
		list = []*domain.Analysis{}
	}
	for _, a := range list {
		a.Normalize()
	}
	return list, nil
}

func (s *Service) log() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

func archiveKey(t time.Time) string {
	return fmt.Sprintf("analyses/%s/%s.json", t.Format("2006/01/02"), uuid.NewString())
}
