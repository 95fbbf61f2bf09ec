package review

import "context"

// Repository port (interface for persistence)
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	// List returns analyses newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*Analysis, error)
}
