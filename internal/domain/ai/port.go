package ai

import "context"

// Analyzer port for the external review model
type Analyzer interface {
	Analyze(ctx context.Context, code, language string) (*Result, error)
}
