package game

import "context"

// Enhancer optionally rewrites a response before it reaches the player. A
// failing or slow enhancer is skipped; the raw response stands.
type Enhancer interface {
	Enhance(ctx context.Context, response, lastCommand, stateSummary string) (string, error)
}

// NoopEnhancer returns responses untouched.
type NoopEnhancer struct{}

func (NoopEnhancer) Enhance(ctx context.Context, response, lastCommand, stateSummary string) (string, error) {
	return response, nil
}
