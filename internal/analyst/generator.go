// Package analyst turns a coin snapshot, its price history and aggregate
// market totals into a complete prediction: an indicator-derived trend,
// confidence, recommendation, price targets and key levels, plus a
// free-text narrative from a hosted text-generation backend. Every failure
// of the backend resolves to a deterministic fallback; Analyze never
// returns an error.
package analyst

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned by generator constructors when no credential
// is configured.
var ErrMissingAPIKey = errors.New("analyst: api key not configured")

// Generator produces free text from a prompt. Implementations wrap one
// hosted text-generation backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
