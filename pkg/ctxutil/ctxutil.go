// Package ctxutil carries run-scoped values through context. Every batch
// invocation (seed, backfill, verify) gets one run ID so its log lines can
// be correlated across components.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const runIDKey ctxKey = "run_id"

// NewRunID generates a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID stores the run ID in the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromCtx extracts the run ID from the context.
// Returns an empty string if absent.
func RunIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}
