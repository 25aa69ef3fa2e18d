// Package logging provides zerolog helpers shared across quill components.
package logging

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

type contextKey string

const documentKey contextKey = "document"

// WithDocument adds the active document path to the context.
func WithDocument(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, documentKey, path)
}

// GetDocument retrieves the active document path from the context.
// Returns empty string if not present.
func GetDocument(ctx context.Context) string {
	if path, ok := ctx.Value(documentKey).(string); ok {
		return path
	}
	return ""
}

// ContextHook adds the active document path to log events carrying a context.
type ContextHook struct{}

// Run implements zerolog.Hook.
func (h ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if path := GetDocument(ctx); path != "" {
		e.Str("doc", path)
	}
}
