package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ContextKey namespaces values this package stores on request contexts.
type ContextKey string

// TraceIDKey is the context key for the request trace ID.
const TraceIDKey ContextKey = "traceID"

// WithTraceID returns ctx carrying a new random trace ID.
func WithTraceID(ctx context.Context) (context.Context, string) {
	traceID := strings.ReplaceAll(uuid.NewString(), "-", "")
	return context.WithValue(ctx, TraceIDKey, traceID), traceID
}

// GetTraceID returns the trace ID stored on ctx, or "".
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}
