package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for pack render run IDs.
	RunIDKey contextKey = "run_id"

	// PackKey is the context key for hunt pack names.
	PackKey contextKey = "pack"

	// HuntIDKey is the context key for hunt identifiers.
	HuntIDKey contextKey = "hunt_id"

	// PatternKey is the context key for template pattern names.
	PatternKey contextKey = "pattern"
)

// contextKeys lists the keys lifted into log records, in output order.
var contextKeys = []contextKey{RunIDKey, PackKey, HuntIDKey, PatternKey}

// WithRunID adds a render run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the render run ID from the context.
func GetRunID(ctx context.Context) string {
	return getString(ctx, RunIDKey)
}

// WithPack adds a hunt pack name to the context.
func WithPack(ctx context.Context, pack string) context.Context {
	return context.WithValue(ctx, PackKey, pack)
}

// GetPack retrieves the hunt pack name from the context.
func GetPack(ctx context.Context) string {
	return getString(ctx, PackKey)
}

// WithHuntID adds a hunt identifier to the context.
func WithHuntID(ctx context.Context, huntID string) context.Context {
	return context.WithValue(ctx, HuntIDKey, huntID)
}

// GetHuntID retrieves the hunt identifier from the context.
func GetHuntID(ctx context.Context) string {
	return getString(ctx, HuntIDKey)
}

// WithPattern adds a template pattern name to the context.
func WithPattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, PatternKey, pattern)
}

// GetPattern retrieves the template pattern name from the context.
func GetPattern(ctx context.Context) string {
	return getString(ctx, PatternKey)
}

func getString(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// extractContextFields returns key/value pairs for every known field set in ctx.
func extractContextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	var fields []any
	for _, key := range contextKeys {
		if v := getString(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}
