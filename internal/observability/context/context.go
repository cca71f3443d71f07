// Package obscontext carries correlation identifiers through request contexts.
package obscontext

import "context"

type requestIDKey struct{}
type actorKey struct{}

type actor struct {
	userID string
}

// WithRequestID stores the request identifier in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request identifier, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(requestIDKey{}).(string); ok {
		return value
	}
	return ""
}

// WithUserID stores the authenticated user id in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor{userID: userID})
}

// UserIDFromContext returns the authenticated user id, or "".
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(actorKey{}).(actor); ok {
		return value.userID
	}
	return ""
}
