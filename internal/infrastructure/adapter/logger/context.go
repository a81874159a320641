package logger

import "context"

type ctxKey struct{}

// RequestIDKey is the field name used for the request correlation id
const RequestIDKey = "request_id"

// WithRequestID returns a context carrying the request id
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestIDFromContext returns the request id stored in ctx, if any
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithContextFields adds the request id from ctx to fields.
// The map is modified in place and returned; nil is allowed.
func WithContextFields(ctx context.Context, fields map[string]any) map[string]any {
	id := RequestIDFromContext(ctx)
	if id == "" {
		return fields
	}
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields[RequestIDKey] = id
	return fields
}
