package logging

import "context"

type requestIDKey struct{}

// ContextWithRequestID returns ctx carrying the HTTP request ID. Records
// logged with that context get a "request_id" field.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID, or "" when absent.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
