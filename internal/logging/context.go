package logging

import "context"

type ctxKey struct{}

// RequestIDKey is the attribute name under which the request id is logged.
const RequestIDKey = "request_id"

// WithRequestID returns ctx carrying id. Both logger implementations add it
// to every record logged with that context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestIDFromContext returns the request id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
