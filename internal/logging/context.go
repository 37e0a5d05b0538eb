package logging

import "context"

type requestIDKey struct{}

// RequestIDKey is the attribute name loggers use for the request id.
const RequestIDKey = "request_id"

// WithRequestID returns a copy of ctx carrying id. Loggers add it to every
// entry written with that context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func withRequestID(ctx context.Context, args []any) []any {
	if id := RequestID(ctx); id != "" {
		return append(args, RequestIDKey, id)
	}
	return args
}
