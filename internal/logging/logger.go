// Package logging is the structured logging seam of the server. Code logs
// through Logger; slog and zap back it, picked by the log_backend setting.
package logging

import "context"

// ModuleKey names the attribute that tags entries with the component that
// wrote them.
const ModuleKey = "module"

// Logger takes a message plus alternating attribute names and values:
//
//	log.Info(ctx, "listing created", "listing_id", id, "owner", ownerID)
//
// A request id stored with WithRequestID is appended to every entry.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With binds args to every entry of the returned logger.
	With(args ...any) Logger
}

// ForModule returns l tagged with the component name.
func ForModule(l Logger, module string) Logger {
	return l.With(ModuleKey, module)
}
