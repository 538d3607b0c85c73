package kit

import (
	"context"
	"log/slog"
	"time"
)

// Logging records one line per endpoint call with the transport and request
// ID already stamped on the context. Failures log at warn so they show up
// at the default level.
func Logging(logger *slog.Logger, name string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			attrs := []any{
				"endpoint", name,
				"transport", GetTransport(ctx),
				"request_id", GetRequestID(ctx),
				"duration", time.Since(start),
			}
			if err != nil {
				logger.Warn("endpoint failed", append(attrs, "error", err)...)
			} else {
				logger.Debug("endpoint handled", attrs...)
			}
			return resp, err
		}
	}
}
