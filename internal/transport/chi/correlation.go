package chi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"go.uber.org/zap"

	logpkg "github.com/vector-catalog/gateway/internal/logger"
)

// CorrelationHeader carries the request correlation id in both directions.
const CorrelationHeader = "X-Correlation-ID"

type correlationKey struct{}

// CorrelationMiddleware reads the correlation header or synthesizes a
// 16-hex-char id, echoes it on the response, and binds a per-request logger
// carrying it into the context.
func CorrelationMiddleware(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(CorrelationHeader)
			if id == "" {
				id = newCorrelationID()
			}
			w.Header().Set(CorrelationHeader, id)

			ctx := context.WithValue(r.Context(), correlationKey{}, id)
			ctx = logpkg.ContextWithLogger(ctx, base.With(zap.String("correlation_id", id)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CorrelationFromContext returns the request's correlation id, or "".
func CorrelationFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return id
	}
	return ""
}

func newCorrelationID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
