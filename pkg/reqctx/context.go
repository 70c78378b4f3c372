// Package reqctx carries request-scoped metadata through context. The HTTP
// middleware sets it for every request; services and workers read it for
// logging. Auth claims are not carried here: they live in fiber Locals, see
// pkg/paseto.
package reqctx

import (
	"context"
	"time"
)

// ctxKey is unexported so no other package can collide with our keys.
type ctxKey int

const keyRequestMeta ctxKey = iota

// RequestMeta is what the request-ID middleware records about each request.
type RequestMeta struct {
	// RequestID is a UUID v4, either taken from the X-Request-ID header or
	// generated.
	RequestID string

	// ClientIP honors X-Forwarded-For when the proxy sets it.
	ClientIP string

	UserAgent   string
	RequestedAt time.Time
}

func WithRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, keyRequestMeta, meta)
}

func RequestMetaFromContext(ctx context.Context) (*RequestMeta, bool) {
	meta, ok := ctx.Value(keyRequestMeta).(*RequestMeta)
	return meta, ok && meta != nil
}

// RequestIDFromContext returns just the request ID, empty when unset. Handy
// for log fields.
func RequestIDFromContext(ctx context.Context) string {
	if meta, ok := RequestMetaFromContext(ctx); ok {
		return meta.RequestID
	}
	return ""
}
