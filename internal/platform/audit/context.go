package audit

import "context"

type contextKey string

const requestMetaKey contextKey = "audit_request_meta"

// RequestMeta carries client metadata from the HTTP layer into audit
// records. It rides the request context so domain services stay unaware of
// the transport.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// WithRequestMeta attaches client metadata to ctx.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey, meta)
}

// RequestMetaFromContext returns the client metadata attached by the HTTP
// layer, or a zero value when the mutation did not originate from a request.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey).(RequestMeta)
	return meta
}
