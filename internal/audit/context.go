package audit

import "context"

// Meta carries request-level attribution for audit entries.
type Meta struct {
	IP        string
	UserAgent string
}

type metaKey struct{}

// WithMeta attaches request attribution to ctx.
func WithMeta(ctx context.Context, m Meta) context.Context {
	return context.WithValue(ctx, metaKey{}, m)
}

// MetaFromContext returns the request attribution, zero if absent.
func MetaFromContext(ctx context.Context) Meta {
	m, _ := ctx.Value(metaKey{}).(Meta)
	return m
}
