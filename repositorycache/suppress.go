package repositorycache

import (
	"context"
)

type suppressInvalidationKey struct{}

// WithoutInvalidation returns a context under which successful writes do not
// invalidate. The caller must call Invalidate once the batch is done.
func WithoutInvalidation(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, suppressInvalidationKey{}, true)
}

func invalidationSuppressed(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	suppressed, _ := ctx.Value(suppressInvalidationKey{}).(bool)
	return suppressed
}
