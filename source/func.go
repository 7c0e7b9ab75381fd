package source

import (
	"context"

	"github.com/goliatone/go-category-cache/category"
)

// Func adapts a plain function to a source.
type Func func(ctx context.Context) ([]category.WireRecord, error)

// FetchCategories calls f.
func (f Func) FetchCategories(ctx context.Context) ([]category.WireRecord, error) {
	return f(ctx)
}

// Static returns a source that always yields records.
func Static(records ...category.WireRecord) Func {
	return func(context.Context) ([]category.WireRecord, error) {
		out := make([]category.WireRecord, len(records))
		copy(out, records)
		return out, nil
	}
}
