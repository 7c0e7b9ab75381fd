package source

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"

	"github.com/goliatone/go-category-cache/category"
)

// Lister is the read side of a go-repository-bun repository.
type Lister[T any] interface {
	List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error)
}

// Repository lists every model from a repository and maps each one to a
// wire record.
type Repository[T any] struct {
	repo     Lister[T]
	mapper   func(T) category.WireRecord
	criteria []repository.SelectCriteria
}

// NewRepository creates a repository backed source.
func NewRepository[T any](repo Lister[T], mapper func(T) category.WireRecord, criteria ...repository.SelectCriteria) (*Repository[T], error) {
	if repo == nil || mapper == nil {
		return nil, goerrors.New("repository and mapper are required", goerrors.CategoryValidation).
			WithTextCode("SOURCE_REPOSITORY_REQUIRED")
	}
	return &Repository[T]{repo: repo, mapper: mapper, criteria: criteria}, nil
}

// FetchCategories lists the models and maps them in order.
func (r *Repository[T]) FetchCategories(ctx context.Context) ([]category.WireRecord, error) {
	models, _, err := r.repo.List(ctx, r.criteria...)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "list categories")
	}

	out := make([]category.WireRecord, len(models))
	for i, m := range models {
		out[i] = r.mapper(m)
	}
	return out, nil
}
