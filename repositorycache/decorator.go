package repositorycache

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Interface assertion to ensure InvalidatingRepository implements Repository[T]
var _ repository.Repository[any] = (*InvalidatingRepository[any])(nil)

// Invalidator drops a cached view derived from the repository's table.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func(ctx context.Context)

// Invalidate calls f.
func (f InvalidatorFunc) Invalidate(ctx context.Context) {
	f(ctx)
}

// InvalidatingRepository decorates a base repository so that every successful
// write invalidates the registered caches. Reads pass through untouched.
type InvalidatingRepository[T any] struct {
	base         repository.Repository[T]
	invalidators []Invalidator
}

// New wraps base. Each invalidator is called once per successful write.
func New[T any](base repository.Repository[T], invalidators ...Invalidator) *InvalidatingRepository[T] {
	return &InvalidatingRepository[T]{
		base:         base,
		invalidators: invalidators,
	}
}

// Get retrieves a single record using the provided criteria
func (c *InvalidatingRepository[T]) Get(ctx context.Context, criteria ...repository.SelectCriteria) (T, error) {
	return c.base.Get(ctx, criteria...)
}

// GetByID retrieves a record by ID with optional criteria
func (c *InvalidatingRepository[T]) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (T, error) {
	return c.base.GetByID(ctx, id, criteria...)
}

// List retrieves multiple records using the provided criteria
func (c *InvalidatingRepository[T]) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error) {
	return c.base.List(ctx, criteria...)
}

// Count returns the number of records matching the criteria
func (c *InvalidatingRepository[T]) Count(ctx context.Context, criteria ...repository.SelectCriteria) (int, error) {
	return c.base.Count(ctx, criteria...)
}

// GetByIdentifier retrieves a record by identifier
func (c *InvalidatingRepository[T]) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (T, error) {
	return c.base.GetByIdentifier(ctx, identifier, criteria...)
}

// Create creates a new record
func (c *InvalidatingRepository[T]) Create(ctx context.Context, record T, criteria ...repository.InsertCriteria) (T, error) {
	result, err := c.base.Create(ctx, record, criteria...)
	c.afterWrite(ctx, err)
	return result, err
}

// CreateTx creates a new record within a transaction
func (c *InvalidatingRepository[T]) CreateTx(ctx context.Context, tx bun.IDB, record T, criteria ...repository.InsertCriteria) (T, error) {
	result, err := c.base.CreateTx(ctx, tx, record, criteria...)
	c.afterWrite(ctx, err)
	return result, err
}

// CreateMany creates multiple records
func (c *InvalidatingRepository[T]) CreateMany(ctx context.Context, records []T, criteria ...repository.InsertCriteria) ([]T, error) {
	result, err := c.base.CreateMany(ctx, records, criteria...)
	c.afterWrite(ctx, err)
	return result, err
}

// CreateManyTx creates multiple records within a transaction
func (c *InvalidatingRepository[T]) CreateManyTx(ctx context.Context, tx bun.IDB, records []T, criteria ...repository.InsertCriteria) ([]T, error) {
	result, err := c.base.CreateManyTx(ctx, tx, records, criteria...)
	c.afterWrite(ctx, err)
	return result, err
}

// GetOrCreate gets a record or creates it if it doesn't exist. It always
// invalidates on success since the base does not report whether it created.
func (c *InvalidatingRepository[T]) GetOrCreate(ctx context.Context, record T) (T, error) {
	result, err := c.base.GetOrCreate(ctx, record)
	c.afterWrite(ctx, err)
	return result, err
}

// GetOrCreateTx gets a record or creates it if it doesn't exist within a transaction
func (c *InvalidatingRepository[T]) GetOrCreateTx(ctx context.Context, tx bun.IDB, record T) (T, error) {
	result, err := c.base.GetOrCreateTx(ctx, tx, record)
	c.afterWrite(ctx, err)
	return result, err
}

// Update updates a record
func (c *InvalidatingRepository[T]) Update(ctx context.Context, record T, criteria ...repository.UpdateCriteria) (T, error) {
	result, err := c.base.Update(ctx, record, criteria...)
	c.afterWrite(ctx, err)
	return result, err
}

// UpdateTx updates a record within a transaction
func (c *InvalidatingRepository[T]) UpdateTx(ctx context.Context, tx bun.IDB, record T, criteria ...repository.UpdateCriteria) (T, error) {
	result, err := c.base.UpdateTx(ctx, tx, record, criteria...)
	c.afterWrite(ctx, err)
	return result, err
}

// UpdateMany updates multiple records
func (c *InvalidatingRepository[T]) UpdateMany(ctx context.Context, records []T, criteria ...repository.UpdateCriteria) ([]T, error) {
	result, err := c.base.UpdateMany(ctx, records, criteria...)
	c.afterWrite(ctx, err)
	return result, err
}

// UpdateManyTx updates multiple records within a transaction
func (c *InvalidatingRepository[T]) UpdateManyTx(ctx context.Context, tx bun.IDB, records []T, criteria ...repository.UpdateCriteria) ([]T, error) {
	result, err := c.base.UpdateManyTx(ctx, tx, records, criteria...)
	c.afterWrite(ctx, err)
	return result, err
}

// Upsert inserts or updates a record
func (c *InvalidatingRepository[T]) Upsert(ctx context.Context, record T, criteria ...repository.UpdateCriteria) (T, error) {
	result, err := c.base.Upsert(ctx, record, criteria...)
	c.afterWrite(ctx, err)
	return result, err
}

// UpsertTx inserts or updates a record within a transaction
func (c *InvalidatingRepository[T]) UpsertTx(ctx context.Context, tx bun.IDB, record T, criteria ...repository.UpdateCriteria) (T, error) {
	result, err := c.base.UpsertTx(ctx, tx, record, criteria...)
	c.afterWrite(ctx, err)
	return result, err
}

// UpsertMany inserts or updates multiple records
func (c *InvalidatingRepository[T]) UpsertMany(ctx context.Context, records []T, criteria ...repository.UpdateCriteria) ([]T, error) {
	result, err := c.base.UpsertMany(ctx, records, criteria...)
	c.afterWrite(ctx, err)
	return result, err
}

// UpsertManyTx inserts or updates multiple records within a transaction
func (c *InvalidatingRepository[T]) UpsertManyTx(ctx context.Context, tx bun.IDB, records []T, criteria ...repository.UpdateCriteria) ([]T, error) {
	result, err := c.base.UpsertManyTx(ctx, tx, records, criteria...)
	c.afterWrite(ctx, err)
	return result, err
}

// Delete deletes a record
func (c *InvalidatingRepository[T]) Delete(ctx context.Context, record T) error {
	err := c.base.Delete(ctx, record)
	c.afterWrite(ctx, err)
	return err
}

// DeleteTx deletes a record within a transaction
func (c *InvalidatingRepository[T]) DeleteTx(ctx context.Context, tx bun.IDB, record T) error {
	err := c.base.DeleteTx(ctx, tx, record)
	c.afterWrite(ctx, err)
	return err
}

// DeleteMany deletes multiple records based on criteria
func (c *InvalidatingRepository[T]) DeleteMany(ctx context.Context, criteria ...repository.DeleteCriteria) error {
	err := c.base.DeleteMany(ctx, criteria...)
	c.afterWrite(ctx, err)
	return err
}

// DeleteManyTx deletes multiple records based on criteria within a transaction
func (c *InvalidatingRepository[T]) DeleteManyTx(ctx context.Context, tx bun.IDB, criteria ...repository.DeleteCriteria) error {
	err := c.base.DeleteManyTx(ctx, tx, criteria...)
	c.afterWrite(ctx, err)
	return err
}

// DeleteWhere deletes records based on criteria
func (c *InvalidatingRepository[T]) DeleteWhere(ctx context.Context, criteria ...repository.DeleteCriteria) error {
	err := c.base.DeleteWhere(ctx, criteria...)
	c.afterWrite(ctx, err)
	return err
}

// DeleteWhereTx deletes records based on criteria within a transaction
func (c *InvalidatingRepository[T]) DeleteWhereTx(ctx context.Context, tx bun.IDB, criteria ...repository.DeleteCriteria) error {
	err := c.base.DeleteWhereTx(ctx, tx, criteria...)
	c.afterWrite(ctx, err)
	return err
}

// ForceDelete permanently deletes a record
func (c *InvalidatingRepository[T]) ForceDelete(ctx context.Context, record T) error {
	err := c.base.ForceDelete(ctx, record)
	c.afterWrite(ctx, err)
	return err
}

// ForceDeleteTx permanently deletes a record within a transaction
func (c *InvalidatingRepository[T]) ForceDeleteTx(ctx context.Context, tx bun.IDB, record T) error {
	err := c.base.ForceDeleteTx(ctx, tx, record)
	c.afterWrite(ctx, err)
	return err
}

// Transaction reads pass through.

func (c *InvalidatingRepository[T]) GetTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) (T, error) {
	return c.base.GetTx(ctx, tx, criteria...)
}

func (c *InvalidatingRepository[T]) GetByIDTx(ctx context.Context, tx bun.IDB, id string, criteria ...repository.SelectCriteria) (T, error) {
	return c.base.GetByIDTx(ctx, tx, id, criteria...)
}

func (c *InvalidatingRepository[T]) ListTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) ([]T, int, error) {
	return c.base.ListTx(ctx, tx, criteria...)
}

func (c *InvalidatingRepository[T]) CountTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) (int, error) {
	return c.base.CountTx(ctx, tx, criteria...)
}

func (c *InvalidatingRepository[T]) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (T, error) {
	return c.base.GetByIdentifierTx(ctx, tx, identifier, criteria...)
}

// Raw runs a raw query. Raw statements may write, so a successful call
// invalidates.
func (c *InvalidatingRepository[T]) Raw(ctx context.Context, sql string, args ...any) ([]T, error) {
	result, err := c.base.Raw(ctx, sql, args...)
	c.afterWrite(ctx, err)
	return result, err
}

// RawTx runs a raw query within a transaction
func (c *InvalidatingRepository[T]) RawTx(ctx context.Context, tx bun.IDB, sql string, args ...any) ([]T, error) {
	result, err := c.base.RawTx(ctx, tx, sql, args...)
	c.afterWrite(ctx, err)
	return result, err
}

// Handlers returns the model handlers from the base repository
func (c *InvalidatingRepository[T]) Handlers() repository.ModelHandlers[T] {
	return c.base.Handlers()
}

// Invalidate calls every registered invalidator unconditionally. Use it after
// committing a transaction or after a batch run under WithoutInvalidation.
func (c *InvalidatingRepository[T]) Invalidate(ctx context.Context) {
	for _, inv := range c.invalidators {
		inv.Invalidate(ctx)
	}
}

func (c *InvalidatingRepository[T]) afterWrite(ctx context.Context, err error) {
	if err != nil || invalidationSuppressed(ctx) {
		return
	}
	c.Invalidate(ctx)
}
