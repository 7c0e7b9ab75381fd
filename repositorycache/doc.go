// Package repositorycache keeps cached views consistent with a
// go-repository-bun table.
//
// # Overview
//
// InvalidatingRepository wraps a base repository. Reads pass straight through;
// every write that returns without error calls each registered Invalidator.
// A category store is the usual invalidator: the next read of the category
// list after a write fetches it again.
//
//	base := categoryrepo.New(db) // any repository.Repository[T]
//	repo := repositorycache.New[*Category](base, categoryStore)
//
//	_, err := repo.Update(ctx, cat) // categoryStore.Invalidate runs on success
//
// # Transactions
//
// The Tx variants invalidate as soon as the statement succeeds, before the
// caller commits. A reader that fetches in that window may cache the
// pre-commit list until its TTL expires. Callers that need the committed
// state cached should call Invalidate again after Commit.
//
// # Batches
//
// Writes made with a context from WithoutInvalidation do not invalidate.
// Call Invalidate once the batch is complete:
//
//	batch := repositorycache.WithoutInvalidation(ctx)
//	for _, c := range imported {
//		if _, err := repo.Upsert(batch, c); err != nil {
//			return err
//		}
//	}
//	repo.Invalidate(ctx)
//
// # Raw queries
//
// Raw and RawTx are treated as writes since the decorator cannot tell a
// SELECT from an UPDATE.
package repositorycache
