// Package store implements the category Cache Store: it serves the current
// flat list of categories, fetching from a Source only when the cached list is
// missing or older than the TTL.
//
// Concurrent callers that arrive while a fetch is running share that fetch.
// A failed fetch never replaces the cached list: callers receive the last
// known good list (or an empty one) together with the error, and the failure
// is logged, counted and handed to the optional error handler.
//
// Every write to the categories upstream must be followed by Invalidate or
// Refresh on the shared Store instance, otherwise readers may see data up to
// one TTL old.
package store
