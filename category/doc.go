// Package category defines the category record shared by the cache store and
// the hierarchy service, together with the normalization step that turns the
// loosely typed records returned by a remote source into fully populated values.
//
// Every optional wire field is backfilled exactly once, before a record enters
// the cache:
//
//	parentId  -> "" (top level)
//	isActive  -> true
//	order     -> 0
//	type      -> "main"
//
// Records without an identifier are dropped by NormalizeAll and never reach
// any derived view.
package category
