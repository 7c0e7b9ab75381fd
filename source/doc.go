// Package source provides the upstream adapters a category store fetches
// from: an HTTP endpoint, a Postgres table, a go-repository-bun repository or
// a plain function. Every adapter returns wire records; normalization happens
// in the store.
package source
