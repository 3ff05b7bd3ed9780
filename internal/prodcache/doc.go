// Package prodcache decides whether produced segment and capsule files can
// be reused, and owns the on-disk layout of a capsule.
//
// A cache key is the SHA-256 of an entity's canonical JSON form (sorted
// keys, compact separators) with its own produced_hash cleared. When the
// key equals the stored hash the previous output, named after the hash, is
// reused. Only one render of a capsule may run at a time; Store.Lock takes
// an advisory file lock to turn concurrent runs into a clear error.
package prodcache
