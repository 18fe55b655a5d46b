// Package catalog implements the product catalog with a read-through
// TTL cache in front of storage.
//
// Reads (list, detail, categories, stats, count) consult a
// namespace-scoped cache before touching the repository; every
// mutation clears all catalog namespaces unconditionally. Cache keys
// for list reads are derived from the normalized query tuple so that
// equivalent queries always share an entry.
package catalog
