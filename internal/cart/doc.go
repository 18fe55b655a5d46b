// Package cart implements the shopping cart reconciliation engine.
//
// A cart belongs to exactly one owner, either an authenticated user or
// an anonymous guest identified by a cookie-held id. When a guest
// authenticates, their cart is merged into the user's cart exactly
// once: the guest cart is atomically claimed (fetched and deleted in
// one storage operation) before quantities are folded, so retried
// merges no-op instead of double-counting.
package cart
