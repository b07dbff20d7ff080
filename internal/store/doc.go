// Package store is the authoritative keeper of chat state: the user, bot,
// and channel registries and the per-channel message history.
//
// # Registries
//
// Registration is idempotent and keyed by id. Add methods report whether
// the entity was genuinely new so callers can fire notifications only on
// real additions. First registration wins for display metadata. The store
// records each entity's registration time; channel listings use it as the
// activity fallback for channels with no messages yet.
//
// # History
//
// Each channel's history is an insertion-ordered slice capped at the
// retention limit (default 500). Writing past the cap evicts the oldest
// entries of the channel written to. Message ids are assigned at write time
// when the caller leaves them empty and key edit/remove/get operations.
//
// The direct-message sentinel must never reach this package: callers
// resolve it to a concrete private channel first, and the store panics if
// handed the sentinel id.
//
// All operations are guarded by a single mutex; returned slices are copies.
package store
