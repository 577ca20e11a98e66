// Package store is a SQLite catalog of compiled documents.
//
// Documents are content addressed: the fingerprint (dsl.Fingerprint of the
// canonical body) is unique, so saving the same document twice returns the
// first row. Rows also carry a UUIDv7 id and a sequence number.
//
// # Ordering
//
// Listings are ordered by seq, never by created_at, so two catalogs fed the
// same saves list identically.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
