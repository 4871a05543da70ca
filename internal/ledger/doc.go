// Package ledger provides SQLite-backed durable storage for the daily
// operations fact store.
//
// The ledger is an append-only record of daily facts:
//   - Daily logs: the single immutable end-of-day metrics submission
//   - Work sessions: timed focus intervals with a global focus lock
//   - Derived scores: append-only scoring history (latest id wins)
//   - Config versions and per-day routing pins
//   - Audit events: the operation trail, stamped with op tokens
//
// # Critical Patterns
//
// Immutability is structural, not advisory: fact-bearing tables carry
// BEFORE UPDATE / BEFORE DELETE triggers that abort the statement, so a
// misbehaving caller cannot rewrite history even with raw SQL access.
//
// The focus lock (at most one open work session) is enforced by a
// BEFORE INSERT trigger evaluated inside the insert transaction, never by
// a read-then-write from the caller.
//
// Each logical operation runs in a single transaction: all of its inserts
// commit together or not at all.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package ledger
