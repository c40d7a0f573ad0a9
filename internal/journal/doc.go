// Package journal records pedalboard announcements in an append-only
// SQLite log.
//
// The journal is a downstream observer: it never feeds state back into the
// controllers, and the core does not depend on it. It exists so the CLI can
// trace what a session announced and so a replica can be rebuilt from the
// log (see the mirror package).
//
// # Ordering
//
// Every record is stamped with a seq from a monotonic logical Clock. All
// reads use ORDER BY seq ASC, so replaying the log reproduces announcement
// order exactly. Wall-clock timestamps are never used for ordering.
//
// # Identity
//
// Record IDs are content-addressed (ir.EventID) over the canonical encoding
// of the record's fields and its seq.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads while the CLI appends
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
package journal
