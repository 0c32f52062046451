// Package journal provides a SQLite-backed history of purchase events.
//
// The journal is an audit trail next to the JSON document, not a second
// source of truth: the engine never reads it to make decisions, and a
// journal write failure is logged and ignored.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// All history queries order by seq, the insertion order.
package journal
