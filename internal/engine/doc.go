// Package engine implements the purchase workflow.
//
// A buyer selects a product and submits a payment proof; the admin
// approves or rejects it; approved buyers receive credentials and can ask
// for the product's current one-time code at any time.
//
// STATE MACHINE (per purchase attempt):
//
//	NoRequest -> ProofSubmitted -> Approved | Rejected
//
// Approved and Rejected are terminal for that request. A user may submit
// again for the same product right away.
//
// CONCURRENCY:
// One mutex guards the whole document. Every operation reads, mutates and
// persists under it, so concurrent approvals of one pending entry resolve
// it exactly once. Notices are posted to an Outbox after the lock is
// released; delivery is best-effort.
//
// PERSISTENCE:
// Mutate, then save. A failed save is logged and counted but the
// in-memory change stands.
//
// ERRORS:
// All workflow errors are *Error values carrying an ErrorCode. Every code
// except CodeStorageIO is an expected outcome to be shown to the actor.
package engine
