// Package harness runs purchase workflow scenarios against a real engine.
//
// A scenario is a YAML file describing setup steps, a flow of engine
// operations with expected outcomes, and assertions on the resulting trace
// and final document. The trace records every invocation, its completion and
// each notice the engine delivered, and can be compared with a golden file.
//
// # Scenario Format
//
//	name: approve_purchase
//	description: "Buyer pays, admin approves, buyer reads a code"
//	admin: 1000
//	flow_token: flow-approve
//	setup:
//	  - op: add_product
//	    args: { product: p1, price: "10", username: u, password: pw, secret: S3CR3T }
//	flow:
//	  - op: submit_proof
//	    args: { user: 42, product: p1, proof: photo-1 }
//	  - op: approve
//	    args: { user: 42, product: p1 }
//	  - op: get_code
//	    args: { user: 7, product: p1 }
//	    expect:
//	      case: NOT_PURCHASED
//	assertions:
//	  - type: notice_count
//	    to: 42
//	    kind: credentials
//	    count: 1
//	  - type: final_state
//	    table: products
//	    where: { product: p1 }
//	    expect: { buyers: [42] }
//
// Admin operations run as the scenario admin unless args carry an actor.
// An expect clause names the output case: Success or an engine error code.
// A missing expect clause means Success.
//
// # Assertion Types
//
//   - trace_order: ops were first invoked in the given order
//   - trace_count: an op was invoked exactly N times
//   - notice_count: N notices were delivered, filtered by recipient and kind
//   - final_state: a row of products, pending, languages or history matches
//
// # Deterministic Testing
//
// The clock starts at testutil.Epoch and only moves on advance_clock steps.
// OTP codes come from testutil.FixedOTP, request ids are req-0001, req-0002,
// and so on, and the journal is an in-memory SQLite database per run. The
// same scenario therefore always produces the same trace.
package harness
