package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/sellbot/internal/engine"
	"github.com/roach88/sellbot/internal/journal"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			switch event.Type {
			case EventInvocation:
				fmt.Fprintf(&buf, "  [%d] %s %v\n", event.Seq, event.Op, event.Args)
			case EventNotice:
				fmt.Fprintf(&buf, "  [%d] notice %s to %d\n", event.Seq, event.Notice.Kind, event.Notice.To)
			}
		}
	}
	return buf.String()
}

// Historian reads the purchase journal. Implemented by *journal.Journal.
type Historian interface {
	History(ctx context.Context, productID string, limit int) ([]journal.Entry, error)
}

// AssertionContext provides the final state for final_state assertions.
type AssertionContext struct {
	Ctx     context.Context
	Engine  *engine.Engine
	Journal Historian
}

// assertTraceOrder checks that ops were first invoked in the given order.
// Intervening invocations are allowed.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if event.Type != EventInvocation {
			continue
		}
		if _, seen := positions[event.Op]; !seen {
			positions[event.Op] = i + 1
		}
	}

	for _, op := range assertion.Ops {
		if positions[op] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all ops present: %v", assertion.Ops),
				Actual:   fmt.Sprintf("missing op: %s", op),
				Trace:    trace,
			}
		}
	}
	for i := 1; i < len(assertion.Ops); i++ {
		prev, curr := assertion.Ops[i-1], assertion.Ops[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("ops in order: %v", assertion.Ops),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that op was invoked exactly Count times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Type == EventInvocation && event.Op == assertion.Op {
			count++
		}
	}
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Op),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertNoticeCount counts delivered notices, optionally filtered by
// recipient and kind.
func assertNoticeCount(result *Result, assertion Assertion) error {
	count := 0
	for _, n := range result.Notices() {
		if assertion.To != 0 && n.To != assertion.To {
			continue
		}
		if assertion.Kind != "" && string(n.Kind) != assertion.Kind {
			continue
		}
		count++
	}
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertNoticeCount,
			Expected: fmt.Sprintf("%d notices (to=%d kind=%q)", assertion.Count, assertion.To, assertion.Kind),
			Actual:   fmt.Sprintf("%d notices", count),
			Trace:    result.Trace,
		}
	}
	return nil
}

type stateQuery func(actx *AssertionContext, where map[string]any) (map[string]any, error)

// tables are the final_state collections. Each query returns the selected
// row as field/value pairs.
var tables = map[string]stateQuery{
	"products":  queryProduct,
	"pending":   queryPending,
	"languages": queryLanguage,
	"history":   queryHistory,
}

// queryProduct selects where.product. A missing product yields
// {exists: false} so scenarios can assert deletion.
func queryProduct(actx *AssertionContext, where map[string]any) (map[string]any, error) {
	pid, err := argString(where, "product")
	if err != nil {
		return nil, err
	}
	p, ok := actx.Engine.Product(pid)
	if !ok {
		return map[string]any{"exists": false}, nil
	}
	return map[string]any{
		"exists":   true,
		"price":    p.Price,
		"username": p.Username,
		"password": p.Password,
		"secret":   p.Secret,
		"name":     p.Name,
		"buyers":   p.Buyers,
	}, nil
}

// queryPending counts pending requests matching where.user and
// where.product; both filters are optional.
func queryPending(actx *AssertionContext, where map[string]any) (map[string]any, error) {
	var (
		uid    int64
		hasUID bool
	)
	if _, ok := where["user"]; ok {
		id, err := argUserID(where, "user")
		if err != nil {
			return nil, err
		}
		uid, hasUID = id, true
	}
	pid := engine.NormalizeProductID(optString(where, "product"))

	count := 0
	for _, req := range actx.Engine.Snapshot().Pending {
		if hasUID && req.UserID != uid {
			continue
		}
		if pid != "" && req.ProductID != pid {
			continue
		}
		count++
	}
	return map[string]any{"count": count}, nil
}

func queryLanguage(actx *AssertionContext, where map[string]any) (map[string]any, error) {
	uid, err := argUserID(where, "user")
	if err != nil {
		return nil, err
	}
	return map[string]any{"language": actx.Engine.Language(uid)}, nil
}

// queryHistory returns the journal entry count and kinds, oldest first.
func queryHistory(actx *AssertionContext, where map[string]any) (map[string]any, error) {
	if actx.Journal == nil {
		return nil, fmt.Errorf("history requires a journal")
	}
	pid, err := argString(where, "product")
	if err != nil {
		return nil, err
	}
	entries, err := actx.Journal.History(actx.Ctx, engine.NormalizeProductID(pid), 1000)
	if err != nil {
		return nil, err
	}
	kinds := make([]string, len(entries))
	for i, e := range entries {
		kinds[i] = string(e.Kind)
	}
	return map[string]any{"count": len(entries), "kinds": kinds}, nil
}

// assertFinalState checks the selected row against expected values using
// subset semantics.
func assertFinalState(actx *AssertionContext, assertion Assertion) error {
	query, ok := tables[assertion.Table]
	if !ok {
		return fmt.Errorf("final_state: unknown table %q", assertion.Table)
	}
	row, err := query(actx, assertion.Where)
	if err != nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("query %s where %s", assertion.Table, formatWhere(assertion.Where)),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}

	for _, key := range sortedKeys(assertion.Expect) {
		expected := assertion.Expect[key]
		actual, exists := row[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist in %s", key, assertion.Table),
				Actual:   fmt.Sprintf("fields: %v", sortedKeys(row)),
			}
		}
		if !valuesEqual(actual, expected) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s where %s: %q = %v", assertion.Table, formatWhere(assertion.Where), key, expected),
				Actual:   fmt.Sprintf("%q = %v", key, actual),
			}
		}
	}
	return nil
}

// formatWhere creates a human-readable description of selection criteria.
func formatWhere(where map[string]any) string {
	if len(where) == 0 {
		return "(no conditions)"
	}
	parts := make([]string, 0, len(where))
	for _, k := range sortedKeys(where) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, where[k]))
	}
	return strings.Join(parts, " AND ")
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertNoticeCount:
			err = assertNoticeCount(result, assertion)
		case AssertFinalState:
			if actx == nil || actx.Engine == nil {
				err = fmt.Errorf("assertion[%d]: final_state requires an engine", i)
			} else {
				err = assertFinalState(actx, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
