package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sellbot/internal/engine"
	"github.com/roach88/sellbot/internal/journal"
	"github.com/roach88/sellbot/internal/model"
)

func sampleTrace() *Result {
	r := NewResult()
	r.AddInvocationTrace("add_product", map[string]any{"product": "p1"}, 1)
	r.AddCompletionTrace("add_product", CaseSuccess, nil, 2)
	r.AddInvocationTrace("submit_proof", map[string]any{"user": 42}, 3)
	r.AddCompletionTrace("submit_proof", CaseSuccess, map[string]any{"request_id": "req-0001"}, 4)
	r.AddNoticeTrace(engine.Notice{Kind: engine.NoticeProof, To: 1000, ProductID: "p1", BuyerID: 42}, 5)
	r.AddInvocationTrace("approve", map[string]any{"user": 42}, 6)
	r.AddCompletionTrace("approve", CaseSuccess, nil, 7)
	r.AddNoticeTrace(engine.Notice{Kind: engine.NoticeCredentials, To: 42, ProductID: "p1"}, 8)
	return r
}

func TestAssertTraceOrder(t *testing.T) {
	r := sampleTrace()

	assert.NoError(t, assertTraceOrder(r.Trace, Assertion{Ops: []string{"add_product", "approve"}}))
	assert.NoError(t, assertTraceOrder(r.Trace, Assertion{Ops: []string{"submit_proof"}}))

	err := assertTraceOrder(r.Trace, Assertion{Ops: []string{"approve", "submit_proof"}})
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Actual, "should be before")

	err = assertTraceOrder(r.Trace, Assertion{Ops: []string{"submit_proof", "reject"}})
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "missing op: reject", ae.Actual)
}

func TestAssertTraceCount(t *testing.T) {
	r := sampleTrace()

	assert.NoError(t, assertTraceCount(r.Trace, Assertion{Op: "approve", Count: 1}))
	assert.NoError(t, assertTraceCount(r.Trace, Assertion{Op: "reject", Count: 0}))
	assert.Error(t, assertTraceCount(r.Trace, Assertion{Op: "approve", Count: 2}))
}

func TestAssertNoticeCount(t *testing.T) {
	r := sampleTrace()

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   bool
	}{
		{"all", Assertion{Count: 2}, false},
		{"by recipient", Assertion{To: 42, Count: 1}, false},
		{"by kind", Assertion{Kind: "proof", Count: 1}, false},
		{"by both", Assertion{To: 42, Kind: "proof", Count: 0}, false},
		{"wrong count", Assertion{To: 1000, Count: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertNoticeCount(r, tt.assertion)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertTraceCount,
		Expected: "2 occurrences of approve",
		Actual:   "1 occurrences",
		Trace:    sampleTrace().Trace,
	}
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: trace_count")
	assert.Contains(t, msg, "Expected: 2 occurrences of approve")
	assert.Contains(t, msg, "[3] submit_proof")
	assert.Contains(t, msg, "[8] notice credentials to 42")
}

func stateContext(t *testing.T) *AssertionContext {
	t.Helper()
	ctx := context.Background()

	j, err := journal.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })

	eng := engine.New(model.NewDocument(), nil, nil, 1000, engine.WithJournal(j))
	require.NoError(t, eng.AddProduct(ctx, 1000, "p1", engine.ProductInput{
		Price: "10", Username: "u", Password: "pw", Secret: "S", Name: "Gold",
	}))
	_, err = eng.SubmitProof(ctx, 42, "p1", "photo")
	require.NoError(t, err)
	_, err = eng.Approve(ctx, 1000, 42, "p1")
	require.NoError(t, err)
	_, err = eng.SubmitProof(ctx, 43, "p1", "photo")
	require.NoError(t, err)
	require.NoError(t, eng.SetLanguage(ctx, 42, "fa"))

	return &AssertionContext{Ctx: ctx, Engine: eng, Journal: j}
}

func TestAssertFinalState(t *testing.T) {
	actx := stateContext(t)

	tests := []struct {
		name    string
		a       Assertion
		wantErr string
	}{
		{
			name: "product fields",
			a: Assertion{Table: "products", Where: map[string]any{"product": "p1"},
				Expect: map[string]any{"price": "10", "name": "Gold", "buyers": []any{42}}},
		},
		{
			name: "missing product",
			a: Assertion{Table: "products", Where: map[string]any{"product": "p2"},
				Expect: map[string]any{"exists": false}},
		},
		{
			name: "buyer mismatch",
			a: Assertion{Table: "products", Where: map[string]any{"product": "p1"},
				Expect: map[string]any{"buyers": []any{42, 43}}},
			wantErr: `"buyers"`,
		},
		{
			name: "unknown field",
			a: Assertion{Table: "products", Where: map[string]any{"product": "p1"},
				Expect: map[string]any{"stock": 1}},
			wantErr: `field "stock" to exist`,
		},
		{
			name: "pending all",
			a:    Assertion{Table: "pending", Expect: map[string]any{"count": 1}},
		},
		{
			name: "pending by user",
			a: Assertion{Table: "pending", Where: map[string]any{"user": 42},
				Expect: map[string]any{"count": 0}},
		},
		{
			name: "language",
			a: Assertion{Table: "languages", Where: map[string]any{"user": 42},
				Expect: map[string]any{"language": "fa"}},
		},
		{
			name: "default language",
			a: Assertion{Table: "languages", Where: map[string]any{"user": 43},
				Expect: map[string]any{"language": "en"}},
		},
		{
			name: "history",
			a: Assertion{Table: "history", Where: map[string]any{"product": "p1"},
				Expect: map[string]any{"count": 4, "kinds": []any{"product_added", "submitted", "approved", "submitted"}}},
		},
		{
			name: "query error",
			a: Assertion{Table: "products", Where: map[string]any{},
				Expect: map[string]any{"exists": true}},
			wantErr: "query error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertFinalState(actx, tt.a)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEvaluateAssertions(t *testing.T) {
	r := sampleTrace()
	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertTraceCount, Op: "approve", Count: 1},
		{Type: AssertNoticeCount, Count: 5},
		{Type: AssertFinalState, Table: "pending", Expect: map[string]any{"count": 0}},
		{Type: "bogus"},
	}, nil)

	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "notice_count")
	assert.Contains(t, errs[1], "final_state requires an engine")
	assert.Contains(t, errs[2], `unknown assertion type "bogus"`)
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, valuesEqual(int64(2), 2))
	assert.True(t, valuesEqual(2, 2.0))
	assert.True(t, valuesEqual([]int64{42}, []any{42}))
	assert.True(t, valuesEqual([]int64{}, []any{}))
	assert.True(t, valuesEqual([]string{"a"}, []any{"a"}))
	assert.False(t, valuesEqual("10", 10))
	assert.False(t, valuesEqual(nil, 0))
	assert.True(t, valuesEqual(nil, nil))
}
