package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/sellbot/internal/engine"
	"github.com/roach88/sellbot/internal/journal"
	"github.com/roach88/sellbot/internal/model"
	"github.com/roach88/sellbot/internal/testutil"
)

// Harness is the scenario execution engine.
// It runs a real engine with a fixed clock, fixed OTP codes, sequential
// request ids, an in-memory journal and a recording notifier.
type Harness struct {
	eng      *engine.Engine
	journal  *journal.Journal
	notifier *testutil.RecordingNotifier
	clock    *testutil.Clock
	admin    int64
	logger   *slog.Logger

	seq    int64
	traced int // notices already copied into the trace
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh document and journal. A setup step
// that fails, or a step with malformed arguments, aborts the run with an
// error; expectation and assertion failures are reported in the Result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	j, err := journal.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer j.Close()

	admin := scenario.Admin
	if admin == 0 {
		admin = DefaultAdminID
	}

	h := &Harness{
		journal:  j,
		notifier: &testutil.RecordingNotifier{},
		clock:    testutil.NewClock(testutil.Epoch),
		admin:    admin,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	h.eng = engine.New(model.NewDocument(), &testutil.MemorySaver{},
		engine.DirectOutbox{Notifier: h.notifier}, admin,
		engine.WithClock(h.clock.Now),
		engine.WithOTP(testutil.FixedOTP),
		engine.WithJournal(j),
		engine.WithRequestIDs(testutil.SequentialIDs()),
	)

	flow := scenario.FlowToken
	if flow == "" {
		flow = "scenario-flow"
	}
	ctx = engine.WithFlow(ctx, flow)

	result := NewResult()
	for i, step := range scenario.Setup {
		outputCase, _, err := h.execute(ctx, step, result)
		if err != nil {
			return nil, fmt.Errorf("setup[%d] %s: %w", i, step.Op, err)
		}
		if outputCase != CaseSuccess {
			return nil, fmt.Errorf("setup[%d] %s: got %s", i, step.Op, outputCase)
		}
	}

	for i, step := range scenario.Flow {
		outputCase, res, err := h.execute(ctx, step, result)
		if err != nil {
			return nil, fmt.Errorf("flow[%d] %s: %w", i, step.Op, err)
		}
		for _, msg := range checkExpect(step, outputCase, res) {
			result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, step.Op, msg))
		}
		h.logger.Info("flow step completed", "step", i, "op", step.Op, "output_case", outputCase)
	}

	actx := &AssertionContext{Ctx: ctx, Engine: h.eng, Journal: j}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) next() int64 {
	h.seq++
	return h.seq
}

// execute runs one step and appends its invocation, completion and any
// delivered notices to the trace. Engine errors become the output case;
// anything else is returned.
func (h *Harness) execute(ctx context.Context, step Step, result *Result) (string, map[string]any, error) {
	op, ok := operations[step.Op]
	if !ok {
		return "", nil, fmt.Errorf("unknown op %q", step.Op)
	}
	result.AddInvocationTrace(step.Op, step.Args, h.next())

	res, err := op(h, ctx, step.Args)
	outputCase := CaseSuccess
	if err != nil {
		code := engine.CodeOf(err)
		if code == "" {
			return "", nil, err
		}
		outputCase = string(code)
		res = nil
	}
	result.AddCompletionTrace(step.Op, outputCase, res, h.next())

	notices := h.notifier.Notices()
	for _, n := range notices[h.traced:] {
		result.AddNoticeTrace(n, h.next())
	}
	h.traced = len(notices)
	return outputCase, res, nil
}

// checkExpect compares a step outcome with its expect clause.
func checkExpect(step Step, outputCase string, res map[string]any) []string {
	want := CaseSuccess
	if step.Expect != nil {
		want = step.Expect.Case
	}
	if outputCase != want {
		return []string{fmt.Sprintf("expected case %s, got %s", want, outputCase)}
	}
	if step.Expect == nil {
		return nil
	}
	var errs []string
	for _, key := range sortedKeys(step.Expect.Result) {
		expected := step.Expect.Result[key]
		actual, ok := res[key]
		if !ok {
			errs = append(errs, fmt.Sprintf("result field %q missing", key))
			continue
		}
		if !valuesEqual(actual, expected) {
			errs = append(errs, fmt.Sprintf("result field %q = %v, want %v", key, actual, expected))
		}
	}
	return errs
}

type opFunc func(h *Harness, ctx context.Context, args map[string]any) (map[string]any, error)

// operations maps scenario op names to engine calls.
var operations = map[string]opFunc{
	"add_product":    opAddProduct,
	"edit_product":   opEditProduct,
	"delete_product": opDeleteProduct,
	"submit_proof":   opSubmitProof,
	"approve":        opApprove,
	"reject":         opReject,
	"get_code":       opGetCode,
	"delete_buyer":   opDeleteBuyer,
	"clear_buyers":   opClearBuyers,
	"resend":         opResend,
	"set_language":   opSetLanguage,
	"stats":          opStats,
	"list_pending":   opListPending,
	"advance_clock":  opAdvanceClock,
}

func opAddProduct(h *Harness, ctx context.Context, args map[string]any) (map[string]any, error) {
	actor, err := h.actor(args)
	if err != nil {
		return nil, err
	}
	in := engine.ProductInput{
		Price:    optString(args, "price"),
		Username: optString(args, "username"),
		Password: optString(args, "password"),
		Secret:   optString(args, "secret"),
		Name:     optString(args, "name"),
	}
	return nil, h.eng.AddProduct(ctx, actor, optString(args, "product"), in)
}

func opEditProduct(h *Harness, ctx context.Context, args map[string]any) (map[string]any, error) {
	actor, err := h.actor(args)
	if err != nil {
		return nil, err
	}
	pid, err := argString(args, "product")
	if err != nil {
		return nil, err
	}
	field, err := engine.ParseField(optString(args, "field"))
	if err != nil {
		return nil, err
	}
	return nil, h.eng.EditProduct(ctx, actor, pid, field, optString(args, "value"))
}

func opDeleteProduct(h *Harness, ctx context.Context, args map[string]any) (map[string]any, error) {
	actor, err := h.actor(args)
	if err != nil {
		return nil, err
	}
	pid, err := argString(args, "product")
	if err != nil {
		return nil, err
	}
	return nil, h.eng.DeleteProduct(ctx, actor, pid)
}

func opSubmitProof(h *Harness, ctx context.Context, args map[string]any) (map[string]any, error) {
	uid, pid, err := userAndProduct(args)
	if err != nil {
		return nil, err
	}
	req, err := h.eng.SubmitProof(ctx, uid, pid, optString(args, "proof"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"request_id": req.ID}, nil
}

func opApprove(h *Harness, ctx context.Context, args map[string]any) (map[string]any, error) {
	actor, err := h.actor(args)
	if err != nil {
		return nil, err
	}
	uid, pid, err := userAndProduct(args)
	if err != nil {
		return nil, err
	}
	req, err := h.eng.Approve(ctx, actor, uid, pid)
	if err != nil {
		return nil, err
	}
	return map[string]any{"request_id": req.ID}, nil
}

func opReject(h *Harness, ctx context.Context, args map[string]any) (map[string]any, error) {
	actor, err := h.actor(args)
	if err != nil {
		return nil, err
	}
	uid, pid, err := userAndProduct(args)
	if err != nil {
		return nil, err
	}
	req, err := h.eng.Reject(ctx, actor, uid, pid)
	if err != nil {
		return nil, err
	}
	return map[string]any{"request_id": req.ID}, nil
}

func opGetCode(h *Harness, ctx context.Context, args map[string]any) (map[string]any, error) {
	uid, pid, err := userAndProduct(args)
	if err != nil {
		return nil, err
	}
	code, err := h.eng.GetCode(ctx, uid, pid)
	if err != nil {
		return nil, err
	}
	return map[string]any{"code": code}, nil
}

func opDeleteBuyer(h *Harness, ctx context.Context, args map[string]any) (map[string]any, error) {
	actor, err := h.actor(args)
	if err != nil {
		return nil, err
	}
	uid, pid, err := userAndProduct(args)
	if err != nil {
		return nil, err
	}
	return nil, h.eng.DeleteBuyer(ctx, actor, pid, uid)
}

func opClearBuyers(h *Harness, ctx context.Context, args map[string]any) (map[string]any, error) {
	actor, err := h.actor(args)
	if err != nil {
		return nil, err
	}
	pid, err := argString(args, "product")
	if err != nil {
		return nil, err
	}
	n, err := h.eng.ClearBuyers(ctx, actor, pid)
	if err != nil {
		return nil, err
	}
	return map[string]any{"removed": n}, nil
}

func opResend(h *Harness, ctx context.Context, args map[string]any) (map[string]any, error) {
	actor, err := h.actor(args)
	if err != nil {
		return nil, err
	}
	pid, err := argString(args, "product")
	if err != nil {
		return nil, err
	}
	var n int
	if _, ok := args["user"]; ok {
		uid, err := argUserID(args, "user")
		if err != nil {
			return nil, err
		}
		n, err = h.eng.ResendTo(ctx, actor, pid, uid)
		if err != nil {
			return nil, err
		}
	} else {
		n, err = h.eng.ResendAll(ctx, actor, pid)
		if err != nil {
			return nil, err
		}
	}
	return map[string]any{"sent": n}, nil
}

func opSetLanguage(h *Harness, ctx context.Context, args map[string]any) (map[string]any, error) {
	uid, err := argUserID(args, "user")
	if err != nil {
		return nil, err
	}
	lang, err := argString(args, "language")
	if err != nil {
		return nil, err
	}
	return nil, h.eng.SetLanguage(ctx, uid, lang)
}

func opStats(h *Harness, _ context.Context, args map[string]any) (map[string]any, error) {
	actor, err := h.actor(args)
	if err != nil {
		return nil, err
	}
	pid, err := argString(args, "product")
	if err != nil {
		return nil, err
	}
	st, err := h.eng.Stats(actor, pid)
	if err != nil {
		return nil, err
	}
	return map[string]any{"price": st.Price, "buyers": st.Buyers, "pending": st.Pending}, nil
}

func opListPending(h *Harness, _ context.Context, args map[string]any) (map[string]any, error) {
	actor, err := h.actor(args)
	if err != nil {
		return nil, err
	}
	pending, err := h.eng.ListPending(actor)
	if err != nil {
		return nil, err
	}
	return map[string]any{"count": len(pending)}, nil
}

func opAdvanceClock(h *Harness, _ context.Context, args map[string]any) (map[string]any, error) {
	secs, err := argInt(args, "seconds")
	if err != nil {
		return nil, err
	}
	h.clock.Advance(time.Duration(secs) * time.Second)
	return nil, nil
}

// actor returns args.actor, or the scenario admin when absent.
func (h *Harness) actor(args map[string]any) (int64, error) {
	if _, ok := args["actor"]; !ok {
		return h.admin, nil
	}
	return argUserID(args, "actor")
}

func userAndProduct(args map[string]any) (int64, string, error) {
	uid, err := argUserID(args, "user")
	if err != nil {
		return 0, "", err
	}
	pid, err := argString(args, "product")
	if err != nil {
		return 0, "", err
	}
	return uid, pid, nil
}
