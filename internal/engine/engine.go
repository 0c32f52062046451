package engine

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/otp/totp"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sellbot/internal/ids"
	"github.com/roach88/sellbot/internal/journal"
	"github.com/roach88/sellbot/internal/model"
	"github.com/roach88/sellbot/internal/obs"
)

// DefaultLanguage is reported for users with no stored preference.
const DefaultLanguage = "en"

// Saver persists a snapshot of the document. Implemented by *store.Store.
type Saver interface {
	Save(ctx context.Context, doc model.Document) error
}

// Journal records purchase lifecycle events. Implemented by *journal.Journal.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) error
	History(ctx context.Context, productID string, limit int) ([]journal.Entry, error)
}

// OTPFunc computes the one-time code for secret at the given instant.
type OTPFunc func(secret string, at time.Time) (string, error)

// TOTP is the production OTP function (RFC 6238, 30s step, 6 digits).
func TOTP(secret string, at time.Time) (string, error) {
	return totp.GenerateCode(secret, at)
}

// Engine is the purchase workflow state machine.
//
// The engine owns the only live copy of the document. Every operation
// takes the engine lock, mutates the document, persists a snapshot and
// releases the lock. Notifications and journal writes happen after the
// lock is released.
//
// Thread-safety model:
//   - all exported methods are safe from any goroutine
//   - operations are linearizable; two approvals of the same pending pair
//     cannot both observe the match
//
// INVARIANTS:
//   - a failed save never rolls back the in-memory mutation
//   - admin operations check the actor before touching the document
//   - buyer sets never contain duplicates
type Engine struct {
	mu  sync.Mutex
	doc model.Document

	saver   Saver
	outbox  Outbox
	adminID int64

	now          func() time.Time
	otp          OTPFunc
	journal      Journal
	newRequestID func(time.Time) string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock used for request timestamps and codes.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithOTP overrides the OTP function.
func WithOTP(fn OTPFunc) Option {
	return func(e *Engine) {
		e.otp = fn
	}
}

// WithJournal enables the purchase journal.
func WithJournal(j Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithRequestIDs overrides the pending-request id generator.
func WithRequestIDs(fn func(time.Time) string) Option {
	return func(e *Engine) {
		e.newRequestID = fn
	}
}

// New creates an engine over doc. The engine takes ownership of doc;
// callers must not mutate it afterwards.
//
// saver may be nil (nothing is persisted). outbox may be nil (notices are
// dropped).
func New(doc model.Document, saver Saver, outbox Outbox, adminID int64, opts ...Option) *Engine {
	doc.Normalize()
	e := &Engine{
		doc:          doc,
		saver:        saver,
		outbox:       outbox,
		adminID:      adminID,
		now:          time.Now,
		otp:          TOTP,
		newRequestID: ids.NewRequestID,
	}
	for _, opt := range opts {
		opt(e)
	}
	obs.SetPending(len(e.doc.Pending))
	return e
}

// AdminID returns the configured admin identity.
func (e *Engine) AdminID() int64 {
	return e.adminID
}

// IsAdmin reports whether uid is the admin.
func (e *Engine) IsAdmin(uid int64) bool {
	return uid == e.adminID
}

func (e *Engine) requireAdmin(actor int64) error {
	if actor != e.adminID {
		return newError(CodeUnauthorized, "", actor)
	}
	return nil
}

// Snapshot returns a deep copy of the document.
func (e *Engine) Snapshot() model.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Persist saves the current document and reports a failure as ErrStorageIO.
// Used on shutdown, where a silent failure would lose the last mutations.
func (e *Engine) Persist(ctx context.Context) error {
	if e.saver == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.saver.Save(ctx, e.doc); err != nil {
		obs.RecordSaveFailure()
		return &Error{Code: CodeStorageIO, Err: err}
	}
	return nil
}

// commit persists the document. The caller holds e.mu.
func (e *Engine) commit(ctx context.Context) {
	obs.SetPending(len(e.doc.Pending))
	if e.saver == nil {
		return
	}
	if err := e.saver.Save(ctx, e.doc); err != nil {
		obs.RecordSaveFailure()
		slog.Error("document not persisted, keeping in-memory state",
			"flow", FlowFromContext(ctx),
			"error", err,
		)
	}
}

func (e *Engine) post(ctx context.Context, n Notice) {
	if e.outbox == nil {
		return
	}
	n.Flow = FlowFromContext(ctx)
	e.outbox.Post(ctx, n)
}

func (e *Engine) record(ctx context.Context, kind journal.Kind, productID string, userID int64, requestID string) {
	if e.journal == nil {
		return
	}
	entry := journal.Entry{
		Kind:      kind,
		ProductID: productID,
		UserID:    userID,
		RequestID: requestID,
		Flow:      FlowFromContext(ctx),
		At:        e.now().UTC(),
	}
	if err := e.journal.Record(ctx, entry); err != nil {
		slog.Warn("journal entry not recorded",
			"kind", kind,
			"product_id", productID,
			"flow", entry.Flow,
			"error", err,
		)
	}
}

// observe counts the outcome of an action.
func observe(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(string(CodeOf(err)))
		if outcome == "" {
			outcome = "error"
		}
	}
	obs.RecordAction(action, outcome)
}

// SetLanguage stores uid's language preference.
func (e *Engine) SetLanguage(ctx context.Context, uid int64, lang string) (err error) {
	defer func() { observe("set_language", err) }()

	lang = strings.TrimSpace(lang)
	if lang == "" {
		return &Error{Code: CodeInvalidInput, Message: "language is required", UserID: uid}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Languages[strconv.FormatInt(uid, 10)] = lang
	e.commit(ctx)
	return nil
}

// Language returns uid's stored language, or DefaultLanguage.
func (e *Engine) Language(uid int64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if lang, ok := e.doc.Languages[strconv.FormatInt(uid, 10)]; ok && lang != "" {
		return lang
	}
	return DefaultLanguage
}

// NormalizeProductID trims surrounding space and applies Unicode NFC so
// visually identical ids typed on different keyboards compare equal.
func NormalizeProductID(id string) string {
	return norm.NFC.String(strings.TrimSpace(id))
}

// ParseUserID parses a decimal user id argument.
func ParseUserID(s string) (int64, error) {
	uid, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &Error{Code: CodeInvalidUserID, Message: "user id " + strconv.Quote(s) + " is not an integer"}
	}
	return uid, nil
}

type flowKey struct{}

// WithFlow attaches a flow token to ctx. Logs, notices and journal entries
// produced while handling ctx carry the token.
func WithFlow(ctx context.Context, flow string) context.Context {
	return context.WithValue(ctx, flowKey{}, flow)
}

// FlowFromContext returns the flow token attached to ctx, or "".
func FlowFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	flow, _ := ctx.Value(flowKey{}).(string)
	return flow
}
