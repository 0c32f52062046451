package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/sellbot/internal/obs"
)

// NoticeKind identifies an outbound notification.
type NoticeKind string

const (
	// NoticeCredentials delivers username/password and the code affordance
	// to a buyer (approval and resend).
	NoticeCredentials NoticeKind = "credentials"

	// NoticeProof forwards a payment proof to the admin with the context
	// needed to approve or reject it.
	NoticeProof NoticeKind = "proof"
)

// Notice is a transport-neutral outbound message. The transport renders it
// in the recipient's language.
type Notice struct {
	Kind      NoticeKind `json:"kind"`
	To        int64      `json:"to"`
	ProductID string     `json:"product_id"`
	BuyerID   int64      `json:"buyer_id,omitempty"`
	Username  string     `json:"username,omitempty"`
	Password  string     `json:"password,omitempty"`
	ProofRef  string     `json:"proof_ref,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
	Flow      string     `json:"-"`
}

// Notifier delivers notices. Implemented by the Telegram transport.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// Outbox accepts notices from the engine. Delivery is best-effort:
// failures are logged and counted, never retried or returned.
type Outbox interface {
	Post(ctx context.Context, n Notice)
}

// DirectOutbox delivers each notice synchronously on the caller's goroutine.
type DirectOutbox struct {
	Notifier Notifier
}

// Post delivers n and logs a failure.
func (o DirectOutbox) Post(ctx context.Context, n Notice) {
	deliver(ctx, o.Notifier, n)
}

func deliver(ctx context.Context, notifier Notifier, n Notice) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, n); err != nil {
		obs.RecordNotifyFailure()
		slog.Warn("notification not delivered",
			"kind", n.Kind,
			"to", n.To,
			"product_id", n.ProductID,
			"flow", n.Flow,
			"error", err,
		)
	}
}
