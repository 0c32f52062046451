package engine

import (
	"context"
	"slices"
	"strings"

	"github.com/roach88/sellbot/internal/journal"
	"github.com/roach88/sellbot/internal/model"
)

// SubmitProof records a payment proof for a product and forwards it to the
// admin. Submissions are not deduplicated: a second proof for the same
// (user, product) pair creates a second pending entry.
func (e *Engine) SubmitProof(ctx context.Context, uid int64, productID, proofRef string) (req model.PurchaseRequest, err error) {
	defer func() { observe("submit_proof", err) }()

	productID = NormalizeProductID(productID)
	if strings.TrimSpace(proofRef) == "" {
		return model.PurchaseRequest{}, &Error{Code: CodeInvalidInput, Message: "proof is required", ProductID: productID, UserID: uid}
	}

	e.mu.Lock()
	if _, ok := e.doc.Products[productID]; !ok {
		e.mu.Unlock()
		return model.PurchaseRequest{}, newError(CodeProductNotFound, productID, uid)
	}
	at := e.now().UTC()
	req = model.PurchaseRequest{
		ID:          e.newRequestID(at),
		UserID:      uid,
		ProductID:   productID,
		ProofRef:    proofRef,
		SubmittedAt: at,
	}
	e.doc.Pending = append(e.doc.Pending, req)
	e.commit(ctx)
	e.mu.Unlock()

	e.post(ctx, Notice{
		Kind:      NoticeProof,
		To:        e.adminID,
		ProductID: productID,
		BuyerID:   uid,
		ProofRef:  proofRef,
		RequestID: req.ID,
	})
	e.record(ctx, journal.KindSubmitted, productID, uid, req.ID)
	return req, nil
}

// findPending returns the index of the earliest pending entry for the
// pair, or -1. The caller holds e.mu.
func (e *Engine) findPending(uid int64, productID string) int {
	return slices.IndexFunc(e.doc.Pending, func(r model.PurchaseRequest) bool {
		return r.UserID == uid && r.ProductID == productID
	})
}

// Approve resolves the earliest pending request for (uid, productID),
// grants access and sends the buyer their credentials.
//
// If the product was deleted after submission the request stays pending
// and ErrProductNotFound is returned; the admin can still reject it.
func (e *Engine) Approve(ctx context.Context, actor, uid int64, productID string) (req model.PurchaseRequest, err error) {
	defer func() { observe("approve", err) }()

	if err := e.requireAdmin(actor); err != nil {
		return model.PurchaseRequest{}, err
	}
	productID = NormalizeProductID(productID)

	e.mu.Lock()
	idx := e.findPending(uid, productID)
	if idx < 0 {
		e.mu.Unlock()
		return model.PurchaseRequest{}, newError(CodePendingNotFound, productID, uid)
	}
	p, ok := e.doc.Products[productID]
	if !ok {
		e.mu.Unlock()
		return model.PurchaseRequest{}, newError(CodeProductNotFound, productID, uid)
	}
	req = e.doc.Pending[idx]
	e.doc.Pending = slices.Delete(e.doc.Pending, idx, idx+1)
	p.AddBuyer(uid)
	notice := credentialsNotice(productID, p.Username, p.Password, uid)
	notice.RequestID = req.ID
	e.commit(ctx)
	e.mu.Unlock()

	e.post(ctx, notice)
	e.record(ctx, journal.KindApproved, productID, uid, req.ID)
	return req, nil
}

// Reject discards the earliest pending request for (uid, productID).
// The buyer is not notified.
func (e *Engine) Reject(ctx context.Context, actor, uid int64, productID string) (req model.PurchaseRequest, err error) {
	defer func() { observe("reject", err) }()

	if err := e.requireAdmin(actor); err != nil {
		return model.PurchaseRequest{}, err
	}
	productID = NormalizeProductID(productID)

	e.mu.Lock()
	idx := e.findPending(uid, productID)
	if idx < 0 {
		e.mu.Unlock()
		return model.PurchaseRequest{}, newError(CodePendingNotFound, productID, uid)
	}
	req = e.doc.Pending[idx]
	e.doc.Pending = slices.Delete(e.doc.Pending, idx, idx+1)
	e.commit(ctx)
	e.mu.Unlock()

	e.record(ctx, journal.KindRejected, productID, uid, req.ID)
	return req, nil
}

// ListPending returns the unresolved requests in submission order.
func (e *Engine) ListPending(actor int64) ([]model.PurchaseRequest, error) {
	if err := e.requireAdmin(actor); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.doc.Pending), nil
}

// GetCode returns the current one-time code for a product the caller has
// bought. The code is whatever the OTP function yields for now; freshness
// is not checked.
func (e *Engine) GetCode(ctx context.Context, uid int64, productID string) (code string, err error) {
	defer func() { observe("get_code", err) }()

	productID = NormalizeProductID(productID)

	e.mu.Lock()
	p, ok := e.doc.Products[productID]
	if !ok {
		e.mu.Unlock()
		return "", newError(CodeProductNotFound, productID, uid)
	}
	if !p.HasBuyer(uid) {
		e.mu.Unlock()
		return "", newError(CodeNotPurchased, productID, uid)
	}
	secret := p.Secret
	e.mu.Unlock()

	if secret == "" {
		return "", newError(CodeNoSecretConfigured, productID, uid)
	}
	code, err = e.otp(secret, e.now())
	if err != nil {
		return "", &Error{Code: CodeInvalidSecret, ProductID: productID, Err: err}
	}
	return code, nil
}
