package engine

import (
	"context"
	"slices"

	"github.com/roach88/sellbot/internal/journal"
)

// Buyers returns the buyer set of a product in grant order.
func (e *Engine) Buyers(actor int64, productID string) ([]int64, error) {
	if err := e.requireAdmin(actor); err != nil {
		return nil, err
	}
	productID = NormalizeProductID(productID)

	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.doc.Products[productID]
	if !ok {
		return nil, newError(CodeProductNotFound, productID, 0)
	}
	return slices.Clone(p.Buyers), nil
}

// DeleteBuyer revokes uid's access to a product.
func (e *Engine) DeleteBuyer(ctx context.Context, actor int64, productID string, uid int64) (err error) {
	defer func() { observe("delete_buyer", err) }()

	if err := e.requireAdmin(actor); err != nil {
		return err
	}
	productID = NormalizeProductID(productID)

	e.mu.Lock()
	p, ok := e.doc.Products[productID]
	if !ok {
		e.mu.Unlock()
		return newError(CodeProductNotFound, productID, 0)
	}
	if !p.RemoveBuyer(uid) {
		e.mu.Unlock()
		return newError(CodeBuyerNotFound, productID, uid)
	}
	e.commit(ctx)
	e.mu.Unlock()

	e.record(ctx, journal.KindBuyerRemoved, productID, uid, "")
	return nil
}

// ClearBuyers empties a product's buyer set and returns how many buyers
// were removed.
func (e *Engine) ClearBuyers(ctx context.Context, actor int64, productID string) (n int, err error) {
	defer func() { observe("clear_buyers", err) }()

	if err := e.requireAdmin(actor); err != nil {
		return 0, err
	}
	productID = NormalizeProductID(productID)

	e.mu.Lock()
	p, ok := e.doc.Products[productID]
	if !ok {
		e.mu.Unlock()
		return 0, newError(CodeProductNotFound, productID, 0)
	}
	n = len(p.Buyers)
	p.ClearBuyers()
	e.commit(ctx)
	e.mu.Unlock()

	e.record(ctx, journal.KindBuyersCleared, productID, 0, "")
	return n, nil
}

// ResendAll replays the credential notice to every current buyer and
// returns the number of notices posted. State is not mutated.
func (e *Engine) ResendAll(ctx context.Context, actor int64, productID string) (n int, err error) {
	defer func() { observe("resend", err) }()

	if err := e.requireAdmin(actor); err != nil {
		return 0, err
	}
	productID = NormalizeProductID(productID)

	e.mu.Lock()
	p, ok := e.doc.Products[productID]
	if !ok {
		e.mu.Unlock()
		return 0, newError(CodeProductNotFound, productID, 0)
	}
	notices := make([]Notice, 0, len(p.Buyers))
	for _, uid := range p.Buyers {
		notices = append(notices, credentialsNotice(productID, p.Username, p.Password, uid))
	}
	e.mu.Unlock()

	for _, notice := range notices {
		e.post(ctx, notice)
	}
	return len(notices), nil
}

// ResendTo replays the credential notice to one buyer. A user outside the
// buyer set is a no-op reporting zero notices.
func (e *Engine) ResendTo(ctx context.Context, actor int64, productID string, uid int64) (n int, err error) {
	defer func() { observe("resend", err) }()

	if err := e.requireAdmin(actor); err != nil {
		return 0, err
	}
	productID = NormalizeProductID(productID)

	e.mu.Lock()
	p, ok := e.doc.Products[productID]
	if !ok {
		e.mu.Unlock()
		return 0, newError(CodeProductNotFound, productID, 0)
	}
	if !p.HasBuyer(uid) {
		e.mu.Unlock()
		return 0, nil
	}
	notice := credentialsNotice(productID, p.Username, p.Password, uid)
	e.mu.Unlock()

	e.post(ctx, notice)
	return 1, nil
}

func credentialsNotice(productID, username, password string, uid int64) Notice {
	return Notice{
		Kind:      NoticeCredentials,
		To:        uid,
		ProductID: productID,
		Username:  username,
		Password:  password,
	}
}
