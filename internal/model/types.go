package model

import (
	"slices"
	"time"
)

// Document is the single root aggregate persisted by the store.
//
// The engine owns the live copy; the store only sees snapshots of it.
type Document struct {
	Products  map[string]*Product `json:"products"`
	Pending   []PurchaseRequest   `json:"pending"`
	Languages map[string]string   `json:"languages"`
}

// Product is a sellable item bundling credentials and an OTP seed.
//
// Username, Password and Secret are the sensitive fields; they are
// encrypted individually at rest.
type Product struct {
	Price    string  `json:"price"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	Secret   string  `json:"secret"`
	Name     string  `json:"name,omitempty"`
	Buyers   []int64 `json:"buyers"`
}

// PurchaseRequest is an unresolved buyer claim awaiting an admin decision.
type PurchaseRequest struct {
	ID          string    `json:"id,omitempty"`
	UserID      int64     `json:"user_id"`
	ProductID   string    `json:"product_id"`
	ProofRef    string    `json:"file_id"`
	SubmittedAt time.Time `json:"submitted_at,omitzero"`
}

// NewDocument returns an empty document with all collections initialised.
func NewDocument() Document {
	return Document{
		Products:  make(map[string]*Product),
		Pending:   []PurchaseRequest{},
		Languages: make(map[string]string),
	}
}

// Normalize fills nil collections so a decoded document is safe to mutate.
func (d *Document) Normalize() {
	if d.Products == nil {
		d.Products = make(map[string]*Product)
	}
	if d.Pending == nil {
		d.Pending = []PurchaseRequest{}
	}
	if d.Languages == nil {
		d.Languages = make(map[string]string)
	}
	for id, p := range d.Products {
		if p == nil {
			delete(d.Products, id)
			continue
		}
		if p.Buyers == nil {
			p.Buyers = []int64{}
		}
	}
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{
		Products:  make(map[string]*Product, len(d.Products)),
		Pending:   slices.Clone(d.Pending),
		Languages: make(map[string]string, len(d.Languages)),
	}
	if out.Pending == nil {
		out.Pending = []PurchaseRequest{}
	}
	for id, p := range d.Products {
		if p == nil {
			continue
		}
		cp := p.Clone()
		out.Products[id] = &cp
	}
	for uid, lang := range d.Languages {
		out.Languages[uid] = lang
	}
	return out
}

// Clone returns a copy of the product with its own buyer slice.
func (p Product) Clone() Product {
	out := p
	out.Buyers = slices.Clone(p.Buyers)
	if out.Buyers == nil {
		out.Buyers = []int64{}
	}
	return out
}

// HasBuyer reports whether uid is in the buyer set.
func (p *Product) HasBuyer(uid int64) bool {
	return slices.Contains(p.Buyers, uid)
}

// AddBuyer adds uid to the buyer set. It returns false if uid was already present.
func (p *Product) AddBuyer(uid int64) bool {
	if p.HasBuyer(uid) {
		return false
	}
	p.Buyers = append(p.Buyers, uid)
	return true
}

// RemoveBuyer removes uid from the buyer set. It returns false if uid was absent.
func (p *Product) RemoveBuyer(uid int64) bool {
	idx := slices.Index(p.Buyers, uid)
	if idx < 0 {
		return false
	}
	p.Buyers = slices.Delete(p.Buyers, idx, idx+1)
	return true
}

// ClearBuyers empties the buyer set.
func (p *Product) ClearBuyers() {
	p.Buyers = []int64{}
}
