package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/sellbot/internal/journal"
	"github.com/roach88/sellbot/internal/model"
)

// MaxProductIDLen bounds product ids in bytes. The longest inline button
// payload carrying an id, "adminresend:<id>:<int64>", must fit Telegram's
// 64-byte callback data.
const MaxProductIDLen = 64 - len("adminresend:") - len(":-9223372036854775808")

// ProductInput carries the values for a new product. Name is optional.
// Values are stored as given; a Name of "-" means no name.
type ProductInput struct {
	Price    string
	Username string
	Password string
	Secret   string
	Name     string
}

func (in ProductInput) missing() string {
	switch {
	case strings.TrimSpace(in.Price) == "":
		return "price"
	case in.Username == "":
		return "username"
	case in.Password == "":
		return "password"
	case strings.TrimSpace(in.Secret) == "":
		return "secret"
	}
	return ""
}

// Listing is the public view of a product.
type Listing struct {
	ID    string `json:"id"`
	Price string `json:"price"`
	Name  string `json:"name,omitempty"`
}

// ListProducts returns the catalog sorted by id.
func (e *Engine) ListProducts() []Listing {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Listing, 0, len(e.doc.Products))
	for id, p := range e.doc.Products {
		out = append(out, Listing{ID: id, Price: p.Price, Name: p.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Product returns a copy of the product with the given id.
func (e *Engine) Product(id string) (model.Product, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.doc.Products[NormalizeProductID(id)]
	if !ok {
		return model.Product{}, false
	}
	return p.Clone(), true
}

// AddProduct creates a product. An existing id is never overwritten.
func (e *Engine) AddProduct(ctx context.Context, actor int64, id string, in ProductInput) (err error) {
	defer func() { observe("add_product", err) }()

	if err := e.requireAdmin(actor); err != nil {
		return err
	}
	id = NormalizeProductID(id)
	if id == "" {
		return &Error{Code: CodeInvalidInput, Message: "product id is required"}
	}
	if len(id) > MaxProductIDLen {
		return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf("product id is longer than %d bytes", MaxProductIDLen)}
	}
	if field := in.missing(); field != "" {
		return &Error{Code: CodeInvalidInput, Message: field + " is required", ProductID: id}
	}

	e.mu.Lock()
	if _, exists := e.doc.Products[id]; exists {
		e.mu.Unlock()
		return newError(CodeProductExists, id, 0)
	}
	name := in.Name
	if name == "-" {
		name = ""
	}
	e.doc.Products[id] = &model.Product{
		Price:    in.Price,
		Username: in.Username,
		Password: in.Password,
		Secret:   in.Secret,
		Name:     name,
		Buyers:   []int64{},
	}
	e.commit(ctx)
	e.mu.Unlock()

	e.record(ctx, journal.KindProductAdded, id, 0, "")
	return nil
}

// EditProduct overwrites a single field of an existing product.
func (e *Engine) EditProduct(ctx context.Context, actor int64, id string, field Field, value string) (err error) {
	defer func() { observe("edit_product", err) }()

	if err := e.requireAdmin(actor); err != nil {
		return err
	}
	id = NormalizeProductID(id)

	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.doc.Products[id]
	if !ok {
		return newError(CodeProductNotFound, id, 0)
	}
	if !field.apply(p, value) {
		return &Error{Code: CodeInvalidField, ProductID: id}
	}
	e.commit(ctx)
	return nil
}

// DeleteProduct removes a product. Pending requests for it are kept so
// the admin can still reject them; credentials already sent stay valid.
func (e *Engine) DeleteProduct(ctx context.Context, actor int64, id string) (err error) {
	defer func() { observe("delete_product", err) }()

	if err := e.requireAdmin(actor); err != nil {
		return err
	}
	id = NormalizeProductID(id)

	e.mu.Lock()
	if _, ok := e.doc.Products[id]; !ok {
		e.mu.Unlock()
		return newError(CodeProductNotFound, id, 0)
	}
	delete(e.doc.Products, id)
	e.commit(ctx)
	e.mu.Unlock()

	e.record(ctx, journal.KindProductDeleted, id, 0, "")
	return nil
}

// Stats summarises a product for the admin.
type Stats struct {
	Price   string `json:"price"`
	Buyers  int    `json:"buyers"`
	Pending int    `json:"pending"`
}

// Stats returns price, buyer count and pending count for a product.
func (e *Engine) Stats(actor int64, id string) (Stats, error) {
	if err := e.requireAdmin(actor); err != nil {
		return Stats{}, err
	}
	id = NormalizeProductID(id)

	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.doc.Products[id]
	if !ok {
		return Stats{}, newError(CodeProductNotFound, id, 0)
	}
	st := Stats{Price: p.Price, Buyers: len(p.Buyers)}
	for _, req := range e.doc.Pending {
		if req.ProductID == id {
			st.Pending++
		}
	}
	return st, nil
}

// History returns the latest journal entries for a product, oldest first.
// Empty when no journal is configured.
func (e *Engine) History(ctx context.Context, actor int64, id string, limit int) ([]journal.Entry, error) {
	if err := e.requireAdmin(actor); err != nil {
		return nil, err
	}
	if e.journal == nil {
		return []journal.Entry{}, nil
	}
	return e.journal.History(ctx, NormalizeProductID(id), limit)
}
