package domain

import (
	"context"
	"errors"
)

var ErrSessionClosed = errors.New("edit session already submitted")

type EditMode int

const (
	EditModeNew EditMode = iota
	EditModeExisting
)

func (m EditMode) String() string {
	switch m {
	case EditModeNew:
		return "new"
	case EditModeExisting:
		return "existing"
	default:
		return "unknown"
	}
}

// ProductWriter is the subset of the catalog an edit session submits to.
type ProductWriter interface {
	CreateProduct(ctx context.Context, draft ProductDraft) (Product, error)
	UpdateProduct(ctx context.Context, p Product) (Product, error)
}

// EditSession holds one admin edit flow. A session is either a new draft or
// an edit of one existing product and cannot switch between the two; each
// flow gets its own session so state never leaks between them.
type EditSession struct {
	mode      EditMode
	id        int64
	draft     ProductDraft
	submitted bool
}

func NewDraftSession() *EditSession {
	return &EditSession{
		mode: EditModeNew,
		draft: ProductDraft{
			Status:   ProductStatusReady,
			Category: CategoryPet,
		},
	}
}

func EditExisting(p Product) *EditSession {
	return &EditSession{
		mode: EditModeExisting,
		id:   p.ID,
		draft: ProductDraft{
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			Stock:       p.Stock,
			Status:      p.Status,
			Category:    p.Category,
		},
	}
}

func (s *EditSession) Mode() EditMode { return s.mode }

// ID returns the product being edited, or 0 for a new draft.
func (s *EditSession) ID() int64 { return s.id }

func (s *EditSession) Draft() ProductDraft { return s.draft }

// Apply replaces the working copy. The id of an existing product is not part
// of the draft and cannot be changed through it.
func (s *EditSession) Apply(d ProductDraft) {
	s.draft = d
}

func (s *EditSession) Submit(ctx context.Context, w ProductWriter) (Product, error) {
	if s.submitted {
		return Product{}, ErrSessionClosed
	}
	var (
		p   Product
		err error
	)
	switch s.mode {
	case EditModeNew:
		p, err = w.CreateProduct(ctx, s.draft)
	case EditModeExisting:
		p, err = w.UpdateProduct(ctx, Product{
			ID:          s.id,
			Name:        s.draft.Name,
			Price:       s.draft.Price,
			Description: s.draft.Description,
			Stock:       s.draft.Stock,
			Status:      s.draft.Status,
			Category:    s.draft.Category,
		})
	default:
		return Product{}, errors.New("unknown edit mode")
	}
	if err != nil {
		return Product{}, err
	}
	s.submitted = true
	return p, nil
}
