package service

import (
	"github.com/Junction-25/pdf-service/internal/apperr"
	"github.com/Junction-25/pdf-service/internal/model"
)

// RecordStore is read-only lookup by id
type RecordStore interface {
	Property(id int64) (model.Property, bool)
	Contact(id int64) (model.Contact, bool)
}

// Resolver fetches and validates records for a request
type Resolver struct {
	store RecordStore
}

// NewResolver creates a resolver over a record store
func NewResolver(store RecordStore) *Resolver {
	return &Resolver{store: store}
}

// ResolveProperties returns the properties in the order requested. The id
// list is checked (count, duplicates, positivity) before the store is
// touched.
func (r *Resolver) ResolveProperties(ids []int64, minCount, maxCount int) ([]model.Property, error) {
	if err := checkIDs("property", ids, minCount, maxCount); err != nil {
		return nil, err
	}

	out := make([]model.Property, 0, len(ids))
	for _, id := range ids {
		p, ok := r.store.Property(id)
		if !ok {
			return nil, apperr.NotFound("property", id)
		}
		if err := validateProperty(p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ResolveContact returns a single validated contact
func (r *Resolver) ResolveContact(id int64) (model.Contact, error) {
	if err := checkIDs("contact", []int64{id}, 1, 1); err != nil {
		return model.Contact{}, err
	}

	c, ok := r.store.Contact(id)
	if !ok {
		return model.Contact{}, apperr.NotFound("contact", id)
	}
	if c.MinBudget < 0 || c.MaxBudget < 0 || (c.MaxBudget > 0 && c.MinBudget > c.MaxBudget) {
		return model.Contact{}, apperr.InvalidRecord(c.ID, "contact %d has an invalid budget range", c.ID)
	}
	if c.MinRooms < 0 {
		return model.Contact{}, apperr.InvalidRecord(c.ID, "contact %d has a negative minimum room count", c.ID)
	}
	return c, nil
}

func checkIDs(kind string, ids []int64, minCount, maxCount int) error {
	switch {
	case len(ids) == 0:
		return apperr.InvalidInput("no %s ids given", kind)
	case len(ids) > maxCount:
		return apperr.InvalidInput("at most %d %s ids allowed, got %d", maxCount, kind, len(ids))
	case len(ids) < minCount:
		return apperr.InvalidInput("at least %d %s ids required, got %d", minCount, kind, len(ids))
	}

	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return apperr.InvalidRecord(id, "%s id must be positive, got %d", kind, id)
		}
		if seen[id] {
			return apperr.InvalidRecord(id, "duplicate %s id %d", kind, id)
		}
		seen[id] = true
	}
	return nil
}

// validateProperty rejects malformed values. Area is checked by the
// assembler, which is the stage that divides by it.
func validateProperty(p model.Property) error {
	if p.ID <= 0 {
		return apperr.InvalidRecord(p.ID, "property has a non-positive id %d", p.ID)
	}
	if p.Price <= 0 {
		return apperr.InvalidRecord(p.ID, "property %d has a non-positive price", p.ID)
	}
	if p.NumberOfRooms < 0 {
		return apperr.InvalidRecord(p.ID, "property %d has a negative room count", p.ID)
	}
	return nil
}
