package service

import (
	"errors"
	"testing"

	"github.com/Junction-25/pdf-service/internal/apperr"
	"github.com/Junction-25/pdf-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProperties_KeepsRequestOrder(t *testing.T) {
	resolver := NewResolver(newCountingStore())

	props, err := resolver.ResolveProperties([]int64{3, 1, 2}, 2, 3)
	require.NoError(t, err)

	ids := make([]int64, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{3, 1, 2}, ids)
}

func TestResolveProperties_NotFoundNamesID(t *testing.T) {
	resolver := NewResolver(newCountingStore())

	_, err := resolver.ResolveProperties([]int64{1, 42}, 2, 2)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	assert.Equal(t, int64(42), appErr.ID)
}

func TestResolveProperties_RejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *model.Property)
		want   string
	}{
		{"zero price", func(p *model.Property) { p.Price = 0 }, "non-positive price"},
		{"negative price", func(p *model.Property) { p.Price = -10 }, "non-positive price"},
		{"negative rooms", func(p *model.Property) { p.NumberOfRooms = -1 }, "negative room count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newCountingStore()
			p := store.properties[2]
			tt.mutate(&p)
			store.properties[2] = p

			_, err := NewResolver(store).ResolveProperties([]int64{1, 2}, 2, 2)

			require.ErrorIs(t, err, apperr.ErrInvalidInput)
			var appErr *apperr.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, int64(2), appErr.ID)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolveContact(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *model.Contact)
		wantErr string
	}{
		{"valid", func(c *model.Contact) {}, ""},
		{"open ceiling", func(c *model.Contact) { c.MaxBudget = 0 }, ""},
		{"negative floor", func(c *model.Contact) { c.MinBudget = -1 }, "invalid budget range"},
		{"negative ceiling", func(c *model.Contact) { c.MaxBudget = -1 }, "invalid budget range"},
		{"floor above ceiling", func(c *model.Contact) { c.MinBudget = 200000 }, "invalid budget range"},
		{"negative min rooms", func(c *model.Contact) { c.MinRooms = -2 }, "negative minimum room count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newCountingStore()
			c := store.contacts[7]
			tt.mutate(&c)
			store.contacts[7] = c

			got, err := NewResolver(store).ResolveContact(7)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Amina Benali", got.Name)
				return
			}

			require.ErrorIs(t, err, apperr.ErrInvalidInput)
			var appErr *apperr.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, int64(7), appErr.ID)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveContact_BadIDs(t *testing.T) {
	store := newCountingStore()
	resolver := NewResolver(store)

	_, err := resolver.ResolveContact(0)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Equal(t, 0, store.Lookups())

	_, err = resolver.ResolveContact(99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
