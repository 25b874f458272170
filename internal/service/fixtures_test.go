package service

import (
	"context"
	"sync"
	"time"

	"github.com/Junction-25/pdf-service/internal/config"
	"github.com/Junction-25/pdf-service/internal/model"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func testProperties() []model.Property {
	return []model.Property{
		{
			ID:            1,
			Address:       "12 Rue Didouche Mourad, Hydra",
			Location:      model.GeoPoint{Lat: 36.7400, Lon: 3.0300},
			Price:         100000,
			AreaSqm:       90,
			PropertyType:  model.PropertyTypeApartment,
			NumberOfRooms: 3,
			Description:   strPtr("Bright apartment close to the park"),
		},
		{
			ID:            2,
			Address:       "5 Chemin des Crêtes, Cheraga",
			Location:      model.GeoPoint{Lat: 36.7600, Lon: 2.9500},
			Price:         500000,
			AreaSqm:       240,
			PropertyType:  model.PropertyTypeVilla,
			NumberOfRooms: 6,
		},
		{
			ID:            3,
			Address:       "40 Boulevard Krim Belkacem, Hydra",
			Location:      model.GeoPoint{Lat: 36.7420, Lon: 3.0320},
			Price:         140000,
			AreaSqm:       110,
			PropertyType:  model.PropertyTypeApartment,
			NumberOfRooms: 4,
		},
	}
}

func testContact() model.Contact {
	return model.Contact{
		ID:                 7,
		Name:               "Amina Benali",
		PreferredLocations: model.PreferredLocations{{Name: "Around Hydra", Lat: 36.7410, Lon: 3.0310}},
		MinBudget:          50000,
		MaxBudget:          150000,
		MinAreaSqm:         80,
		MaxAreaSqm:         150,
		PropertyTypes:      model.StringList{"apartment"},
		MinRooms:           3,
	}
}

func testRankingConfig() config.RankingConfig {
	return config.RankingConfig{
		WeightBudget:     0.35,
		WeightArea:       0.20,
		WeightRooms:      0.15,
		WeightType:       0.15,
		WeightLocation:   0.15,
		LocationRadiusKm: 5,
		LocationCutoffKm: 25,
	}
}

func testQuoteConfig() config.QuoteConfig {
	return config.QuoteConfig{
		CompanyName:  "Dar.ai Real Estate",
		Tagline:      "Your Trusted Partner in Real Estate",
		Currency:     "DZD",
		ValidityDays: 30,
	}
}

// countingStore records every lookup
type countingStore struct {
	mu         sync.Mutex
	properties map[int64]model.Property
	contacts   map[int64]model.Contact
	lookups    int
}

func newCountingStore() *countingStore {
	s := &countingStore{
		properties: make(map[int64]model.Property),
		contacts:   make(map[int64]model.Contact),
	}
	for _, p := range testProperties() {
		s.properties[p.ID] = p
	}
	c := testContact()
	s.contacts[c.ID] = c
	return s
}

func (s *countingStore) Property(id int64) (model.Property, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	p, ok := s.properties[id]
	return p, ok
}

func (s *countingStore) Contact(id int64) (model.Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	c, ok := s.contacts[id]
	return c, ok
}

func (s *countingStore) Lookups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups
}

// fakeReasoner returns a canned reply
type fakeReasoner struct {
	reply   string
	err     error
	enabled bool
	calls   int
	prompts []string
}

func (f *fakeReasoner) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.reply, f.err
}

func (f *fakeReasoner) IsEnabled() bool { return f.enabled }

// fakeRenderer captures the DocumentSpec instead of drawing it
type fakeRenderer struct {
	calls int
	spec  model.DocumentSpec
	err   error
}

func (f *fakeRenderer) Render(spec model.DocumentSpec) ([]byte, error) {
	f.calls++
	f.spec = spec
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3 fake"), nil
}

const generatedReply = `{
	"key_differences": "Property #1 is smaller but far cheaper.",
	"value_analysis": ["Property #1 costs less per m²", "Property #2 is a premium villa"],
	"pros_and_cons": "**Property #1**\n- central\n- compact",
	"recommendations": "1. Property #1 for budget buyers\n2. Property #2 for families"
}`
