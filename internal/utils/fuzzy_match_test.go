package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuzzyMatchLocation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		address  string
		want     bool
	}{
		{"exact substring", "Hydra", "15 Rue des Pins, Hydra, Alger", true},
		{"filler word", "Around Oran", "8 Boulevard Zabana, Oran", true},
		{"case and hyphen", "Bab Ezzouar", "Cité 5 Juillet, BAB-EZZOUAR", true},
		{"accents", "El Biar", "Chemin Mackley, El-Biár", true},
		{"words out of order", "Ben Aknoun", "Aknoun Ben, Alger", true},
		{"different district", "Hydra", "Kouba, Alger", false},
		{"empty name", "", "Kouba", false},
		{"only filler", "Around", "Around the corner", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FuzzyMatchLocation(tt.location, tt.address))
		})
	}
}

func TestMatchPropertyType(t *testing.T) {
	assert.True(t, MatchPropertyType("apartment", []string{"Flat"}))
	assert.True(t, MatchPropertyType("villa", []string{"office", "house"}))
	assert.True(t, MatchPropertyType("land", nil))
	assert.False(t, MatchPropertyType("office", []string{"apartment", "villa"}))
	assert.Equal(t, "warehouse", NormalizePropertyType("  Warehouse "))
}

func TestHaversineKm(t *testing.T) {
	// Algiers centre to Oran is roughly 355 km
	d := HaversineKm(36.7538, 3.0588, 35.6971, -0.6308)
	assert.InDelta(t, 355, d, 10)
	assert.InDelta(t, 0, HaversineKm(36.7, 3.0, 36.7, 3.0), 1e-9)
}
