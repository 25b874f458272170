package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PreferredLocation is a named area a contact wants to buy in
type PreferredLocation struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Point returns the coordinates of the preferred location
func (l PreferredLocation) Point() GeoPoint {
	return GeoPoint{Lat: l.Lat, Lon: l.Lon}
}

// Contact represents a client and their search preferences
type Contact struct {
	ID                 int64              `json:"id" db:"id"`
	Name               string             `json:"name" db:"name"`
	PreferredLocations PreferredLocations `json:"preferred_locations" db:"preferred_locations"`
	MinBudget          float64            `json:"min_budget" db:"min_budget"`
	MaxBudget          float64            `json:"max_budget" db:"max_budget"`
	MinAreaSqm         float64            `json:"min_area_sqm" db:"min_area_sqm"`
	MaxAreaSqm         float64            `json:"max_area_sqm" db:"max_area_sqm"`
	PropertyTypes      StringList         `json:"property_types" db:"property_types"`
	MinRooms           int                `json:"min_rooms" db:"min_rooms"`
}

// LocationNames joins the preferred location names for display
func (c Contact) LocationNames() string {
	names := make([]string, 0, len(c.PreferredLocations))
	for _, loc := range c.PreferredLocations {
		names = append(names, loc.Name)
	}
	if len(names) == 0 {
		return "Any"
	}
	return strings.Join(names, ", ")
}

// TypeNames joins the desired property types for display
func (c Contact) TypeNames() string {
	if len(c.PropertyTypes) == 0 {
		return "Any"
	}
	return strings.Join(c.PropertyTypes, ", ")
}

// PreferredLocations is stored as a JSONB array in PostgreSQL
type PreferredLocations []PreferredLocation

// Value implements driver.Valuer interface
func (p PreferredLocations) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface
func (p *PreferredLocations) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// StringList is stored as a JSONB array of strings in PostgreSQL
type StringList []string

// Value implements driver.Valuer interface
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface
func (s *StringList) Scan(value interface{}) error {
	return scanJSON(value, s)
}

func scanJSON(value interface{}, target interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, target)
	case string:
		return json.Unmarshal([]byte(v), target)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}
