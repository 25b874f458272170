package model

import "strings"

// PropertyType is the concrete listing type found in the dataset
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeOffice    PropertyType = "office"
	PropertyTypeLand      PropertyType = "land"
)

// PropertyCategory groups concrete types for display and reasoning
type PropertyCategory string

const (
	CategoryResidential PropertyCategory = "residential"
	CategoryCommercial  PropertyCategory = "commercial"
	CategoryLand        PropertyCategory = "land"
	CategoryOther       PropertyCategory = "other"
)

// Category maps the type onto its category. Unknown types are "other".
func (t PropertyType) Category() PropertyCategory {
	switch PropertyType(strings.ToLower(strings.TrimSpace(string(t)))) {
	case PropertyTypeApartment, PropertyTypeVilla:
		return CategoryResidential
	case PropertyTypeOffice:
		return CategoryCommercial
	case PropertyTypeLand:
		return CategoryLand
	default:
		return CategoryOther
	}
}

// Title returns the display form of the category ("Residential")
func (c PropertyCategory) Title() string {
	return PropertyType(c).Title()
}

// Title returns the display form of the type ("Apartment")
func (t PropertyType) Title() string {
	s := strings.TrimSpace(string(t))
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// GeoPoint is a latitude/longitude pair
type GeoPoint struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// IsZero reports whether the point is unset
func (g GeoPoint) IsZero() bool {
	return g.Lat == 0 && g.Lon == 0
}

// Property represents a property record from the dataset
type Property struct {
	ID            int64        `json:"id" db:"id"`
	Address       string       `json:"address" db:"address"`
	Location      GeoPoint     `json:"location" db:"-"`
	Price         float64      `json:"price" db:"price"`
	AreaSqm       float64      `json:"area_sqm" db:"area_sqm"`
	PropertyType  PropertyType `json:"property_type" db:"property_type"`
	NumberOfRooms int          `json:"number_of_rooms" db:"number_of_rooms"`
	Description   *string      `json:"description,omitempty" db:"description"`
}

// DescriptionOr returns the description or the given placeholder
func (p Property) DescriptionOr(placeholder string) string {
	if p.Description == nil || strings.TrimSpace(*p.Description) == "" {
		return placeholder
	}
	return *p.Description
}
