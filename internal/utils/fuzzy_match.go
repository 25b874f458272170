package utils

import (
	"math"
	"strings"
	"unicode"
)

// typeAliases maps loose type names onto the dataset's property types
var typeAliases = map[string]string{
	"apartment":   "apartment",
	"apartments":  "apartment",
	"appartement": "apartment",
	"flat":        "apartment",
	"condo":       "apartment",
	"studio":      "apartment",
	"f2":          "apartment",
	"f3":          "apartment",
	"f4":          "apartment",
	"villa":       "villa",
	"house":       "villa",
	"maison":      "villa",
	"duplex":      "villa",
	"office":      "office",
	"bureau":      "office",
	"commercial":  "office",
	"shop":        "office",
	"local":       "office",
	"land":        "land",
	"terrain":     "land",
	"plot":        "land",
	"lot":         "land",
}

// NormalizePropertyType maps a user-supplied type name to its canonical form.
// Unknown names come back lowercased and trimmed.
func NormalizePropertyType(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := typeAliases[key]; ok {
		return canonical
	}
	return key
}

// MatchPropertyType reports whether propertyType is among the wanted types.
// An empty wanted list matches everything.
func MatchPropertyType(propertyType string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	got := NormalizePropertyType(propertyType)
	for _, w := range wanted {
		if NormalizePropertyType(w) == got {
			return true
		}
	}
	return false
}

// locationFillers are dropped from preferred location names ("Around Hydra")
var locationFillers = map[string]bool{
	"around": true,
	"near":   true,
	"in":     true,
	"autour": true,
	"pres":   true,
	"de":     true,
}

// FuzzyMatchLocation reports whether a preferred location name appears in a
// free-text address. Accents, case and punctuation are ignored, so
// "Around Bab Ezzouar" matches "12 rue X, Bab-Ezzouar".
func FuzzyMatchLocation(name, address string) bool {
	a := foldText(address)
	if a == "" {
		return false
	}

	var words []string
	for _, w := range strings.Fields(foldText(name)) {
		if !locationFillers[w] {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return false
	}
	if strings.Contains(a, strings.Join(words, " ")) {
		return true
	}

	// Every remaining word of the name must appear in the address
	for _, w := range words {
		if !strings.Contains(a, w) {
			return false
		}
	}
	return true
}

// foldText lowercases, strips common Latin accents and turns punctuation
// into single spaces
func foldText(s string) string {
	var b strings.Builder
	space := true
	for _, r := range strings.ToLower(s) {
		if folded, ok := accentFold[r]; ok {
			r = folded
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteRune(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

var accentFold = map[rune]rune{
	'à': 'a', 'â': 'a', 'ä': 'a', 'á': 'a',
	'ç': 'c',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'î': 'i', 'ï': 'i', 'í': 'i',
	'ô': 'o', 'ö': 'o', 'ó': 'o',
	'ù': 'u', 'û': 'u', 'ü': 'u', 'ú': 'u',
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in km
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
