package service

import (
	"fmt"
	"strings"

	"github.com/Junction-25/pdf-service/internal/model"
)

const systemPrompt = "You are a professional real estate agent with expertise in property analysis, " +
	"client advisory and matching client preferences to suitable properties. " +
	"You answer with a single JSON object and nothing else."

// BuildPrompt renders the user prompt for an analysis request. The output is
// a pure function of its inputs.
func BuildPrompt(properties []model.Property, contact *model.Contact, ranking []model.RankedProperty, currency string) string {
	var b strings.Builder

	if contact != nil {
		b.WriteString("Analyze these properties against the client's preferences and give a personalized recommendation.\n\n")
		writeContact(&b, *contact, currency)
	} else {
		b.WriteString("Compare these properties and give a professional, data-driven comparison.\n\n")
	}

	b.WriteString("PROPERTIES:\n")
	for i, p := range properties {
		fmt.Fprintf(&b, "\nProperty %d (ID: %d):\n", i+1, p.ID)
		fmt.Fprintf(&b, "- Address: %s\n", p.Address)
		fmt.Fprintf(&b, "- Price: %s\n", formatMoney(p.Price, currency))
		fmt.Fprintf(&b, "- Area: %s\n", formatArea(p.AreaSqm))
		fmt.Fprintf(&b, "- Price per m²: %s\n", formatPricePerArea(p, currency))
		fmt.Fprintf(&b, "- Type: %s (%s)\n", p.PropertyType.Title(), p.PropertyType.Category())
		fmt.Fprintf(&b, "- Rooms: %d\n", p.NumberOfRooms)
		fmt.Fprintf(&b, "- Description: %s\n", p.DescriptionOr("No description available"))
	}

	if contact != nil && len(ranking) > 0 {
		b.WriteString("\nPREFERENCE FIT (computed, best first):\n")
		for i, r := range ranking {
			fmt.Fprintf(&b, "%d. %s - fit %s (%s)\n", i+1, propertyLabelID(r.PropertyID), formatPercent(r.Score), criteriaSummary(r))
		}
	}

	b.WriteString(`
Respond with a JSON object with exactly these string fields:
- "key_differences": the key differences between the properties
- "value_analysis": value analysis, including price per square meter
- "pros_and_cons": pros and cons of each property
- "recommendations": recommendations for buyer profiles`)
	if contact != nil {
		b.WriteString(", with your top pick for this client and why")
	} else {
		b.WriteString(" (families, investors, first-time buyers)")
	}
	b.WriteString(`

Use short paragraphs or "- " bullet lines inside each field. Refer to properties as "Property #<ID>".
Keep it professional and concise, 300-500 words in total.
`)

	return b.String()
}

func writeContact(b *strings.Builder, c model.Contact, currency string) {
	b.WriteString("CLIENT PROFILE:\n")
	fmt.Fprintf(b, "- Name: %s\n", c.Name)
	fmt.Fprintf(b, "- Budget Range: %s - %s\n", formatAmount(c.MinBudget), formatMoney(c.MaxBudget, currency))
	fmt.Fprintf(b, "- Preferred Area: %s - %s\n", formatAmount(c.MinAreaSqm), formatArea(c.MaxAreaSqm))
	fmt.Fprintf(b, "- Minimum Rooms: %d\n", c.MinRooms)
	fmt.Fprintf(b, "- Preferred Property Types: %s\n", c.TypeNames())

	locs := make([]string, 0, len(c.PreferredLocations))
	for _, l := range c.PreferredLocations {
		locs = append(locs, fmt.Sprintf("%s (%.4f, %.4f)", l.Name, l.Lat, l.Lon))
	}
	if len(locs) == 0 {
		locs = append(locs, "Any")
	}
	fmt.Fprintf(b, "- Preferred Locations: %s\n\n", strings.Join(locs, ", "))
}

// criteriaSummary lists matched and missed criteria
func criteriaSummary(r model.RankedProperty) string {
	var matched, missed []string
	for _, c := range r.Criteria {
		if c.Matched {
			matched = append(matched, c.Criterion)
		} else {
			missed = append(missed, c.Criterion)
		}
	}

	parts := make([]string, 0, 2)
	if len(matched) > 0 {
		parts = append(parts, "matches: "+strings.Join(matched, ", "))
	}
	if len(missed) > 0 {
		parts = append(parts, "misses: "+strings.Join(missed, ", "))
	}
	return strings.Join(parts, "; ")
}
