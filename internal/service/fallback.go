package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/Junction-25/pdf-service/internal/model"
)

const fallbackNote = "Note: this analysis was produced from the listing data alone. " +
	"Please consult with your agent for a detailed review."

// BuildFallback produces the rule-based narrative. It only compares
// numbers already present in the records, so the same inputs always give
// the same text.
func BuildFallback(properties []model.Property, contact *model.Contact, ranking []model.RankedProperty, currency string) []model.NarrativeSection {
	ext := findExtremes(properties)

	return []model.NarrativeSection{
		{Title: model.SectionKeyDifferences, Body: keyDifferences(properties, ext, currency)},
		{Title: model.SectionValueAnalysis, Body: valueAnalysis(properties, ext, currency)},
		{Title: model.SectionProsAndCons, Body: prosAndCons(properties, ext, contact)},
		{Title: model.SectionBuyerAdvice, Body: buyerAdvice(properties, ext, contact, ranking)},
	}
}

// extremes holds indexes into the property slice; -1 when undefined
type extremes struct {
	cheapest   int
	priciest   int
	largest    int
	smallest   int
	mostRooms  int
	fewest     int
	bestValue  int
	worstValue int
}

func findExtremes(properties []model.Property) extremes {
	e := extremes{bestValue: -1, worstValue: -1}
	for i, p := range properties {
		if i == 0 {
			continue
		}
		if p.Price < properties[e.cheapest].Price {
			e.cheapest = i
		}
		if p.Price > properties[e.priciest].Price {
			e.priciest = i
		}
		if p.AreaSqm > properties[e.largest].AreaSqm {
			e.largest = i
		}
		if p.AreaSqm < properties[e.smallest].AreaSqm {
			e.smallest = i
		}
		if p.NumberOfRooms > properties[e.mostRooms].NumberOfRooms {
			e.mostRooms = i
		}
		if p.NumberOfRooms < properties[e.fewest].NumberOfRooms {
			e.fewest = i
		}
	}

	for i, p := range properties {
		v, ok := pricePerArea(p)
		if !ok {
			continue
		}
		if e.bestValue < 0 {
			e.bestValue, e.worstValue = i, i
			continue
		}
		best, _ := pricePerArea(properties[e.bestValue])
		worst, _ := pricePerArea(properties[e.worstValue])
		if v < best {
			e.bestValue = i
		}
		if v > worst {
			e.worstValue = i
		}
	}
	return e
}

func keyDifferences(properties []model.Property, e extremes, currency string) string {
	if len(properties) == 0 {
		return "No properties to compare."
	}
	cheap, dear := properties[e.cheapest], properties[e.priciest]
	large, small := properties[e.largest], properties[e.smallest]
	many, few := properties[e.mostRooms], properties[e.fewest]

	var lines []string
	if dear.Price == cheap.Price {
		lines = append(lines, fmt.Sprintf("- Price: all properties are listed at %s.", formatMoney(cheap.Price, currency)))
	} else {
		lines = append(lines, fmt.Sprintf("- Price: %s costs %s more than %s (%s vs %s).",
			propertyLabel(dear), formatMoney(dear.Price-cheap.Price, currency), propertyLabel(cheap),
			formatAmount(dear.Price), formatAmount(cheap.Price)))
	}
	if large.AreaSqm == small.AreaSqm {
		lines = append(lines, fmt.Sprintf("- Area: all properties offer %s.", formatArea(large.AreaSqm)))
	} else {
		lines = append(lines, fmt.Sprintf("- Area: %s offers %s more than %s.",
			propertyLabel(large), formatArea(large.AreaSqm-small.AreaSqm), propertyLabel(small)))
	}
	if many.NumberOfRooms == few.NumberOfRooms {
		lines = append(lines, fmt.Sprintf("- Rooms: all properties have %d rooms.", many.NumberOfRooms))
	} else {
		lines = append(lines, fmt.Sprintf("- Rooms: %s has %d more rooms than %s.",
			propertyLabel(many), many.NumberOfRooms-few.NumberOfRooms, propertyLabel(few)))
	}

	types := make([]string, 0, len(properties))
	for _, p := range properties {
		types = append(types, fmt.Sprintf("%s (%s)", p.PropertyType.Title(), propertyLabel(p)))
	}
	lines = append(lines, "- Type: "+strings.Join(types, " vs ")+".")

	return strings.Join(lines, "\n")
}

func valueAnalysis(properties []model.Property, e extremes, currency string) string {
	lines := make([]string, 0, len(properties)+1)
	for _, p := range properties {
		lines = append(lines, fmt.Sprintf("- %s: %s for %s, %s.",
			propertyLabel(p), formatMoney(p.Price, currency), formatArea(p.AreaSqm), formatPricePerArea(p, currency)))
	}

	switch {
	case e.bestValue < 0:
		lines = append(lines, "Price per m² cannot be compared because no property has a usable area.")
	case e.bestValue == e.worstValue:
		lines = append(lines, fmt.Sprintf("%s is the only property with a comparable price per m².",
			propertyLabel(properties[e.bestValue])))
	default:
		best, _ := pricePerArea(properties[e.bestValue])
		worst, _ := pricePerArea(properties[e.worstValue])
		if best == worst {
			lines = append(lines, "All properties have the same price per m².")
			break
		}
		saving := (worst - best) / worst
		lines = append(lines, fmt.Sprintf("%s offers the lowest price per m², %s below %s.",
			propertyLabel(properties[e.bestValue]), formatPercent(saving), propertyLabel(properties[e.worstValue])))
	}

	return strings.Join(lines, "\n")
}

func prosAndCons(properties []model.Property, e extremes, contact *model.Contact) string {
	var lines []string
	multiple := len(properties) > 1

	for i, p := range properties {
		var pros, cons []string
		if multiple {
			if i == e.cheapest && properties[e.cheapest].Price != properties[e.priciest].Price {
				pros = append(pros, "lowest price")
			}
			if i == e.priciest && properties[e.cheapest].Price != properties[e.priciest].Price {
				cons = append(cons, "highest price")
			}
			if i == e.largest && properties[e.largest].AreaSqm != properties[e.smallest].AreaSqm {
				pros = append(pros, "largest area")
			}
			if i == e.smallest && properties[e.largest].AreaSqm != properties[e.smallest].AreaSqm {
				cons = append(cons, "smallest area")
			}
			if i == e.mostRooms && properties[e.mostRooms].NumberOfRooms != properties[e.fewest].NumberOfRooms {
				pros = append(pros, "most rooms")
			}
			if i == e.fewest && properties[e.mostRooms].NumberOfRooms != properties[e.fewest].NumberOfRooms {
				cons = append(cons, "fewest rooms")
			}
			if i == e.bestValue && e.bestValue != e.worstValue {
				pros = append(pros, "best value per m²")
			}
		}
		if _, ok := pricePerArea(p); !ok {
			cons = append(cons, "area not recorded")
		}
		if contact != nil && !inRange(p.Price, contact.MinBudget, contact.MaxBudget) {
			cons = append(cons, "outside the client's budget")
		}

		lines = append(lines, fmt.Sprintf("- %s: pros: %s; cons: %s.",
			propertyLabel(p), listOrNone(pros), listOrNone(cons)))
	}

	return strings.Join(lines, "\n")
}

func buyerAdvice(properties []model.Property, e extremes, contact *model.Contact, ranking []model.RankedProperty) string {
	var lines []string

	if contact != nil && len(ranking) > 0 {
		for i, r := range ranking {
			lines = append(lines, fmt.Sprintf("%d. %s - fit %s (%s)",
				i+1, propertyLabelID(r.PropertyID), formatPercent(r.Score), criteriaSummary(r)))
		}
		top := ranking[0]
		lines = append(lines, fmt.Sprintf("Top pick for %s: %s, the closest match to the stated preferences.",
			contact.Name, propertyLabelID(top.PropertyID)))
		if top.Score < 1 {
			var missed []string
			for _, c := range top.Criteria {
				if !c.Matched {
					missed = append(missed, strings.ToLower(c.Criterion))
				}
			}
			if len(missed) > 0 {
				lines = append(lines, fmt.Sprintf("Check %s with the agent before committing.", strings.Join(missed, ", ")))
			}
		}
	} else if len(properties) > 0 {
		lines = append(lines,
			fmt.Sprintf("- Budget-focused buyers: %s has the lowest asking price.", propertyLabel(properties[e.cheapest])),
			fmt.Sprintf("- Families needing space: %s has the most rooms (%d).",
				propertyLabel(properties[e.mostRooms]), properties[e.mostRooms].NumberOfRooms),
		)
		if e.bestValue >= 0 {
			lines = append(lines, fmt.Sprintf("- Investors: %s gives the most area for the money.",
				propertyLabel(properties[e.bestValue])))
		}
	}

	lines = append(lines, fallbackNote)
	return strings.Join(lines, "\n")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none stand out"
	}
	return strings.Join(items, ", ")
}

// roundScore keeps displayed scores stable across platforms
func roundScore(v float64) float64 {
	return math.Round(v*10000) / 10000
}
