package service

import (
	"math"
	"sort"

	"github.com/Junction-25/pdf-service/internal/config"
	"github.com/Junction-25/pdf-service/internal/model"
	"github.com/Junction-25/pdf-service/internal/utils"
)

// Criterion names, in the order they appear in documents
const (
	CriterionBudget   = "Budget"
	CriterionArea     = "Area"
	CriterionRooms    = "Rooms"
	CriterionType     = "Type"
	CriterionLocation = "Location"
)

// Ranker scores how well properties fit a contact's preferences
type Ranker struct {
	weightBudget   float64
	weightArea     float64
	weightRooms    float64
	weightType     float64
	weightLocation float64
	radiusKm       float64
	cutoffKm       float64
}

// NewRanker creates a new ranker with the configured weights
func NewRanker(cfg config.RankingConfig) *Ranker {
	return &Ranker{
		weightBudget:   cfg.WeightBudget,
		weightArea:     cfg.WeightArea,
		weightRooms:    cfg.WeightRooms,
		weightType:     cfg.WeightType,
		weightLocation: cfg.WeightLocation,
		radiusKm:       cfg.LocationRadiusKm,
		cutoffKm:       cfg.LocationCutoffKm,
	}
}

// Rank scores every property and orders them best fit first. Ties go to
// the cheaper property, then the lower id.
func (r *Ranker) Rank(properties []model.Property, contact model.Contact) []model.RankedProperty {
	prices := make(map[int64]float64, len(properties))
	results := make([]model.RankedProperty, 0, len(properties))
	for _, p := range properties {
		prices[p.ID] = p.Price
		results = append(results, r.Score(p, contact))
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if prices[a.PropertyID] != prices[b.PropertyID] {
			return prices[a.PropertyID] < prices[b.PropertyID]
		}
		return a.PropertyID < b.PropertyID
	})

	return results
}

// Score computes the weighted fit of one property, in [0, 1]
func (r *Ranker) Score(p model.Property, c model.Contact) model.RankedProperty {
	criteria := []struct {
		name   string
		weight float64
		score  float64
		match  bool
	}{
		{CriterionBudget, r.weightBudget, r.budgetScore(p, c), inRange(p.Price, c.MinBudget, c.MaxBudget)},
		{CriterionArea, r.weightArea, r.areaScore(p, c), inRange(p.AreaSqm, c.MinAreaSqm, c.MaxAreaSqm)},
		{CriterionRooms, r.weightRooms, r.roomsScore(p, c), p.NumberOfRooms >= c.MinRooms},
		{CriterionType, r.weightType, r.typeScore(p, c), utils.MatchPropertyType(string(p.PropertyType), c.PropertyTypes)},
		{CriterionLocation, r.weightLocation, 0, false},
	}
	loc := r.locationScore(p, c)
	criteria[4].score = loc
	criteria[4].match = loc >= 1

	result := model.RankedProperty{
		PropertyID: p.ID,
		Criteria:   make([]model.CriterionFit, 0, len(criteria)),
	}

	var total, weights float64
	for _, cr := range criteria {
		total += cr.weight * cr.score
		weights += cr.weight
		result.Criteria = append(result.Criteria, model.CriterionFit{
			Criterion: cr.name,
			Score:     cr.score,
			Matched:   cr.match,
		})
	}
	if weights > 0 {
		result.Score = roundScore(total / weights)
	}

	return result
}

// budgetScore is full inside the range, drops to zero at twice the ceiling,
// and loses at most half for being under the floor
func (r *Ranker) budgetScore(p model.Property, c model.Contact) float64 {
	if c.MaxBudget > 0 && p.Price > c.MaxBudget {
		return clamp01(1 - (p.Price-c.MaxBudget)/c.MaxBudget)
	}
	if c.MinBudget > 0 && p.Price < c.MinBudget {
		return clamp01(1 - 0.5*(c.MinBudget-p.Price)/c.MinBudget)
	}
	return 1.0
}

func (r *Ranker) areaScore(p model.Property, c model.Contact) float64 {
	if c.MinAreaSqm > 0 && p.AreaSqm < c.MinAreaSqm {
		return clamp01(1 - (c.MinAreaSqm-p.AreaSqm)/c.MinAreaSqm)
	}
	if c.MaxAreaSqm > 0 && p.AreaSqm > c.MaxAreaSqm {
		return clamp01(1 - (p.AreaSqm-c.MaxAreaSqm)/c.MaxAreaSqm)
	}
	return 1.0
}

func (r *Ranker) roomsScore(p model.Property, c model.Contact) float64 {
	if c.MinRooms <= 0 || p.NumberOfRooms >= c.MinRooms {
		return 1.0
	}
	return clamp01(float64(p.NumberOfRooms) / float64(c.MinRooms))
}

func (r *Ranker) typeScore(p model.Property, c model.Contact) float64 {
	if utils.MatchPropertyType(string(p.PropertyType), c.PropertyTypes) {
		return 1.0
	}
	return 0.0
}

// locationScore takes the best of the preferred locations. A name found in
// the address counts as a full match; otherwise distance decays linearly
// from the radius to the cutoff.
func (r *Ranker) locationScore(p model.Property, c model.Contact) float64 {
	if len(c.PreferredLocations) == 0 {
		return 1.0
	}

	best := 0.0
	for _, loc := range c.PreferredLocations {
		if utils.FuzzyMatchLocation(loc.Name, p.Address) {
			return 1.0
		}
		if p.Location.IsZero() || loc.Point().IsZero() {
			continue
		}
		d := utils.HaversineKm(p.Location.Lat, p.Location.Lon, loc.Lat, loc.Lon)
		best = math.Max(best, r.distanceScore(d))
	}
	return best
}

func (r *Ranker) distanceScore(km float64) float64 {
	switch {
	case km <= r.radiusKm:
		return 1.0
	case km >= r.cutoffKm:
		return 0.0
	default:
		return 1 - (km-r.radiusKm)/(r.cutoffKm-r.radiusKm)
	}
}

// inRange treats a zero bound as open
func inRange(v, lo, hi float64) bool {
	if lo > 0 && v < lo {
		return false
	}
	if hi > 0 && v > hi {
		return false
	}
	return true
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
