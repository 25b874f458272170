package model

// Narrative section titles, in the order they appear in every document
const (
	SectionKeyDifferences = "Key Differences"
	SectionValueAnalysis  = "Value Analysis"
	SectionProsAndCons    = "Pros and Cons"
	SectionBuyerAdvice    = "Buyer Recommendations"
)

// SectionTitles lists the narrative titles in their fixed order
var SectionTitles = []string{
	SectionKeyDifferences,
	SectionValueAnalysis,
	SectionProsAndCons,
	SectionBuyerAdvice,
}

// AnalysisSource tells which variant of AnalysisResult is populated
type AnalysisSource string

const (
	SourceGenerated AnalysisSource = "generated"
	SourceFallback  AnalysisSource = "fallback"
)

// FallbackReason explains why the rule-based analysis was used
type FallbackReason string

const (
	ReasonDisabled      FallbackReason = "disabled"
	ReasonUnreachable   FallbackReason = "unreachable"
	ReasonTimeout       FallbackReason = "timeout"
	ReasonBadStatus     FallbackReason = "bad_status"
	ReasonMalformed     FallbackReason = "malformed"
	ReasonEmpty         FallbackReason = "empty"
	ReasonNotApplicable FallbackReason = "not_applicable"
)

// NarrativeSection is one titled block of analysis text
type NarrativeSection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CriterionFit is the fit of one preference criterion, in [0, 1]
type CriterionFit struct {
	Criterion string  `json:"criterion"`
	Score     float64 `json:"score"`
	Matched   bool    `json:"matched"`
}

// RankedProperty is a property with its preference fit against a contact
type RankedProperty struct {
	PropertyID int64          `json:"property_id"`
	Score      float64        `json:"score"`
	Criteria   []CriterionFit `json:"criteria,omitempty"`
}

// AnalysisResult is either Generated (from the reasoning service) or
// Fallback (rule-based). Both variants have the same shape.
type AnalysisResult struct {
	Source   AnalysisSource     `json:"source"`
	Reason   FallbackReason     `json:"reason,omitempty"`
	Sections []NarrativeSection `json:"sections"`
	Ranking  []RankedProperty   `json:"ranking,omitempty"`
}

// Generated builds the AI-backed variant
func Generated(sections []NarrativeSection, ranking []RankedProperty) AnalysisResult {
	return AnalysisResult{Source: SourceGenerated, Sections: sections, Ranking: ranking}
}

// Fallback builds the rule-based variant
func Fallback(reason FallbackReason, sections []NarrativeSection, ranking []RankedProperty) AnalysisResult {
	return AnalysisResult{Source: SourceFallback, Reason: reason, Sections: sections, Ranking: ranking}
}

// IsFallback reports whether the result came from the rule-based path
func (a AnalysisResult) IsFallback() bool {
	return a.Source == SourceFallback
}

// RankedIDs returns property ids in ranking order
func (a AnalysisResult) RankedIDs() []int64 {
	ids := make([]int64, 0, len(a.Ranking))
	for _, r := range a.Ranking {
		ids = append(ids, r.PropertyID)
	}
	return ids
}
