package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Junction-25/pdf-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGenerator(r Reasoner) *AnalysisGenerator {
	return NewAnalysisGenerator(r, NewRanker(testRankingConfig()), "DZD", zap.NewNop())
}

func sectionTitles(sections []model.NarrativeSection) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.Title)
	}
	return out
}

func TestAnalyze_Generated(t *testing.T) {
	reasoner := &fakeReasoner{enabled: true, reply: generatedReply}
	gen := newTestGenerator(reasoner)
	props := testProperties()[:2]

	result, err := gen.Analyze(context.Background(), props, nil)
	require.NoError(t, err)

	assert.Equal(t, model.SourceGenerated, result.Source)
	assert.Empty(t, result.Reason)
	assert.Equal(t, model.SectionTitles, sectionTitles(result.Sections))
	assert.Equal(t, "- Property #1 costs less per m²\n- Property #2 is a premium villa", result.Sections[1].Body)
	assert.Nil(t, result.Ranking)
	require.Len(t, reasoner.prompts, 1)
	assert.Contains(t, reasoner.prompts[0], "Property 1 (ID: 1)")
	assert.Contains(t, reasoner.prompts[0], "Property 2 (ID: 2)")
}

func TestAnalyze_RanksWhenContactGiven(t *testing.T) {
	reasoner := &fakeReasoner{enabled: true, reply: generatedReply}
	gen := newTestGenerator(reasoner)
	contact := testContact()

	result, err := gen.Analyze(context.Background(), testProperties(), &contact)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 3, 2}, result.RankedIDs())
	assert.Contains(t, reasoner.prompts[0], "Amina Benali")
}

func TestAnalyze_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		reasoner Reasoner
		reason   model.FallbackReason
	}{
		{
			name:     "nil reasoner",
			reasoner: nil,
			reason:   model.ReasonDisabled,
		},
		{
			name:     "disabled",
			reasoner: &fakeReasoner{enabled: false, reply: generatedReply},
			reason:   model.ReasonDisabled,
		},
		{
			name:     "unreachable",
			reasoner: &fakeReasoner{enabled: true, err: &RemoteError{Reason: model.ReasonUnreachable, Transient: true, Err: errors.New("connection refused")}},
			reason:   model.ReasonUnreachable,
		},
		{
			name:     "unclassified error",
			reasoner: &fakeReasoner{enabled: true, err: errors.New("boom")},
			reason:   model.ReasonUnreachable,
		},
		{
			name:     "not json",
			reasoner: &fakeReasoner{enabled: true, reply: "I cannot help with that."},
			reason:   model.ReasonMalformed,
		},
		{
			name:     "missing field",
			reasoner: &fakeReasoner{enabled: true, reply: `{"key_differences": "a", "value_analysis": "b", "pros_and_cons": "c"}`},
			reason:   model.ReasonMalformed,
		},
		{
			name:     "wrong field type",
			reasoner: &fakeReasoner{enabled: true, reply: `{"key_differences": 1, "value_analysis": "b", "pros_and_cons": "c", "recommendations": "d"}`},
			reason:   model.ReasonMalformed,
		},
		{
			name:     "empty narrative",
			reasoner: &fakeReasoner{enabled: true, reply: `{"key_differences": "a", "value_analysis": "  ", "pros_and_cons": "c", "recommendations": "d"}`},
			reason:   model.ReasonEmpty,
		},
		{
			name:     "empty list",
			reasoner: &fakeReasoner{enabled: true, reply: `{"key_differences": "a", "value_analysis": "b", "pros_and_cons": [], "recommendations": "d"}`},
			reason:   model.ReasonEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newTestGenerator(tt.reasoner)

			result, err := gen.Analyze(context.Background(), testProperties()[:2], nil)
			require.NoError(t, err)

			assert.True(t, result.IsFallback())
			assert.Equal(t, tt.reason, result.Reason)
			assert.Equal(t, model.SectionTitles, sectionTitles(result.Sections))
			for _, s := range result.Sections {
				assert.NotEmpty(t, strings.TrimSpace(s.Body), s.Title)
			}
		})
	}
}

func TestAnalyze_CanceledIsNotMasked(t *testing.T) {
	gen := newTestGenerator(&fakeReasoner{enabled: true, reply: generatedReply})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Analyze(ctx, testProperties()[:2], nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildFallback_Deterministic(t *testing.T) {
	contact := testContact()
	ranking := NewRanker(testRankingConfig()).Rank(testProperties(), contact)

	first := BuildFallback(testProperties(), &contact, ranking, "DZD")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildFallback(testProperties(), &contact, ranking, "DZD"))
	}

	advice := first[3].Body
	assert.Contains(t, advice, "Top pick for Amina Benali: Property #1")
	assert.True(t, strings.HasSuffix(advice, fallbackNote))
}

func TestBuildFallback_MentionsEveryProperty(t *testing.T) {
	sections := BuildFallback(testProperties()[:2], nil, nil, "DZD")
	require.Len(t, sections, 4)

	text := ""
	for _, s := range sections {
		text += s.Body + "\n"
	}
	assert.Contains(t, text, "Property #1")
	assert.Contains(t, text, "Property #2")
	assert.Contains(t, sections[3].Body, "Budget-focused buyers: Property #1")
}

func TestNotApplicable(t *testing.T) {
	result := newTestGenerator(nil).NotApplicable()
	assert.True(t, result.IsFallback())
	assert.Equal(t, model.ReasonNotApplicable, result.Reason)
	assert.Empty(t, result.Sections)
}
