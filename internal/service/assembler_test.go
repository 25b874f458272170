package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Junction-25/pdf-service/internal/apperr"
	"github.com/Junction-25/pdf-service/internal/config"
	"github.com/Junction-25/pdf-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssembler(r Renderer, fees []config.FeeItem) *Assembler {
	return NewAssembler(r, testQuoteConfig(), fees, func() time.Time { return fixedNow })
}

func titlesOf(spec model.DocumentSpec, level int) []string {
	var out []string
	for _, s := range spec.Sections {
		if s.Kind == model.SectionTitle && s.Level == level {
			out = append(out, s.Text)
		}
	}
	return out
}

func specText(spec model.DocumentSpec) string {
	var b strings.Builder
	for _, s := range spec.Sections {
		b.WriteString(s.Text)
		b.WriteString("\n")
		if s.Table != nil {
			b.WriteString(strings.Join(s.Table.Header, "|"))
			b.WriteString("\n")
			for _, row := range s.Table.Rows {
				b.WriteString(strings.Join(row, "|"))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func TestAssembler_Comparison(t *testing.T) {
	renderer := &fakeRenderer{}
	props := testProperties()[:2]
	analysis := model.Fallback(model.ReasonDisabled, BuildFallback(props, nil, nil, "DZD"), nil)

	out, err := newTestAssembler(renderer, nil).Assemble(model.DocumentComparison, props, nil, analysis)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	require.Equal(t, 1, renderer.calls)

	spec := renderer.spec
	assert.Equal(t, "Property Comparison", spec.Title)
	assert.Equal(t, fixedNow, spec.GeneratedAt)
	assert.Equal(t, model.SectionTitles, titlesOf(spec, 3))

	table := spec.Sections[1].Table
	require.NotNil(t, table)
	assert.Equal(t, []string{"Feature", "Property #1", "Property #2"}, table.Header)
	assert.Equal(t, []string{"ID", "1", "2"}, table.Rows[0])
	assert.Equal(t, []string{"Price", "100,000 DZD", "500,000 DZD"}, table.Rows[1])
	assert.Equal(t, []string{"Price per m²", "1,111 DZD/m²", "2,083 DZD/m²"}, table.Rows[6])
	assert.Equal(t, "No description available", table.Rows[7][2])

	last := spec.Sections[len(spec.Sections)-1]
	assert.Equal(t, "Generated on: 2025-03-14 09:30:00 by Dar.ai", last.Text)
}

func TestAssembler_Recommendation(t *testing.T) {
	renderer := &fakeRenderer{}
	props := testProperties()
	contact := testContact()
	ranking := NewRanker(testRankingConfig()).Rank(props, contact)
	analysis := model.Generated([]model.NarrativeSection{
		{Title: model.SectionKeyDifferences, Body: "a"},
		{Title: model.SectionValueAnalysis, Body: "b"},
		{Title: model.SectionProsAndCons, Body: "c"},
		{Title: model.SectionBuyerAdvice, Body: "d"},
	}, ranking)

	_, err := newTestAssembler(renderer, nil).Assemble(model.DocumentRecommendation, props, &contact, analysis)
	require.NoError(t, err)

	spec := renderer.spec
	assert.Equal(t, "Personalized Property Recommendation for Amina Benali", spec.Title)
	assert.Equal(t, model.SectionTitles, titlesOf(spec, 3))

	var overview *model.Table
	var hasBreak bool
	for _, s := range spec.Sections {
		if s.Table != nil && len(s.Table.Header) > 0 && s.Table.Header[0] == "Rank" {
			overview = s.Table
		}
		if s.Kind == model.SectionPageBreak {
			hasBreak = true
		}
	}
	require.NotNil(t, overview)
	require.Len(t, overview.Rows, 3)
	assert.Equal(t, "Property #1", overview.Rows[0][1])
	assert.Equal(t, "Property #3", overview.Rows[1][1])
	assert.Equal(t, "Property #2", overview.Rows[2][1])
	assert.True(t, hasBreak)
}

func TestAssembler_Quote(t *testing.T) {
	renderer := &fakeRenderer{}
	fees := []config.FeeItem{{Label: "Notary fees", Amount: 5000}}
	contact := testContact()

	_, err := newTestAssembler(renderer, fees).Assemble(model.DocumentQuote, testProperties()[:1], &contact, model.Fallback(model.ReasonNotApplicable, nil, nil))
	require.NoError(t, err)

	text := specText(renderer.spec)
	assert.Contains(t, text, "Quote For|Amina Benali")
	assert.Contains(t, text, "Valid Until|2025-04-13")
	assert.Contains(t, text, "Property Type|Apartment\nCategory|Residential")
	assert.Contains(t, text, "Notary fees|5,000")
	assert.Contains(t, text, "Total Amount|105,000")
	assert.NotContains(t, text, analysisHeading)
}

func TestAssembler_RejectsZeroAreaBeforeRendering(t *testing.T) {
	renderer := &fakeRenderer{}
	p := testProperties()[0]
	p.AreaSqm = 0

	_, err := newTestAssembler(renderer, nil).Assemble(model.DocumentQuote, []model.Property{p}, nil, model.Fallback(model.ReasonNotApplicable, nil, nil))

	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Equal(t, 0, renderer.calls)
}

func TestAssembler_RenderFailure(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("disk full")}

	_, err := newTestAssembler(renderer, nil).Assemble(model.DocumentQuote, testProperties()[:1], nil, model.Fallback(model.ReasonNotApplicable, nil, nil))

	assert.ErrorIs(t, err, apperr.ErrRenderFailure)
}

func TestSplitNarrative(t *testing.T) {
	body := "## Overview\n**Property #1**\nPlain **bold** text\n\n- first\n* second\n3. third\n   "

	got := SplitNarrative(body)

	want := []model.Section{
		{Kind: model.SectionParagraph, Style: model.StyleStrong, Text: "Overview"},
		{Kind: model.SectionParagraph, Style: model.StyleStrong, Text: "Property #1"},
		{Kind: model.SectionParagraph, Style: model.StyleBody, Text: "Plain bold text"},
		{Kind: model.SectionParagraph, Style: model.StyleBullet, Text: "first"},
		{Kind: model.SectionParagraph, Style: model.StyleBullet, Text: "second"},
		{Kind: model.SectionParagraph, Style: model.StyleBullet, Text: "third"},
	}
	assert.Equal(t, want, got)
}

func TestFormatAmount(t *testing.T) {
	tests := map[float64]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		1234567.6:  "1,234,568",
		-25000:     "-25,000",
		1000000000: "1,000,000,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatAmount(in), "%v", in)
	}
}
