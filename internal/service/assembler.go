package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Junction-25/pdf-service/internal/apperr"
	"github.com/Junction-25/pdf-service/internal/config"
	"github.com/Junction-25/pdf-service/internal/model"
)

const (
	brandName       = "Dar.ai"
	analysisHeading = "Analysis & Recommendation"
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
	noDescription   = "No description available"
)

var (
	numberedLineRe = regexp.MustCompile(`^\d+\.\s+`)
	boldMarkerRe   = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// Renderer is the drawing surface
type Renderer interface {
	Render(spec model.DocumentSpec) ([]byte, error)
}

// Assembler lays out documents and hands them to the renderer
type Assembler struct {
	renderer Renderer
	quote    config.QuoteConfig
	fees     []config.FeeItem
	now      func() time.Time
}

// NewAssembler creates an assembler. now is injectable so documents can be
// reproduced byte for byte in tests.
func NewAssembler(renderer Renderer, quote config.QuoteConfig, fees []config.FeeItem, now func() time.Time) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{renderer: renderer, quote: quote, fees: fees, now: now}
}

// Assemble builds the layout for docType and renders it. Records with a
// non-positive area are rejected before the renderer is called.
func (a *Assembler) Assemble(docType model.DocumentType, properties []model.Property, contact *model.Contact, analysis model.AnalysisResult) ([]byte, error) {
	for _, p := range properties {
		if p.AreaSqm <= 0 {
			return nil, apperr.InvalidRecord(p.ID, "property %d has a non-positive area (%g m²)", p.ID, p.AreaSqm)
		}
	}

	spec, err := a.BuildSpec(docType, properties, contact, analysis)
	if err != nil {
		return nil, err
	}

	out, err := a.renderer.Render(spec)
	if err != nil {
		return nil, apperr.RenderFailure(err)
	}
	return out, nil
}

// BuildSpec produces the ordered section list for a document type
func (a *Assembler) BuildSpec(docType model.DocumentType, properties []model.Property, contact *model.Contact, analysis model.AnalysisResult) (model.DocumentSpec, error) {
	switch docType {
	case model.DocumentComparison:
		return a.comparison(properties, analysis), nil
	case model.DocumentRecommendation:
		if contact == nil {
			return model.DocumentSpec{}, apperr.InvalidInput("recommendation requires a contact")
		}
		return a.recommendation(properties, *contact, analysis), nil
	case model.DocumentQuote:
		if len(properties) != 1 {
			return model.DocumentSpec{}, apperr.InvalidInput("quote requires exactly 1 property, got %d", len(properties))
		}
		return a.quoteSpec(properties[0], contact), nil
	default:
		return model.DocumentSpec{}, apperr.InvalidInput("unknown document type %q", docType)
	}
}

func (a *Assembler) comparison(properties []model.Property, analysis model.AnalysisResult) model.DocumentSpec {
	now := a.now()
	currency := a.quote.Currency

	header := []string{"Feature"}
	for _, p := range properties {
		header = append(header, propertyLabel(p))
	}
	row := func(label string, cell func(p model.Property) string) []string {
		r := []string{label}
		for _, p := range properties {
			r = append(r, cell(p))
		}
		return r
	}

	table := &model.Table{
		Header: header,
		Rows: [][]string{
			row("ID", func(p model.Property) string { return strconv.FormatInt(p.ID, 10) }),
			row("Price", func(p model.Property) string { return formatMoney(p.Price, currency) }),
			row("Area", func(p model.Property) string { return formatArea(p.AreaSqm) }),
			row("Rooms", func(p model.Property) string { return strconv.Itoa(p.NumberOfRooms) }),
			row("Type", func(p model.Property) string { return p.PropertyType.Title() }),
			row("Location", func(p model.Property) string { return p.Address }),
			row("Price per m²", func(p model.Property) string { return formatPricePerArea(p, currency) }),
			row("Description", func(p model.Property) string { return p.DescriptionOr(noDescription) }),
		},
		ColumnWidths: columnWeights(1.5, len(properties), 3),
		LabelColumn:  true,
	}

	sections := []model.Section{
		title(1, "Property Comparison"),
		{Kind: model.SectionTable, Table: table},
		title(2, analysisHeading),
	}
	sections = append(sections, narrative(analysis.Sections)...)
	sections = append(sections, generatedFooter(now))

	return model.DocumentSpec{
		Title:       "Property Comparison",
		Author:      brandName,
		GeneratedAt: now,
		Sections:    sections,
	}
}

func (a *Assembler) recommendation(properties []model.Property, contact model.Contact, analysis model.AnalysisResult) model.DocumentSpec {
	now := a.now()
	currency := a.quote.Currency
	docTitle := "Personalized Property Recommendation for " + contact.Name

	profile := &model.Table{
		Header: []string{"Preference", "Details"},
		Rows: [][]string{
			{"Budget Range", formatAmount(contact.MinBudget) + " - " + formatMoney(contact.MaxBudget, currency)},
			{"Preferred Area", formatAmount(contact.MinAreaSqm) + " - " + formatArea(contact.MaxAreaSqm)},
			{"Minimum Rooms", strconv.Itoa(contact.MinRooms)},
			{"Property Types", contact.TypeNames()},
			{"Preferred Locations", contact.LocationNames()},
		},
		ColumnWidths: []float64{2, 5.5},
		LabelColumn:  true,
	}

	byID := make(map[int64]model.Property, len(properties))
	for _, p := range properties {
		byID[p.ID] = p
	}

	overview := &model.Table{
		Header:       []string{"Rank", "Property", "Address", "Price (" + currency + ")", "Area (m²)", "Rooms", "Type"},
		ColumnWidths: []float64{0.6, 1.1, 2.4, 1.4, 0.9, 0.7, 1.0},
	}
	fit := &model.Table{
		Header:       []string{"Property", CriterionBudget, CriterionArea, CriterionRooms, CriterionType, CriterionLocation, "Fit"},
		ColumnWidths: []float64{1.3, 1, 1, 1, 1, 1, 0.9},
	}
	for i, r := range orderedRanking(properties, analysis) {
		p := byID[r.PropertyID]
		overview.Rows = append(overview.Rows, []string{
			strconv.Itoa(i + 1),
			propertyLabel(p),
			p.Address,
			formatAmount(p.Price),
			strings.TrimSuffix(formatArea(p.AreaSqm), " m²"),
			strconv.Itoa(p.NumberOfRooms),
			p.PropertyType.Title(),
		})

		marks := []string{propertyLabel(p)}
		for _, c := range r.Criteria {
			marks = append(marks, yesNo(c.Matched))
		}
		marks = append(marks, formatPercent(r.Score))
		fit.Rows = append(fit.Rows, marks)
	}

	sections := []model.Section{
		title(1, docTitle),
		title(2, "Client Profile & Preferences"),
		{Kind: model.SectionTable, Table: profile},
		title(2, "Properties Under Consideration"),
		{Kind: model.SectionTable, Table: overview},
		title(2, "Preference Match"),
		{Kind: model.SectionTable, Table: fit},
		{Kind: model.SectionPageBreak},
		title(2, analysisHeading),
	}
	sections = append(sections, narrative(analysis.Sections)...)
	sections = append(sections, generatedFooter(now))

	return model.DocumentSpec{
		Title:       docTitle,
		Author:      brandName,
		GeneratedAt: now,
		Sections:    sections,
	}
}

func (a *Assembler) quoteSpec(p model.Property, contact *model.Contact) model.DocumentSpec {
	now := a.now()
	currency := a.quote.Currency
	validUntil := now.AddDate(0, 0, a.quote.ValidityDays)

	var meta [][]string
	if contact != nil {
		meta = append(meta, []string{"Quote For", contact.Name})
	}
	meta = append(meta,
		[]string{"Date", now.Format(dateLayout)},
		[]string{"Valid Until", validUntil.Format(dateLayout)},
	)

	details := &model.Table{
		Header: []string{"Property Information", "Details"},
		Rows: [][]string{
			{"Property ID", strconv.FormatInt(p.ID, 10)},
			{"Address", p.Address},
			{"Property Type", p.PropertyType.Title()},
			{"Category", p.PropertyType.Category().Title()},
			{"Area", formatArea(p.AreaSqm)},
			{"Rooms", strconv.Itoa(p.NumberOfRooms)},
			{"Price per m²", formatPricePerArea(p, currency)},
			{"Description", p.DescriptionOr(noDescription)},
		},
		ColumnWidths: []float64{2, 5.5},
		LabelColumn:  true,
	}

	total := p.Price
	pricing := &model.Table{
		Header:       []string{"Item Description", "Price (" + currency + ")"},
		Rows:         [][]string{{"Real estate property located at: " + p.Address, formatAmount(p.Price)}},
		ColumnWidths: []float64{5.5, 2},
		TotalRow:     true,
	}
	for _, fee := range a.fees {
		pricing.Rows = append(pricing.Rows, []string{fee.Label, formatAmount(fee.Amount)})
		total += fee.Amount
	}
	pricing.Rows = append(pricing.Rows, []string{"Total Amount", formatAmount(total)})

	sections := []model.Section{
		{Kind: model.SectionParagraph, Style: model.StyleStrong, Text: a.quote.CompanyName},
		{Kind: model.SectionParagraph, Style: model.StyleNote, Text: a.quote.Tagline},
		title(1, "QUOTE"),
		{Kind: model.SectionTable, Table: &model.Table{Rows: meta, ColumnWidths: []float64{1.5, 6}, LabelColumn: true}},
		title(2, "Property Details"),
		{Kind: model.SectionTable, Table: details},
		title(2, "Pricing"),
		{Kind: model.SectionTable, Table: pricing},
		{Kind: model.SectionParagraph, Style: model.StyleNote, Text: fmt.Sprintf(
			"This quote is valid for %d days, until %s. Prices are in %s.",
			a.quote.ValidityDays, validUntil.Format(dateLayout), currency)},
		{Kind: model.SectionParagraph, Style: model.StyleBody, Text: fmt.Sprintf(
			"If you have any questions concerning this quote, please contact us at %s.", a.quote.CompanyName)},
		generatedFooter(now),
	}

	return model.DocumentSpec{
		Title:       fmt.Sprintf("Quote for %s", propertyLabel(p)),
		Author:      a.quote.CompanyName,
		GeneratedAt: now,
		Sections:    sections,
	}
}

// orderedRanking returns the analysis ranking, or the input order with
// empty criteria when the analysis carries none
func orderedRanking(properties []model.Property, analysis model.AnalysisResult) []model.RankedProperty {
	if len(analysis.Ranking) == len(properties) {
		return analysis.Ranking
	}
	out := make([]model.RankedProperty, 0, len(properties))
	for _, p := range properties {
		out = append(out, model.RankedProperty{PropertyID: p.ID})
	}
	return out
}

// narrative turns analysis sections into headings and paragraphs
func narrative(sections []model.NarrativeSection) []model.Section {
	var out []model.Section
	for _, s := range sections {
		out = append(out, title(3, s.Title))
		out = append(out, SplitNarrative(s.Body)...)
	}
	return out
}

// SplitNarrative splits a markdown-ish body into paragraphs. List lines
// ("- ", "* ", "1. ") become bullets; "#" headings and whole-line bold
// become strong paragraphs; other ** markers are dropped.
func SplitNarrative(body string) []model.Section {
	var out []model.Section
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		style := model.StyleBody
		switch {
		case strings.HasPrefix(line, "#"):
			style = model.StyleStrong
			line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		case strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && len(line) > 4 &&
			!strings.Contains(line[2:len(line)-2], "**"):
			style = model.StyleStrong
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			style = model.StyleBullet
			line = strings.TrimSpace(line[2:])
		case numberedLineRe.MatchString(line):
			style = model.StyleBullet
			line = numberedLineRe.ReplaceAllString(line, "")
		}

		line = strings.TrimSpace(boldMarkerRe.ReplaceAllString(line, "$1"))
		if line == "" {
			continue
		}
		out = append(out, model.Section{Kind: model.SectionParagraph, Style: style, Text: line})
	}
	return out
}

func title(level int, text string) model.Section {
	return model.Section{Kind: model.SectionTitle, Level: level, Text: text}
}

func generatedFooter(now time.Time) model.Section {
	return model.Section{
		Kind:  model.SectionParagraph,
		Style: model.StyleNote,
		Text:  fmt.Sprintf("Generated on: %s by %s", now.Format(timestampLayout), brandName),
	}
}

// columnWeights is a label column followed by n equal data columns
func columnWeights(label float64, n int, data float64) []float64 {
	out := []float64{label}
	for i := 0; i < n; i++ {
		out = append(out, data)
	}
	return out
}
