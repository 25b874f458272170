package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Junction-25/pdf-service/internal/metrics"
	"github.com/Junction-25/pdf-service/internal/model"
	"github.com/Junction-25/pdf-service/internal/utils"

	"go.uber.org/zap"
)

// Reasoner is the remote reasoning service seen as text in, text out
type Reasoner interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	IsEnabled() bool
}

// analysisFields maps response keys onto section titles, in document order
var analysisFields = []struct {
	key   string
	title string
}{
	{"key_differences", model.SectionKeyDifferences},
	{"value_analysis", model.SectionValueAnalysis},
	{"pros_and_cons", model.SectionProsAndCons},
	{"recommendations", model.SectionBuyerAdvice},
}

var analysisSchema = utils.MustCompileSchema(`{
	"type": "object",
	"required": ["key_differences", "value_analysis", "pros_and_cons", "recommendations"],
	"properties": {
		"key_differences": {"$ref": "#/definitions/text"},
		"value_analysis":  {"$ref": "#/definitions/text"},
		"pros_and_cons":   {"$ref": "#/definitions/text"},
		"recommendations": {"$ref": "#/definitions/text"}
	},
	"definitions": {
		"text": {
			"anyOf": [
				{"type": "string"},
				{"type": "array", "items": {"type": "string"}}
			]
		}
	}
}`)

// AnalysisGenerator produces the narrative analysis for a document
type AnalysisGenerator struct {
	reasoner Reasoner
	ranker   *Ranker
	currency string
	logger   *zap.Logger
}

// NewAnalysisGenerator creates a generator. A nil reasoner behaves like a
// disabled one.
func NewAnalysisGenerator(reasoner Reasoner, ranker *Ranker, currency string, logger *zap.Logger) *AnalysisGenerator {
	return &AnalysisGenerator{
		reasoner: reasoner,
		ranker:   ranker,
		currency: currency,
		logger:   logger,
	}
}

// Analyze returns a Generated result when the reasoning service answers
// with a complete analysis and a Fallback result otherwise. The only error
// it returns is the caller's context being done.
func (g *AnalysisGenerator) Analyze(ctx context.Context, properties []model.Property, contact *model.Contact) (model.AnalysisResult, error) {
	var ranking []model.RankedProperty
	if contact != nil {
		ranking = g.ranker.Rank(properties, *contact)
	}

	result, err := g.attempt(ctx, properties, contact, ranking)
	if err == nil {
		metrics.AnalysisOutcomes.WithLabelValues(string(model.SourceGenerated), "").Inc()
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return model.AnalysisResult{}, ctxErr
	}

	reason := fallbackReason(err)
	g.logger.Warn("using fallback analysis",
		zap.String("reason", string(reason)),
		zap.Error(err),
	)
	return g.orElse(reason, properties, contact, ranking), nil
}

// NotApplicable is the analysis for layouts that render no narrative
func (g *AnalysisGenerator) NotApplicable() model.AnalysisResult {
	metrics.AnalysisOutcomes.WithLabelValues(string(model.SourceFallback), string(model.ReasonNotApplicable)).Inc()
	return model.Fallback(model.ReasonNotApplicable, nil, nil)
}

func (g *AnalysisGenerator) attempt(ctx context.Context, properties []model.Property, contact *model.Contact, ranking []model.RankedProperty) (model.AnalysisResult, error) {
	if g.reasoner == nil || !g.reasoner.IsEnabled() {
		return model.AnalysisResult{}, &RemoteError{Reason: model.ReasonDisabled, Err: errors.New("reasoning client disabled")}
	}

	prompt := BuildPrompt(properties, contact, ranking, g.currency)
	raw, err := g.reasoner.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	sections, err := parseAnalysis(raw)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	return model.Generated(sections, ranking), nil
}

func (g *AnalysisGenerator) orElse(reason model.FallbackReason, properties []model.Property, contact *model.Contact, ranking []model.RankedProperty) model.AnalysisResult {
	metrics.AnalysisOutcomes.WithLabelValues(string(model.SourceFallback), string(reason)).Inc()
	return model.Fallback(reason, BuildFallback(properties, contact, ranking, g.currency), ranking)
}

// parseAnalysis turns the model's JSON into the four narrative sections
func parseAnalysis(raw string) ([]model.NarrativeSection, error) {
	var decoded map[string]interface{}
	if err := utils.ParseAIJSON(raw, &decoded); err != nil {
		return nil, &RemoteError{Reason: model.ReasonMalformed, Err: err}
	}
	if err := analysisSchema.Validate(decoded); err != nil {
		return nil, &RemoteError{Reason: model.ReasonMalformed, Err: err}
	}

	sections := make([]model.NarrativeSection, 0, len(analysisFields))
	for _, f := range analysisFields {
		body := strings.TrimSpace(fieldText(decoded[f.key]))
		if body == "" {
			return nil, &RemoteError{Reason: model.ReasonEmpty, Err: fmt.Errorf("field %q is empty", f.key)}
		}
		sections = append(sections, model.NarrativeSection{Title: f.title, Body: body})
	}
	return sections, nil
}

// fieldText accepts a string or a list of strings (one bullet each)
func fieldText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []interface{}:
		lines := make([]string, 0, len(t))
		for _, item := range t {
			s, _ := item.(string)
			s = strings.TrimPrefix(strings.TrimSpace(s), "- ")
			if s != "" {
				lines = append(lines, "- "+s)
			}
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}

func fallbackReason(err error) model.FallbackReason {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Reason
	}
	return model.ReasonUnreachable
}
