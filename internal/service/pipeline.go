package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Junction-25/pdf-service/internal/apperr"
	"github.com/Junction-25/pdf-service/internal/metrics"
	"github.com/Junction-25/pdf-service/internal/model"

	"go.uber.org/zap"
)

const contentTypePDF = "application/pdf"

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Request asks for one document
type Request struct {
	Type        model.DocumentType
	PropertyIDs []int64
	ContactID   *int64
	// RequestID only tags log lines
	RequestID string
}

type contactRule int

const (
	contactOptional contactRule = iota
	contactRequired
)

type cardinality struct {
	min, max int
	contact  contactRule
	analyze  bool
}

var cardinalities = map[model.DocumentType]cardinality{
	model.DocumentComparison:     {min: 2, max: 2, contact: contactOptional, analyze: true},
	model.DocumentRecommendation: {min: 2, max: 3, contact: contactRequired, analyze: true},
	model.DocumentQuote:          {min: 1, max: 1, contact: contactOptional, analyze: false},
}

// Pipeline runs resolve, analyze and assemble for each request
type Pipeline struct {
	resolver  *Resolver
	analyzer  *AnalysisGenerator
	assembler *Assembler
	logger    *zap.Logger
}

// NewPipeline wires the pipeline stages
func NewPipeline(resolver *Resolver, analyzer *AnalysisGenerator, assembler *Assembler, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		resolver:  resolver,
		analyzer:  analyzer,
		assembler: assembler,
		logger:    logger,
	}
}

// Generate produces a document or a classified *apperr.Error. No partial
// document is ever returned.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*model.Document, error) {
	start := time.Now()
	docType := string(req.Type)
	log := p.logger.With(zap.String("document_type", docType))
	if req.RequestID != "" {
		log = log.With(zap.String("request_id", req.RequestID))
	}

	metrics.DocumentsInFlight.WithLabelValues(docType).Inc()
	defer metrics.DocumentsInFlight.WithLabelValues(docType).Dec()

	doc, err := p.generate(ctx, req, log)
	metrics.GenerationDuration.WithLabelValues(docType).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DocumentsGenerated.WithLabelValues(docType, string(apperr.KindOf(err))).Inc()
		log.Warn("document generation failed", zap.Error(err))
		return nil, err
	}

	metrics.DocumentsGenerated.WithLabelValues(docType, "ok").Inc()
	log.Info("document generated",
		zap.String("filename", doc.Filename),
		zap.Int("bytes", len(doc.Bytes)),
		zap.String("analysis_source", string(doc.AnalysisSource)),
		zap.String("fallback_reason", string(doc.FallbackReason)),
		zap.Duration("duration", time.Since(start)),
	)
	return doc, nil
}

func (p *Pipeline) generate(ctx context.Context, req Request, log *zap.Logger) (*model.Document, error) {
	rule, ok := cardinalities[req.Type]
	if !ok {
		return nil, apperr.AtStage(apperr.StageResolvingRecords, apperr.InvalidInput("unknown document type %q", req.Type))
	}

	// Resolving records
	stage := apperr.StageResolvingRecords
	log.Debug("pipeline state", zap.String("stage", string(stage)))
	if err := ctx.Err(); err != nil {
		return nil, apperr.AtStage(stage, err)
	}
	if err := checkIDs("property", req.PropertyIDs, rule.min, rule.max); err != nil {
		return nil, apperr.AtStage(stage, err)
	}
	if rule.contact == contactRequired && req.ContactID == nil {
		return nil, apperr.AtStage(stage, apperr.InvalidInput("%s requires a contact id", req.Type))
	}

	properties, err := p.resolver.ResolveProperties(req.PropertyIDs, rule.min, rule.max)
	if err != nil {
		return nil, apperr.AtStage(stage, err)
	}
	var contact *model.Contact
	if req.ContactID != nil {
		c, err := p.resolver.ResolveContact(*req.ContactID)
		if err != nil {
			return nil, apperr.AtStage(stage, err)
		}
		contact = &c
	}

	// Generating analysis
	stage = apperr.StageGeneratingAnalysis
	log.Debug("pipeline state", zap.String("stage", string(stage)))
	if err := ctx.Err(); err != nil {
		return nil, apperr.AtStage(stage, err)
	}
	var analysis model.AnalysisResult
	if rule.analyze {
		analysis, err = p.analyzer.Analyze(ctx, properties, contact)
		if err != nil {
			return nil, apperr.AtStage(stage, err)
		}
	} else {
		analysis = p.analyzer.NotApplicable()
	}
	analysisFields := []zap.Field{zap.Bool("fallback", analysis.IsFallback())}
	if analysis.IsFallback() {
		analysisFields = append(analysisFields, zap.String("fallback_reason", string(analysis.Reason)))
	}
	if ids := analysis.RankedIDs(); len(ids) > 0 {
		analysisFields = append(analysisFields, zap.Int64s("ranking", ids))
	}
	log.Info("analysis ready", analysisFields...)

	// Assembling
	stage = apperr.StageAssembling
	log.Debug("pipeline state", zap.String("stage", string(stage)))
	if err := ctx.Err(); err != nil {
		return nil, apperr.AtStage(stage, err)
	}
	out, err := p.assembler.Assemble(req.Type, properties, contact, analysis)
	if err != nil {
		return nil, apperr.AtStage(stage, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperr.AtStage(stage, err)
	}

	log.Debug("pipeline state", zap.String("stage", string(apperr.StageDone)))
	return &model.Document{
		Type:           req.Type,
		Filename:       Filename(req.Type, properties, contact),
		ContentType:    contentTypePDF,
		Bytes:          out,
		AnalysisSource: analysis.Source,
		FallbackReason: analysis.Reason,
	}, nil
}

// Filename suggests a download name for the document
func Filename(docType model.DocumentType, properties []model.Property, contact *model.Contact) string {
	ids := make([]string, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, strconv.FormatInt(p.ID, 10))
	}

	switch docType {
	case model.DocumentComparison:
		return fmt.Sprintf("comparison_%s.pdf", strings.Join(ids, "_vs_"))
	case model.DocumentRecommendation:
		var name string
		if contact != nil {
			name = strings.Trim(unsafeFilenameRe.ReplaceAllString(contact.Name, "_"), "_")
		}
		if name == "" {
			name = "client"
		}
		return fmt.Sprintf("recommendation_%s_%s.pdf", name, strings.Join(ids, "_"))
	case model.DocumentQuote:
		if contact != nil {
			return fmt.Sprintf("quote_%s_for_%d.pdf", strings.Join(ids, "_"), contact.ID)
		}
		return fmt.Sprintf("quote_%s.pdf", strings.Join(ids, "_"))
	default:
		return "document.pdf"
	}
}
