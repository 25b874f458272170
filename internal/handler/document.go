package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Junction-25/pdf-service/internal/apperr"
	"github.com/Junction-25/pdf-service/internal/model"
	"github.com/Junction-25/pdf-service/internal/service"

	"github.com/gin-gonic/gin"
)

// DocumentGenerator produces one document per request
type DocumentGenerator interface {
	Generate(ctx context.Context, req service.Request) (*model.Document, error)
}

// DocumentHandler serves the PDF endpoints
type DocumentHandler struct {
	generator DocumentGenerator
	timeout   time.Duration
}

// NewDocumentHandler creates a document handler. A zero timeout leaves the
// request context unbounded.
func NewDocumentHandler(generator DocumentGenerator, timeout time.Duration) *DocumentHandler {
	return &DocumentHandler{
		generator: generator,
		timeout:   timeout,
	}
}

// Compare handles GET /api/v1/compare?property_id_1=&property_id_2=
func (h *DocumentHandler) Compare(c *gin.Context) {
	first, err := requiredID(c, "property_id_1")
	if err != nil {
		writeError(c, err)
		return
	}
	second, err := requiredID(c, "property_id_2")
	if err != nil {
		writeError(c, err)
		return
	}

	h.generate(c, service.Request{
		Type:        model.DocumentComparison,
		PropertyIDs: []int64{first, second},
	})
}

// Recommend handles GET /api/v1/recommend?property_ids=1,2,3&contact_id=
func (h *DocumentHandler) Recommend(c *gin.Context) {
	ids, err := idList(c, "property_ids")
	if err != nil {
		writeError(c, err)
		return
	}
	contactID, err := requiredID(c, "contact_id")
	if err != nil {
		writeError(c, err)
		return
	}

	h.generate(c, service.Request{
		Type:        model.DocumentRecommendation,
		PropertyIDs: ids,
		ContactID:   &contactID,
	})
}

// Quote handles GET /api/v1/quote?property_id=&contact_id=
func (h *DocumentHandler) Quote(c *gin.Context) {
	propertyID, err := requiredID(c, "property_id")
	if err != nil {
		writeError(c, err)
		return
	}
	contactID, err := optionalID(c, "contact_id")
	if err != nil {
		writeError(c, err)
		return
	}

	h.generate(c, service.Request{
		Type:        model.DocumentQuote,
		PropertyIDs: []int64{propertyID},
		ContactID:   contactID,
	})
}

func (h *DocumentHandler) generate(c *gin.Context, req service.Request) {
	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	req.RequestID = c.GetString(requestIDKey)

	doc, err := h.generator.Generate(ctx, req)
	if err != nil {
		_ = c.Error(err)
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Header("X-Analysis-Source", string(doc.AnalysisSource))
	if doc.FallbackReason != "" {
		c.Header("X-Fallback-Reason", string(doc.FallbackReason))
	}
	c.Data(http.StatusOK, doc.ContentType, doc.Bytes)
}

func requiredID(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, apperr.InvalidInput("missing query parameter %s", name)
	}
	return parseID(name, raw)
}

func optionalID(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(name, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// idList accepts "1,2,3" as well as repeated parameters
func idList(c *gin.Context, name string) ([]int64, error) {
	var ids []int64
	for _, value := range c.QueryArray(name) {
		for _, raw := range strings.Split(value, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			id, err := parseID(name, raw)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, apperr.InvalidInput("missing query parameter %s", name)
	}
	return ids, nil
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.InvalidInput("%s must be an integer, got %q", name, raw)
	}
	return id, nil
}
