package handler

import (
	"net/http"
	"strconv"

	"github.com/Junction-25/pdf-service/internal/apperr"
	"github.com/Junction-25/pdf-service/internal/model"

	"github.com/gin-gonic/gin"
)

// RecordLister is the read side of the record snapshot
type RecordLister interface {
	Property(id int64) (model.Property, bool)
	Contact(id int64) (model.Contact, bool)
	ListProperties(limit int) []model.Property
	ListContacts(limit int) []model.Contact
}

// RecordsHandler exposes the records documents can be built from
type RecordsHandler struct {
	records      RecordLister
	defaultLimit int
	maxLimit     int
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(records RecordLister, defaultLimit, maxLimit int) *RecordsHandler {
	return &RecordsHandler{
		records:      records,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// ListProperties handles GET /api/v1/properties
func (h *RecordsHandler) ListProperties(c *gin.Context) {
	limit, err := h.limit(c)
	if err != nil {
		writeError(c, err)
		return
	}
	properties := h.records.ListProperties(limit)
	c.JSON(http.StatusOK, gin.H{"properties": properties, "count": len(properties)})
}

// GetProperty handles GET /api/v1/properties/:id
func (h *RecordsHandler) GetProperty(c *gin.Context) {
	id, err := parseID("id", c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	p, ok := h.records.Property(id)
	if !ok {
		writeError(c, apperr.NotFound("property", id))
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListContacts handles GET /api/v1/contacts
func (h *RecordsHandler) ListContacts(c *gin.Context) {
	limit, err := h.limit(c)
	if err != nil {
		writeError(c, err)
		return
	}
	contacts := h.records.ListContacts(limit)
	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "count": len(contacts)})
}

// GetContact handles GET /api/v1/contacts/:id
func (h *RecordsHandler) GetContact(c *gin.Context) {
	id, err := parseID("id", c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	contact, ok := h.records.Contact(id)
	if !ok {
		writeError(c, apperr.NotFound("contact", id))
		return
	}
	c.JSON(http.StatusOK, contact)
}

// limit reads ?limit=, capped at maxLimit
func (h *RecordsHandler) limit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return h.defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, apperr.InvalidInput("limit must be a positive integer, got %q", raw)
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}
	return limit, nil
}
