package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Junction-25/pdf-service/internal/apperr"
	"github.com/Junction-25/pdf-service/internal/model"
	"github.com/Junction-25/pdf-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	got  service.Request
	doc  *model.Document
	err  error
	seen bool
}

func (f *fakeGenerator) Generate(ctx context.Context, req service.Request) (*model.Document, error) {
	f.seen = true
	f.got = req
	return f.doc, f.err
}

type fakeRecords struct{}

func (fakeRecords) Property(id int64) (model.Property, bool) {
	if id == 1 {
		return model.Property{ID: 1, Address: "12 Rue Didouche Mourad, Hydra", Price: 100000, AreaSqm: 90}, true
	}
	return model.Property{}, false
}

func (fakeRecords) Contact(id int64) (model.Contact, bool) {
	if id == 7 {
		return model.Contact{ID: 7, Name: "Amina Benali"}, true
	}
	return model.Contact{}, false
}

func (fakeRecords) ListProperties(limit int) []model.Property {
	out := make([]model.Property, 0, limit)
	for i := 1; i <= limit && i <= 3; i++ {
		out = append(out, model.Property{ID: int64(i)})
	}
	return out
}

func (fakeRecords) ListContacts(limit int) []model.Contact {
	return []model.Contact{{ID: 7, Name: "Amina Benali"}}
}

func (fakeRecords) Counts() (int, int) { return 3, 1 }

type fakePinger struct {
	enabled bool
	err     error
}

func (f fakePinger) Ping(ctx context.Context) error { return f.err }
func (f fakePinger) IsEnabled() bool                { return f.enabled }

func newTestRouter(gen DocumentGenerator, pinger Pinger) *gin.Engine {
	return newTestRouterWithSource(gen, pinger, RecordSource{Name: "json"})
}

func newTestRouterWithSource(gen DocumentGenerator, pinger Pinger, source RecordSource) *gin.Engine {
	return NewRouter(Handlers{
		Documents: NewDocumentHandler(gen, 0),
		Records:   NewRecordsHandler(fakeRecords{}, 10, 100),
		Health:    NewHealthHandler(BuildInfo{Version: "test"}, pinger, fakeRecords{}, source),
	}, zap.NewNop(), "*")
}

func serve(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestCompare_ReturnsPDF(t *testing.T) {
	gen := &fakeGenerator{doc: &model.Document{
		Filename:       "comparison_1_vs_2.pdf",
		ContentType:    "application/pdf",
		Bytes:          []byte("%PDF-1.3"),
		AnalysisSource: model.SourceFallback,
		FallbackReason: model.ReasonTimeout,
	}}
	router := newTestRouter(gen, fakePinger{})

	w := serve(router, "/api/v1/compare?property_id_1=1&property_id_2=2")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="comparison_1_vs_2.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "fallback", w.Header().Get("X-Analysis-Source"))
	assert.Equal(t, "timeout", w.Header().Get("X-Fallback-Reason"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "%PDF-1.3", w.Body.String())

	assert.Equal(t, model.DocumentComparison, gen.got.Type)
	assert.Equal(t, []int64{1, 2}, gen.got.PropertyIDs)
	assert.Nil(t, gen.got.ContactID)
	assert.Equal(t, w.Header().Get("X-Request-ID"), gen.got.RequestID)
}

func TestRecommend_ParsesIDList(t *testing.T) {
	gen := &fakeGenerator{doc: &model.Document{ContentType: "application/pdf", Filename: "r.pdf"}}
	router := newTestRouter(gen, fakePinger{})

	w := serve(router, "/api/v1/recommend?property_ids=3,%201,2&contact_id=7")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{3, 1, 2}, gen.got.PropertyIDs)
	require.NotNil(t, gen.got.ContactID)
	assert.Equal(t, int64(7), *gen.got.ContactID)
}

func TestQuote_ContactOptional(t *testing.T) {
	gen := &fakeGenerator{doc: &model.Document{ContentType: "application/pdf", Filename: "quote_1.pdf"}}
	router := newTestRouter(gen, fakePinger{})

	w := serve(router, "/api/v1/quote?property_id=1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{1}, gen.got.PropertyIDs)
	assert.Nil(t, gen.got.ContactID)
}

func TestDocuments_BadParameters(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing second id", "/api/v1/compare?property_id_1=1"},
		{"non-numeric id", "/api/v1/compare?property_id_1=1&property_id_2=two"},
		{"empty id list", "/api/v1/recommend?property_ids=,&contact_id=7"},
		{"missing contact", "/api/v1/recommend?property_ids=1,2"},
		{"bad contact", "/api/v1/quote?property_id=1&contact_id=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			w := serve(newTestRouter(gen, fakePinger{}), tt.target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, gen.seen, "generator must not run on bad parameters")

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, string(apperr.KindInvalidInput), resp.Kind)
		})
	}
}

func TestDocuments_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", apperr.AtStage(apperr.StageResolvingRecords, apperr.InvalidInput("at most 3 property ids allowed, got 4")), http.StatusBadRequest},
		{"not found", apperr.AtStage(apperr.StageResolvingRecords, apperr.NotFound("property", 99)), http.StatusNotFound},
		{"canceled", apperr.AtStage(apperr.StageGeneratingAnalysis, context.Canceled), StatusClientClosedRequest},
		{"deadline", apperr.AtStage(apperr.StageGeneratingAnalysis, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"render failure", apperr.AtStage(apperr.StageAssembling, apperr.RenderFailure(errors.New("font missing"))), http.StatusInternalServerError},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newTestRouter(&fakeGenerator{err: tt.err}, fakePinger{}), "/api/v1/compare?property_id_1=1&property_id_2=99")

			assert.Equal(t, tt.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestDocuments_NotFoundCarriesID(t *testing.T) {
	err := apperr.AtStage(apperr.StageResolvingRecords, apperr.NotFound("property", 99))
	w := serve(newTestRouter(&fakeGenerator{err: err}, fakePinger{}), "/api/v1/compare?property_id_1=1&property_id_2=99")

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(99), resp.ID)
	assert.Equal(t, string(apperr.StageResolvingRecords), resp.Stage)
}

func TestRecords(t *testing.T) {
	router := newTestRouter(&fakeGenerator{}, fakePinger{})

	w := serve(router, "/api/v1/properties/1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Didouche Mourad")

	w = serve(router, "/api/v1/properties/42")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, "/api/v1/contacts/7")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, "/api/v1/properties?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)

	w = serve(router, "/api/v1/contacts?limit=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&fakeGenerator{}, fakePinger{enabled: true, err: errors.New("connection refused")})

	w := serve(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, "/health/detailed")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Status    string `json:"status"`
		Reasoning struct {
			Status string `json:"status"`
		} `json:"reasoning"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unreachable", resp.Reasoning.Status)

	w = serve(router, "/version")
	assert.Contains(t, w.Body.String(), `"version":"test"`)
}

func TestHealthDetailed_RecordSource(t *testing.T) {
	type records struct {
		Source     string `json:"source"`
		Database   string `json:"database"`
		Properties int    `json:"properties"`
	}
	tests := []struct {
		name       string
		source     RecordSource
		wantStatus string
		want       records
	}{
		{"json file", RecordSource{Name: "json"}, "healthy", records{Source: "json", Properties: 3}},
		{"database up", RecordSource{Name: "postgres", DB: fakePinger{}}, "healthy",
			records{Source: "postgres", Database: "ok", Properties: 3}},
		{"database down", RecordSource{Name: "postgres", DB: fakePinger{err: errors.New("connection refused")}}, "degraded",
			records{Source: "postgres", Database: "unreachable", Properties: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newTestRouterWithSource(&fakeGenerator{}, fakePinger{}, tt.source), "/health/detailed")
			require.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Status  string  `json:"status"`
				Records records `json:"records"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.want, resp.Records)
		})
	}
}

func TestRequestID_ReusesIncomingHeader(t *testing.T) {
	router := newTestRouter(&fakeGenerator{}, fakePinger{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")

	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
