package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/contratos/contracts-service/internal/auth"
	"github.com/contratos/contracts-service/internal/catalog"
	"github.com/contratos/contracts-service/internal/generate"
	"github.com/contratos/contracts-service/internal/http/middleware"
	"github.com/contratos/contracts-service/internal/model"
	"github.com/contratos/contracts-service/internal/service"
	"github.com/contratos/contracts-service/internal/session"
	"github.com/contratos/contracts-service/internal/templates"
)

const testSecret = "test-secret"

type stubParties struct {
	records map[uuid.UUID]model.PartyRecord
}

func (s *stubParties) GetParty(_ context.Context, id uuid.UUID) (model.PartyRecord, error) {
	record, ok := s.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (s *stubParties) ListCounterparties(context.Context, uuid.UUID) ([]model.PartySummary, error) {
	return nil, nil
}

type stubContracts struct {
	saved []model.GeneratedContract
}

func (s *stubContracts) SaveGenerated(_ context.Context, contract model.GeneratedContract) (uuid.UUID, error) {
	contract.ID = uuid.New()
	s.saved = append(s.saved, contract)
	return contract.ID, nil
}

func (s *stubContracts) GetByID(_ context.Context, id uuid.UUID) (*model.GeneratedContract, error) {
	for i := range s.saved {
		if s.saved[i].ID == id {
			return &s.saved[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubContracts) ListByScope(_ context.Context, scopeID uuid.UUID) ([]model.GeneratedContract, error) {
	var out []model.GeneratedContract
	for _, c := range s.saved {
		if c.OwnerOrgID == scopeID {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubPDF struct{}

func (stubPDF) Render(model.GeneratedContract) ([]byte, error) { return []byte("%PDF-stub"), nil }

type stubRegister struct{}

func (stubRegister) Export([]model.GeneratedContract) ([]byte, error) { return []byte("xlsx"), nil }

type testServer struct {
	router    http.Handler
	token     string
	principal model.Principal
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	principal := model.Principal{UserID: uuid.New(), OrgID: uuid.New(), Role: "ADMIN"}

	cat := catalog.New(templates.System(), nil, zerolog.Nop())
	gen := generate.New(language.MustParse("es-CL"), "Santiago")
	parties := &stubParties{records: map[uuid.UUID]model.PartyRecord{
		principal.OrgID: {"nombre": "Constructora Sur SpA", "rut": "76.123.456-7"},
	}}

	contractService := service.NewContractService(
		session.NewManager(time.Hour), cat, parties, &stubContracts{}, gen, stubPDF{}, stubRegister{}, zerolog.Nop(),
	)
	templateService := service.NewTemplateService(cat, nil)

	handler := NewHandler(templateService, contractService, zerolog.Nop())
	router := NewRouter(handler, middleware.Auth(auth.NewParser(testSecret)), "test")

	claims := jwt.MapClaims{
		"sub":    principal.UserID.String(),
		"org_id": principal.OrgID.String(),
		"role":   principal.Role,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return &testServer{router: router, token: token, principal: principal}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/templates", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListTemplates(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Templates []templateView `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Templates, 3)
	// Sorted by display name.
	assert.Equal(t, "Acuerdo de Confidencialidad", resp.Templates[0].Name)
}

func TestGenerationWorkflowOverHTTP(t *testing.T) {
	s := newTestServer(t)

	templateID := templates.System()[0].ID.String()
	rec := s.do(t, http.MethodPost, "/sessions", map[string]any{"template_id": templateID})
	require.Equal(t, http.StatusCreated, rec.Code)

	var sess sessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, session.StateFillingForm, sess.State)
	assert.Equal(t, "Constructora Sur SpA", sess.Form["contratante"])

	base := fmt.Sprintf("/sessions/%s", sess.ID)

	// Required fields missing: preview is blocked with structured errors.
	rec = s.do(t, http.MethodPost, base+"/preview", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var failed struct {
		Errors []model.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failed))
	assert.NotEmpty(t, failed.Errors)

	// Save before a successful preview is a state conflict.
	rec = s.do(t, http.MethodPost, base+"/save", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	for field, value := range map[string]any{
		"prestador":  "Acme",
		"servicios":  "Asesoría legal mensual",
		"monto":      1500000,
		"plazoMeses": 12,
		"formaPago":  "mensual",
	} {
		rec = s.do(t, http.MethodPut, fmt.Sprintf("%s/fields/%s", base, field), map[string]any{"value": value})
		require.Equal(t, http.StatusOK, rec.Code, "field %s", field)
	}

	rec = s.do(t, http.MethodPost, base+"/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var preview struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
	assert.Contains(t, preview.Content, "Constructora Sur SpA")
	assert.Contains(t, preview.Content, "Acme")
	assert.NotContains(t, preview.Content, "{{")

	rec = s.do(t, http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, base+"/download", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = s.do(t, http.MethodGet, "/contracts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var contracts struct {
		Contracts []contractView `json:"contracts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contracts))
	require.Len(t, contracts.Contracts, 1)
	assert.Equal(t, preview.Content, contracts.Contracts[0].Content)
}

func TestSetFieldValidationFeedback(t *testing.T) {
	s := newTestServer(t)

	templateID := templates.System()[0].ID.String()
	rec := s.do(t, http.MethodPost, "/sessions", map[string]any{"template_id": templateID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess sessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/sessions/%s/fields/monto", sess.ID), map[string]any{"value": -5})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Valid      bool              `json:"valid"`
		FieldError *model.FieldError `json:"field_error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	require.NotNil(t, resp.FieldError)
	assert.Equal(t, "monto", resp.FieldError.FieldID)
}

func TestUnknownTemplateIs404(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/sessions", map[string]any{"template_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
