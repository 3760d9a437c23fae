package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/harborview/clinic/internal/platform/auth"
)

func newTestHandler(repo Repository) *Handler {
	return NewHandler(NewService(repo, zerolog.Nop()), zerolog.Nop())
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID, role string) echo.Context {
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.UserRoleKey, role)
	return e.NewContext(req.WithContext(ctx), rec)
}

func TestHandlerCreate(t *testing.T) {
	e := echo.New()
	repo := newMemRepo()
	h := newTestHandler(repo)

	body := `{"mrn":"MRN-2001","first_name":"Dana","last_name":"Reyes","date_of_birth":"1990-06-01"}`
	req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "prov-1", auth.RoleProvider)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var got Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.MRN != "MRN-2001" {
		t.Errorf("mrn = %q, want MRN-2001", got.MRN)
	}
	if got.AssignedProviderID != "prov-1" {
		t.Errorf("assigned provider = %q, want prov-1", got.AssignedProviderID)
	}
}

func TestHandlerCreate_ValidationTo400(t *testing.T) {
	e := echo.New()
	h := newTestHandler(newMemRepo())

	body := `{"first_name":"Dana","last_name":"Reyes","date_of_birth":"1990-06-01"}`
	req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "prov-1", auth.RoleProvider)

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}

func TestHandlerGet_NotFound(t *testing.T) {
	e := echo.New()
	h := newTestHandler(newMemRepo())

	req := httptest.NewRequest(http.MethodGet, "/patients/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "admin-1", auth.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
}

func TestHandlerGet_BadID(t *testing.T) {
	e := echo.New()
	h := newTestHandler(newMemRepo())

	req := httptest.NewRequest(http.MethodGet, "/patients/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "admin-1", auth.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}

func TestHandlerList(t *testing.T) {
	e := echo.New()
	repo := newMemRepo()
	svc := NewService(repo, zerolog.Nop())
	h := NewHandler(svc, zerolog.Nop())

	if _, err := svc.Create(context.Background(), auth.Scope{UserID: "prov-1", Role: auth.RoleProvider}, validCreateInput()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/patients?limit=10", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "prov-1", auth.RoleProvider)

	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Data  []Patient `json:"data"`
		Total int       `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("total = %d, len = %d, want 1 each", resp.Total, len(resp.Data))
	}
}
