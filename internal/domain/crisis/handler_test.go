package crisis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/harborview/clinic/internal/domain/risk"
	"github.com/harborview/clinic/internal/platform/auth"
)

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID, role string) echo.Context {
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.UserRoleKey, role)
	return e.NewContext(req.WithContext(ctx), rec)
}

func TestHandlerReport(t *testing.T) {
	e := echo.New()
	p := testPatient("prov-1")
	svc, _ := newTestService(newMemPatients(p))
	h := NewHandler(svc, zerolog.Nop())

	body := `{"patient_id":"` + p.ID.String() + `","event_type":"self_harm",` +
		`"severity":"high","description":"superficial lacerations reported by family"}`
	req := httptest.NewRequest(http.MethodPost, "/crisis-events", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "prov-1", auth.RoleProvider)

	if err := h.Report(c); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var got Event
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Severity != risk.High || got.Status != StatusActive {
		t.Errorf("got severity=%q status=%q, want high/active", got.Severity, got.Status)
	}
	if p.RiskLevel != risk.High {
		t.Errorf("patient risk = %q, want high", p.RiskLevel)
	}
}

func TestHandlerReport_InvalidSeverityTo400(t *testing.T) {
	e := echo.New()
	p := testPatient("prov-1")
	svc, _ := newTestService(newMemPatients(p))
	h := NewHandler(svc, zerolog.Nop())

	body := `{"patient_id":"` + p.ID.String() + `","event_type":"self_harm",` +
		`"severity":"urgent","description":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/crisis-events", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "prov-1", auth.RoleProvider)

	err := h.Report(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}

func TestHandlerResolve_NotFound(t *testing.T) {
	e := echo.New()
	svc, _ := newTestService(newMemPatients())
	h := NewHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/crisis-events/x/resolve", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "admin-1", auth.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("2c8f0f2e-5a3d-4e7a-9a61-000000000000")

	err := h.Resolve(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want 404", err)
	}
}
