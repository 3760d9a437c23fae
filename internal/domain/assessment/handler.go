package assessment

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/harborview/clinic/internal/domain/instrument"
	"github.com/harborview/clinic/internal/platform/apperr"
	"github.com/harborview/clinic/internal/platform/auth"
	"github.com/harborview/clinic/pkg/pagination"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/instruments", h.ListInstruments)
	g.POST("/assessments", h.Submit, auth.RequireRole(auth.RoleAdmin, auth.RoleProvider))
	g.GET("/assessments", h.ListByPatient)
	g.GET("/assessments/:id", h.Get)
}

// ListInstruments returns the scoring definitions clients render forms from.
func (h *Handler) ListInstruments(c echo.Context) error {
	var out []*instrument.Instrument
	for _, id := range instrument.IDs() {
		if ins, ok := instrument.Get(id); ok {
			out = append(out, ins)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) Submit(c echo.Context) error {
	var in SubmitInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	a, err := h.svc.Submit(ctx, auth.ScopeFromContext(ctx), in)
	if err != nil {
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid assessment id")
	}

	ctx := c.Request().Context()
	a, err := h.svc.Get(ctx, auth.ScopeFromContext(ctx), id)
	if err != nil {
		if _, isAuth := apperr.IsAuthorization(err); isAuth {
			return apperr.HTTP(h.logger, err)
		}
		return echo.NewHTTPError(http.StatusNotFound, "assessment not found")
	}
	return c.JSON(http.StatusOK, a)
}

// ListByPatient lists one patient's assessments, newest first. The
// patient_id query param is required; instrument_id optionally narrows to a
// single instrument.
func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.QueryParam("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	params := pagination.FromContext(c)

	ctx := c.Request().Context()
	assessments, total, err := h.svc.ListByPatient(ctx, auth.ScopeFromContext(ctx),
		patientID, c.QueryParam("instrument_id"), params.Limit, params.Offset)
	if err != nil {
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(assessments, total, params.Limit, params.Offset))
}
