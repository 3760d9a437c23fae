package crisis

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

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
	g.POST("/crisis-events", h.Report, auth.RequireRole(auth.RoleAdmin, auth.RoleProvider))
	g.GET("/crisis-events", h.ListActive)
	g.POST("/crisis-events/:id/resolve", h.Resolve, auth.RequireRole(auth.RoleAdmin, auth.RoleProvider))
	g.GET("/patients/:patient_id/crisis-events", h.ListByPatient)
}

func (h *Handler) Report(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	ev, err := h.svc.Report(ctx, auth.ScopeFromContext(ctx), in)
	if err != nil {
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusCreated, ev)
}

func (h *Handler) Resolve(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}
	var in ResolveInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	ev, err := h.svc.Resolve(ctx, auth.ScopeFromContext(ctx), id, in)
	if err != nil {
		if apperr.IsStorage(err) {
			return echo.NewHTTPError(http.StatusNotFound, "crisis event not found")
		}
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusOK, ev)
}

func (h *Handler) ListActive(c echo.Context) error {
	params := pagination.FromContext(c)

	ctx := c.Request().Context()
	events, total, err := h.svc.ListActive(ctx, auth.ScopeFromContext(ctx), params.Limit, params.Offset)
	if err != nil {
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(events, total, params.Limit, params.Offset))
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	params := pagination.FromContext(c)

	ctx := c.Request().Context()
	events, total, err := h.svc.ListByPatient(ctx, auth.ScopeFromContext(ctx), patientID, params.Limit, params.Offset)
	if err != nil {
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(events, total, params.Limit, params.Offset))
}
