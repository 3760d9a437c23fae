package appointment

import (
	"net/http"
	"time"

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
	g.POST("/appointments", h.Create, auth.RequireRole(auth.RoleAdmin, auth.RoleProvider))
	g.GET("/appointments", h.ListByDay)
	g.PATCH("/appointments/:id/status", h.SetStatus, auth.RequireRole(auth.RoleAdmin, auth.RoleProvider))
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	appt, err := h.svc.Create(ctx, auth.ScopeFromContext(ctx), in)
	if err != nil {
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusCreated, appt)
}

// ListByDay returns appointments for the day given by the date query param,
// defaulting to today (UTC).
func (h *Handler) ListByDay(c echo.Context) error {
	day := time.Now().UTC()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be in YYYY-MM-DD form")
		}
		day = parsed
	}
	params := pagination.FromContext(c)

	ctx := c.Request().Context()
	appts, total, err := h.svc.ListByDay(ctx, auth.ScopeFromContext(ctx), day, params.Limit, params.Offset)
	if err != nil {
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(appts, total, params.Limit, params.Offset))
}

func (h *Handler) SetStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	appt, err := h.svc.SetStatus(ctx, auth.ScopeFromContext(ctx), id, in.Status)
	if err != nil {
		if apperr.IsStorage(err) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusOK, appt)
}
