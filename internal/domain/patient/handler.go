package patient

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
	g.POST("/patients", h.Create, auth.RequireRole(auth.RoleAdmin, auth.RoleProvider))
	g.GET("/patients", h.List)
	g.GET("/patients/:id", h.Get)
	g.DELETE("/patients/:id", h.Deactivate, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	p, err := h.svc.Create(ctx, auth.ScopeFromContext(ctx), in)
	if err != nil {
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	ctx := c.Request().Context()
	p, err := h.svc.Get(ctx, auth.ScopeFromContext(ctx), id)
	if err != nil {
		if _, isAuth := apperr.IsAuthorization(err); isAuth {
			return apperr.HTTP(h.logger, err)
		}
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)
	filter := ListFilter{
		Search:    c.QueryParam("search"),
		RiskLevel: c.QueryParam("risk_level"),
	}

	ctx := c.Request().Context()
	patients, total, err := h.svc.List(ctx, auth.ScopeFromContext(ctx), filter, params.Limit, params.Offset)
	if err != nil {
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, params.Limit, params.Offset))
}

func (h *Handler) Deactivate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	ctx := c.Request().Context()
	if err := h.svc.Deactivate(ctx, auth.ScopeFromContext(ctx), id); err != nil {
		if _, isAuth := apperr.IsAuthorization(err); isAuth {
			return apperr.HTTP(h.logger, err)
		}
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.NoContent(http.StatusNoContent)
}
