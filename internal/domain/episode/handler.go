package episode

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
	g.POST("/episodes", h.Create, auth.RequireRole(auth.RoleAdmin, auth.RoleProvider))
	g.GET("/episodes", h.List)
	g.GET("/episodes/:id", h.Get)
	g.POST("/episodes/:id/close", h.Close, auth.RequireRole(auth.RoleAdmin, auth.RoleProvider))
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	ep, err := h.svc.Create(ctx, auth.ScopeFromContext(ctx), in)
	if err != nil {
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusCreated, ep)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid episode id")
	}

	ctx := c.Request().Context()
	ep, err := h.svc.Get(ctx, auth.ScopeFromContext(ctx), id)
	if err != nil {
		if _, isAuth := apperr.IsAuthorization(err); isAuth {
			return apperr.HTTP(h.logger, err)
		}
		return echo.NewHTTPError(http.StatusNotFound, "episode not found")
	}
	return c.JSON(http.StatusOK, ep)
}

func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)
	filter := ListFilter{Status: c.QueryParam("status")}
	if raw := c.QueryParam("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
		}
		filter.PatientID = id
	}

	ctx := c.Request().Context()
	episodes, total, err := h.svc.List(ctx, auth.ScopeFromContext(ctx), filter, params.Limit, params.Offset)
	if err != nil {
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(episodes, total, params.Limit, params.Offset))
}

func (h *Handler) Close(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid episode id")
	}
	var in struct {
		EndDate string `json:"end_date"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	ep, err := h.svc.Close(ctx, auth.ScopeFromContext(ctx), id, in.EndDate)
	if err != nil {
		if apperr.IsStorage(err) {
			return echo.NewHTTPError(http.StatusNotFound, "episode not found")
		}
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusOK, ep)
}
