package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/harborview/clinic/internal/platform/apperr"
	"github.com/harborview/clinic/internal/platform/auth"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard/stats", h.Stats)
}

func (h *Handler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	stats, err := h.svc.Stats(ctx, auth.ScopeFromContext(ctx))
	if err != nil {
		return apperr.HTTP(h.logger, err)
	}
	return c.JSON(http.StatusOK, stats)
}
