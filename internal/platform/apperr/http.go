package apperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HTTP maps a service error to the echo HTTP error the handler should
// return. Storage causes are logged here and replaced with a generic message.
func HTTP(logger zerolog.Logger, err error) error {
	if err == nil {
		return nil
	}

	if IsValidation(err) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if denied, ok := IsAuthorization(err); ok {
		if denied {
			return echo.NewHTTPError(http.StatusForbidden, "access denied")
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if IsStorage(err) {
		logger.Error().Err(err).Msg("storage failure")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	logger.Error().Err(err).Msg("unclassified error")
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
