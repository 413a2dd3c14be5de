package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"mydiary/internal/abuse"
	"mydiary/internal/common"
)

// httpError maps service sentinels onto HTTP responses. Rate-limit
// rejections carry a Retry-After header.
func httpError(c echo.Context, err error) error {
	var rle *abuse.RateLimitError
	if errors.As(err, &rle) {
		seconds := int(rle.RetryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
		return echo.NewHTTPError(http.StatusTooManyRequests, rle.Error())
	}

	switch {
	case errors.Is(err, common.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	case errors.Is(err, common.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, "unauthorized")
	case errors.Is(err, common.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	case errors.Is(err, common.ErrHandleTaken),
		errors.Is(err, common.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, common.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, common.ErrEmptyContent),
		errors.Is(err, common.ErrTooShort),
		errors.Is(err, common.ErrTooLong),
		errors.Is(err, common.ErrProfane),
		errors.Is(err, common.ErrInvalidHandle),
		errors.Is(err, common.ErrInvalidStatus),
		errors.Is(err, common.ErrInvalidReactionType):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
