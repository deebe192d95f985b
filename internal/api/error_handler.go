package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/MishraAmit1/freightsynq-sub002/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error       string `json:"error"`
	Code        string `json:"code"`
	WaitSeconds *int64 `json:"wait_seconds,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Sets Retry-After on cooldown denials so clients can count down.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if body.WaitSeconds != nil {
			c.Response().Header().Set("Retry-After", strconv.FormatInt(*body.WaitSeconds, 10))
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Code: httpCode(he.Code)}
	}

	var (
		rateLimited *domain.RateLimitedError
		quota       *domain.QuotaExceededError
		disabled    *domain.LifecycleDisabledError
	)
	switch {
	case errors.As(err, &rateLimited):
		wait := rateLimited.WaitSeconds
		return http.StatusTooManyRequests, errorResponse{Error: rateLimited.Error(), Code: "RATE_LIMITED", WaitSeconds: &wait}
	case errors.As(err, &quota):
		return http.StatusTooManyRequests, errorResponse{Error: quota.Error(), Code: "QUOTA_EXCEEDED"}
	case errors.As(err, &disabled):
		return http.StatusConflict, errorResponse{Error: disabled.Error(), Code: "TRACKING_DISABLED"}
	case errors.Is(err, domain.ErrCooldownUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg("cooldown store unavailable")
		return http.StatusServiceUnavailable, errorResponse{Error: "refresh temporarily unavailable", Code: "COOLDOWN_UNAVAILABLE"}
	case errors.Is(err, domain.ErrInvalidPhone), errors.Is(err, domain.ErrInvalidDays):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Code: "VALIDATION_FAILED"}
	case errors.Is(err, domain.ErrNotRegistered):
		return http.StatusConflict, errorResponse{Error: "cellular tracking is not enabled for this shipment", Code: "NOT_REGISTERED"}
	case errors.Is(err, domain.ErrShipmentNotFound):
		return http.StatusNotFound, errorResponse{Error: "shipment not found", Code: "SHIPMENT_NOT_FOUND"}
	case errors.Is(err, domain.ErrTransportFailure):
		log.Warn().Err(err).Str("path", c.Path()).Msg("provider unavailable")
		return http.StatusBadGateway, errorResponse{Error: "location provider unavailable", Code: "PROVIDER_UNAVAILABLE"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "INTERNAL"}
}

func httpCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusUnprocessableEntity:
		return "VALIDATION_FAILED"
	default:
		return "HTTP_ERROR"
	}
}
