package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/yungbote/skillmatch-backend/internal/pkg/errors"
	"github.com/yungbote/skillmatch-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func Created(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func Error(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{Message: msg, Code: code},
	})
}

// FromError maps service errors onto HTTP statuses. Anything unrecognized is
// a 500 with a generic body so internals never leak to clients.
func FromError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status != 0 {
		Error(c, ae.Status, ae.Code, err)
		return
	}
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidInput):
		Error(c, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, pkgerrors.ErrForbidden):
		Error(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		Error(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrUpstreamUnavailable):
		Error(c, http.StatusBadGateway, "upstream_unavailable", err)
	default:
		Error(c, http.StatusInternalServerError, "internal", errors.New("internal server error"))
	}
}
