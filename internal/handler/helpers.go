package handler

import (
	"net/http"
	"strconv"

	"courier-chat/internal/repository"
	"courier-chat/internal/services"
	"courier-chat/internal/transport/httpdto"
	courier_errors "courier-chat/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Pagination holds the page size defaults applied to list endpoints.
type Pagination struct {
	DefaultSize int
	MaxSize     int
}

func (p Pagination) fromQuery(c *gin.Context) repository.Page {
	number, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	return repository.NewPage(number, size, p.DefaultSize, p.MaxSize)
}

func writeError(c *gin.Context, err error) {
	status := services.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, httpdto.NewErrorResponse("internal server error", errorCode(status)))
		return
	}
	c.JSON(status, httpdto.NewErrorResponse(err.Error(), errorCode(status)))
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusServiceUnavailable:
		return "UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses a uuid path parameter. Malformed ids cannot name an existing
// row, so they are reported as not found.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		writeError(c, courier_errors.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}
