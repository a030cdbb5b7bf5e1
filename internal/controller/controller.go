// Package controller holds helpers shared by the user and admin handlers.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Kindred/internal/dto"
	"github.com/lshigami/Kindred/internal/middleware"
	"github.com/lshigami/Kindred/internal/service"
	"github.com/rs/zerolog/log"
)

var statusByKind = []struct {
	kind   error
	status int
}{
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrExpired, http.StatusGone},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrInvalid, http.StatusBadRequest},
	{service.ErrPaymentRequired, http.StatusPaymentRequired},
	{service.ErrUnavailable, http.StatusServiceUnavailable},
}

// StatusFor maps a service error to an HTTP status. Unknown errors are 500.
func StatusFor(err error) int {
	for _, s := range statusByKind {
		if errors.Is(err, s.kind) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

// RespondError writes err as an ErrorResponse. Internal failures are logged
// and their details kept out of the response.
func RespondError(c *gin.Context, err error, msg string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
		c.JSON(status, dto.ErrorResponse{Message: msg})
		return
	}
	log.Warn().Err(err).Str("path", c.FullPath()).Int("status", status).Msg(msg)
	c.JSON(status, dto.ErrorResponse{Message: msg, Details: []string{err.Error()}})
}

// BindError reports a request body that failed gin binding.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
}

// ParseIDParam reads a numeric path parameter, writing a 400 if it is malformed.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}

// Caller returns the authenticated identity, writing a 401 if there is none.
func Caller(c *gin.Context) (middleware.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
	}
	return id, ok
}
