// Package adapters holds pieces shared by the HTTP-facing bindings.
package adapters

import (
	"errors"
	"net/http"

	"github.com/dkeye/Deck/internal/domain"
	"github.com/gin-gonic/gin"
)

// StatusFor maps domain errors onto HTTP status codes. Unknown errors are
// treated as bad requests rather than server faults: everything the core
// returns is caused by client input.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrNotAMember):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrVotesRevealed):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

func AbortWithError(c *gin.Context, err error) {
	c.JSON(StatusFor(err), gin.H{"error": err.Error()})
}
