package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clinic-connect/booking"
	"clinic-connect/gateway"
	"clinic-connect/obfuscate"
	"clinic-connect/schedule"
	"clinic-connect/session"
)

// Shared collaborators, wired once at startup.
var (
	API      *gateway.Client
	Store    *session.Store
	Resolver *schedule.Resolver
	Booking  *booking.Workflow
	Codec    *obfuscate.Codec
)

// Setup injects the collaborators the handlers use.
func Setup(api *gateway.Client, store *session.Store, resolver *schedule.Resolver, bookingWF *booking.Workflow, codec *obfuscate.Codec) {
	API = api
	Store = store
	Resolver = resolver
	Booking = bookingWF
	Codec = codec
}

// decodeParamID resolves an obfuscated URL token back to a numeric id. Decode
// never fails; a token that yields no number falls out at the Atoi step.
func decodeParamID(c *gin.Context, param string) (int, bool) {
	raw := Codec.Decode(c.Param(param))
	id, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid identifier"})
		return 0, false
	}
	return id, true
}

// respondError converts workflow errors to the response shapes the frontend
// shows.
func respondError(c *gin.Context, err error) {
	var verrs booking.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"Status":  "Failed",
			"Message": "Please fix the highlighted fields",
			"errors":  verrs,
		})
		return
	}

	if errors.Is(err, booking.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if apiErr.Transport() {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": apiErr.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
