package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic-connect/models"
)

// Login proxies credentials to the backend and keeps the resulting auth
// slice in the session store so it survives restarts.
func Login(c *gin.Context) {
	var loginReq models.LoginRequest
	if err := c.BindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var auth models.AuthState
	if err := API.Post(c.Request.Context(), "auth/login", loginReq, &auth); err != nil {
		respondError(c, err)
		return
	}

	Store.SetCredentials(auth)
	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Login successful",
		"token":   auth.Token,
		"user":    auth.User,
	})
}

// Logout clears the persisted auth slice.
func Logout(c *gin.Context) {
	Store.ClearCredentials()
	c.JSON(http.StatusOK, gin.H{"message": "You are successfully logged out"})
}

// OpenMeeting marks a consultation as in progress. This slice is never
// persisted; a restart always comes back with the meeting closed.
func OpenMeeting(c *gin.Context) {
	var req struct {
		AppointmentID int    `json:"appointment_id" binding:"required"`
		MeetingLink   string `json:"meeting_link"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	Store.OpenMeeting(req.AppointmentID, req.MeetingLink)
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "meeting": Store.Meeting()})
}

// CloseMeeting resets the meeting slice.
func CloseMeeting(c *gin.Context) {
	Store.CloseMeeting()
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "meeting": Store.Meeting()})
}

// MeetingStatus returns the current meeting slice snapshot.
func MeetingStatus(c *gin.Context) {
	c.JSON(http.StatusOK, Store.Meeting())
}
