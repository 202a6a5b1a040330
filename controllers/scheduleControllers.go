package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"clinic-connect/models"
	"clinic-connect/schedule"
)

// CheckAvailability returns the free slots for a patient on a date. An empty
// day is a normal answer, not an error: the response keeps a 200 and tells
// the user to pick another date.
func CheckAvailability(c *gin.Context) {
	patientID, ok := decodeParamID(c, "token")
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	registered := c.Query("is_already_registered") == "true"

	slots, err := Resolver.Resolve(c.Request.Context(), patientID, dateStr, registered)
	if errors.Is(err, schedule.ErrNoSlots) {
		c.JSON(http.StatusOK, gin.H{
			"Status":          "Success",
			"Message":         "Doctor is unavailable on this date, please pick another date",
			"date":            dateStr,
			"available_slots": []models.AvailableSlot{},
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":          "Success",
		"Message":         "Time slots fetched successfully",
		"date":            dateStr,
		"available_slots": slots,
	})
}

// ToggleScheduleStatus flips one recurring schedule on or off upstream.
func ToggleScheduleStatus(c *gin.Context) {
	id, ok := decodeParamID(c, "token")
	if !ok {
		return
	}

	var out map[string]any
	if err := API.Put(c.Request.Context(), "admin/schedules/"+strconv.Itoa(id)+"/toggle_status", nil, &out); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": out})
}

// UpdateScheduleByDay forwards a weekly-recurring schedule change.
func UpdateScheduleByDay(c *gin.Context) {
	forwardScheduleUpdate(c, "admin/schedules/update_by_day")
}

// UpdateScheduleByDate forwards a single-date schedule override.
func UpdateScheduleByDate(c *gin.Context) {
	forwardScheduleUpdate(c, "admin/schedules/update_by_date")
}

func forwardScheduleUpdate(c *gin.Context, path string) {
	var body map[string]any
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var out map[string]any
	if err := API.Put(c.Request.Context(), path, body, &out); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "Message": "Schedule updated successfully", "data": out})
}
