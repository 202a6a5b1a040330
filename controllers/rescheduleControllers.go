package controllers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"clinic-connect/models"
	"clinic-connect/reschedule"
	"clinic-connect/schedule"
)

// Active reschedule interactions, one per appointment. The workflow holds the
// modal's state machine; it is dropped once the replace lands.
var (
	rescheduleMu     sync.Mutex
	activeReschedule = make(map[int]*reschedule.Workflow)
)

func rescheduleFor(appointmentID, patientID int, registered bool) *reschedule.Workflow {
	rescheduleMu.Lock()
	defer rescheduleMu.Unlock()

	if wf, ok := activeReschedule[appointmentID]; ok && wf.State() != reschedule.Done {
		return wf
	}
	wf := reschedule.New(API, Resolver, appointmentID, patientID, registered)
	activeReschedule[appointmentID] = wf
	return wf
}

func dropReschedule(appointmentID int) {
	rescheduleMu.Lock()
	delete(activeReschedule, appointmentID)
	rescheduleMu.Unlock()
}

// RescheduleSelectDate opens (or reuses) the reschedule interaction for an
// appointment and fetches slots for the new date. Any previously picked slot
// is discarded.
func RescheduleSelectDate(c *gin.Context) {
	appointmentID, ok := decodeParamID(c, "token")
	if !ok {
		return
	}

	var req struct {
		Date              string `json:"date" binding:"required"`
		PatientID         int    `json:"patient_id" binding:"required"`
		AlreadyRegistered bool   `json:"is_already_registered"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wf := rescheduleFor(appointmentID, req.PatientID, req.AlreadyRegistered)
	slots, err := wf.SelectDate(c.Request.Context(), req.Date)
	switch {
	case errors.Is(err, schedule.ErrNoSlots):
		c.JSON(http.StatusOK, gin.H{
			"Status":          "Success",
			"Message":         "Doctor is unavailable on this date, please pick another date",
			"available_slots": []models.AvailableSlot{},
		})
	case errors.Is(err, reschedule.ErrStale):
		// a newer date selection already owns the modal; nothing to show
		c.JSON(http.StatusConflict, gin.H{"error": "Superseded by a newer date selection"})
	case err != nil:
		respondError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"Status": "Success", "available_slots": slots})
	}
}

// RescheduleSelectSlot records the replacement slot.
func RescheduleSelectSlot(c *gin.Context) {
	appointmentID, ok := decodeParamID(c, "token")
	if !ok {
		return
	}

	var slot models.AvailableSlot
	if err := c.BindJSON(&slot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rescheduleMu.Lock()
	wf := activeReschedule[appointmentID]
	rescheduleMu.Unlock()
	if wf == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Select a date first"})
		return
	}

	if err := wf.SelectSlot(slot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"Status": "Success"})
}

// RescheduleSubmit issues the atomic date+time replace. On failure the modal
// state stays on the picked slot so the user can retry; on success the
// caller is told to refresh its own appointment list.
func RescheduleSubmit(c *gin.Context) {
	appointmentID, ok := decodeParamID(c, "token")
	if !ok {
		return
	}

	rescheduleMu.Lock()
	wf := activeReschedule[appointmentID]
	rescheduleMu.Unlock()
	if wf == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Select a date first"})
		return
	}

	var newDate, newTime string
	if err := wf.Submit(c.Request.Context(), func(date, timeSlot string) { newDate, newTime = date, timeSlot }); err != nil {
		respondError(c, err)
		return
	}

	dropReschedule(appointmentID)
	c.JSON(http.StatusOK, gin.H{
		"Status":    "Success",
		"Message":   "Appointment rescheduled successfully",
		"slot_date": newDate,
		"slot_time": newTime,
		"refresh":   true,
	})
}
