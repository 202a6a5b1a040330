package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic-connect/booking"
	"clinic-connect/gateway"
	"clinic-connect/models"
	"clinic-connect/schedule"
)

// StartBooking opens a fresh four-stage booking form.
func StartBooking(c *gin.Context) {
	b, err := Booking.Start()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "booking_id": b.ID, "stage": b.Stage})
}

// SubmitPersonalStage validates the personal stage and registers the patient.
// Validation failures and registration failures both keep the form on this
// stage.
func SubmitPersonalStage(c *gin.Context) {
	var info booking.PersonalInfo
	if err := c.BindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := Booking.SubmitPersonal(c.Request.Context(), c.Param("id"), info)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"Status":             "Success",
		"stage":              b.Stage,
		"consultation_price": b.ConsultationPrice,
		"currency":           b.Currency,
	})
}

// SubmitMedicalStage stores the medical history stage.
func SubmitMedicalStage(c *gin.Context) {
	var info booking.MedicalInfo
	if err := c.BindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := Booking.SubmitMedical(c.Param("id"), info)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "stage": b.Stage})
}

// SubmitDetailsStage stores the free-text details stage.
func SubmitDetailsStage(c *gin.Context) {
	var info booking.DetailsInfo
	if err := c.BindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := Booking.SubmitDetails(c.Param("id"), info)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "stage": b.Stage})
}

// BookingAvailability fetches slots for the chosen date on the appointment
// stage.
func BookingAvailability(c *gin.Context) {
	slots, err := Booking.SelectDate(c.Request.Context(), c.Param("id"), c.Query("date"))
	if errors.Is(err, booking.ErrStale) {
		c.JSON(http.StatusConflict, gin.H{"error": "Superseded by a newer date selection"})
		return
	}
	if errors.Is(err, schedule.ErrNoSlots) {
		c.JSON(http.StatusOK, gin.H{
			"Status":          "Success",
			"Message":         "Doctor is unavailable on this date, please pick another date",
			"available_slots": []models.AvailableSlot{},
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "available_slots": slots})
}

// SelectBookingSlot records the picked slot. Payment only starts on the
// explicit confirm call, never here.
func SelectBookingSlot(c *gin.Context) {
	var slot models.AvailableSlot
	if err := c.BindJSON(&slot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := Booking.SelectSlot(c.Param("id"), slot)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "selected_slot": b.SelectedSlot})
}

// ConfirmBooking creates the payment order and returns what the checkout
// widget needs to open.
func ConfirmBooking(c *gin.Context) {
	intent, err := Booking.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "payment": intent})
}

// PaymentSuccess is the checkout widget's success callback. It finishes the
// booking: idempotent re-registration, then the multipart appointment
// creation with any uploaded documents. When the booking fails after the
// charge went through, the response is the distinct contact-support shape so
// it is never mistaken for a plain network error.
func PaymentSuccess(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart payload"})
		return
	}

	orderID := c.Request.FormValue("order_id")
	paymentID := c.Request.FormValue("payment_id")

	var files []gateway.FileUpload
	for _, field := range []string{"pathology_reports[]", "imaging_reports[]", "additional_documents[]"} {
		for _, fh := range c.Request.MultipartForm.File[field] {
			f, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
				return
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
				return
			}
			files = append(files, gateway.FileUpload{Field: field, Name: fh.Filename, Content: content})
		}
	}

	appointmentID, err := Booking.PaymentSucceeded(c.Request.Context(), c.Param("id"), orderID, paymentID, files)
	if errors.Is(err, booking.ErrPaymentSucceededBookingFailed) {
		c.JSON(http.StatusBadGateway, gin.H{
			"Status":  "Failed",
			"code":    "payment_succeeded_booking_failed",
			"Message": err.Error(),
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":         "Success",
		"Message":        "Appointment booked successfully",
		"appointment_id": appointmentID,
		"token":          Codec.Encode(appointmentID),
	})
}

// ResetBooking abandons the form, clearing all fields, uploads, slot state
// and errors.
func ResetBooking(c *gin.Context) {
	if err := Booking.Reset(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "Message": "Booking reset"})
}
