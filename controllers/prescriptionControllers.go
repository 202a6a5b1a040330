package controllers

import (
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"clinic-connect/models"
)

// GetPrescriptionData fetches the treatment histories and prescription notes
// for one patient. The two reads are independent, so they run side by side
// and are jointly awaited before anything is returned: the only place two
// calls deliberately overlap.
func GetPrescriptionData(c *gin.Context) {
	patientID, ok := decodeParamID(c, "token")
	if !ok {
		return
	}

	q := url.Values{"patient_id": {strconv.Itoa(patientID)}}
	ctx := c.Request.Context()

	var (
		wg        sync.WaitGroup
		histories []models.TreatmentHistory
		notes     []models.PrescriptionNote
		histErr   error
		notesErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		histErr = API.Get(ctx, "admin/treatment_histories", q, &histories)
	}()
	go func() {
		defer wg.Done()
		notesErr = API.Get(ctx, "admin/prescription_notes", q, &notes)
	}()
	wg.Wait()

	if histErr != nil {
		respondError(c, histErr)
		return
	}
	if notesErr != nil {
		respondError(c, notesErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":              "Success",
		"Message":             "Prescription data fetched successfully",
		"treatment_histories": histories,
		"prescription_notes":  notes,
	})
}

// AddTreatmentHistory forwards a new treatment-history record.
func AddTreatmentHistory(c *gin.Context) {
	forwardCreate(c, "admin/treatment_histories")
}

// AddPrescriptionNote forwards a new prescription note.
func AddPrescriptionNote(c *gin.Context) {
	forwardCreate(c, "admin/prescription_notes")
}

func forwardCreate(c *gin.Context, path string) {
	var body map[string]any
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var out map[string]any
	if err := API.Post(c.Request.Context(), path, body, &out); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Status": "Success", "data": out})
}
