package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"clinic-connect/models"
	"clinic-connect/search"
)

// ListConsultations proxies the paginated consultation listing. Search terms
// below the minimum length are not worth a backend round trip and come back
// empty, mirroring how the search box gates queries; full date literals are
// always queried.
func ListConsultations(c *gin.Context) {
	term := c.Query("search")
	if !search.Eligible(term) {
		c.JSON(http.StatusOK, models.ConsultationPage{Appointments: []models.Appointment{}})
		return
	}

	q := url.Values{}
	for _, key := range []string{"page", "per_page", "sort_by", "sort_dir", "search"} {
		if v := c.Query(key); v != "" {
			q.Set(key, v)
		}
	}

	if status := c.Query("status"); status != "" {
		switch status {
		case models.StatusScheduled, models.StatusCompleted, models.StatusCancelled:
			q.Set("status", status)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status filter"})
			return
		}
	}

	var page models.ConsultationPage
	if err := API.Get(c.Request.Context(), "admin/consultations", q, &page); err != nil {
		respondError(c, err)
		return
	}

	// navigable links carry obfuscated tokens, never raw ids
	tokens := make(map[int]string, len(page.Appointments))
	for _, a := range page.Appointments {
		tokens[a.AppointmentID] = Codec.Encode(a.AppointmentID)
	}

	c.JSON(http.StatusOK, gin.H{
		"Status":  "Success",
		"Message": "Consultations fetched successfully",
		"data":    page,
		"tokens":  tokens,
	})
}

// GetConsultation fetches one appointment by its obfuscated token.
func GetConsultation(c *gin.Context) {
	id, ok := decodeParamID(c, "token")
	if !ok {
		return
	}

	var appointment models.Appointment
	if err := API.Get(c.Request.Context(), "admin/consultations/"+strconv.Itoa(id), nil, &appointment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"Status": "Success",
		"data":   appointment,
	})
}
