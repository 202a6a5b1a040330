package schedule

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"clinic-connect/gateway"
	"clinic-connect/models"
)

// ErrNoSlots marks a date with no bookable windows. The doctor being
// unavailable is a normal outcome, not a transport failure, and callers show
// it differently.
var ErrNoSlots = errors.New("no slots available for the selected date")

const unavailableMessage = "Doctor is unavailable on this date, please pick another date"

// Resolver fetches the free time windows for a date. The backend keys slot
// duration off whether the patient is already registered (20 minutes) or new
// (10 minutes), but the hint the UI supplies comes from an earlier screen and
// can be stale. The resolver reconciles by comparing the duration the backend
// actually returned against the hint it sent, and re-queries once with the
// corrected hint on a mismatch. Never more than two requests per date.
type Resolver struct {
	api *gateway.Client
}

func NewResolver(api *gateway.Client) *Resolver {
	return &Resolver{api: api}
}

// Resolve returns the bookable slots for the patient on dateISO (YYYY-MM-DD).
func (r *Resolver) Resolve(ctx context.Context, patientID int, dateISO string, alreadyRegistered bool) ([]models.AvailableSlot, error) {
	result, err := r.query(ctx, patientID, dateISO, alreadyRegistered)
	if err != nil {
		return nil, err
	}

	if implied, known := impliedHint(result.SlotDurationMinutes); known && implied != alreadyRegistered {
		// stale hint from the UI; the returned duration is authoritative
		result, err = r.query(ctx, patientID, dateISO, implied)
		if err != nil {
			return nil, err
		}
	}

	if len(result.AvailableSlots) == 0 {
		return nil, ErrNoSlots
	}
	return result.AvailableSlots, nil
}

func (r *Resolver) query(ctx context.Context, patientID int, dateISO string, alreadyRegistered bool) (*models.ScheduleQueryResult, error) {
	path := fmt.Sprintf("patients/patient_registrations/%d/check_available_schedule", patientID)
	q := url.Values{
		"date":                  {dateISO},
		"is_already_registered": {strconv.FormatBool(alreadyRegistered)},
	}

	var result models.ScheduleQueryResult
	if err := r.api.Get(ctx, path, q, &result); err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.Message == "" {
			apiErr.Message = unavailableMessage
		}
		return nil, err
	}
	return &result, nil
}

// impliedHint maps a returned slot duration back to the registration flag the
// backend must have applied. Unknown durations keep the first response.
func impliedHint(durationMinutes int) (hint, known bool) {
	switch durationMinutes {
	case models.RegisteredSlotMinutes:
		return true, true
	case models.NewPatientSlotMinutes:
		return false, true
	}
	return false, false
}
