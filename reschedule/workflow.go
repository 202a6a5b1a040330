package reschedule

import (
	"context"
	"errors"
	"sync"

	"clinic-connect/gateway"
	"clinic-connect/models"
	"clinic-connect/schedule"
)

// State of one modal interaction.
type State int

const (
	Idle State = iota
	DateSelected
	SlotsLoaded
	NoSlotsAvailable
	SlotSelected
	Submitting
	Done
)

// ErrStale is returned when a slot response arrives after the user has
// already moved on to another date. The response is discarded so it cannot
// overwrite the newer selection.
var ErrStale = errors.New("availability response superseded by a newer date selection")

var (
	errNotOpen       = errors.New("no date selected yet")
	errNoSlotPicked  = errors.New("pick a time slot first")
	errUnknownSlot   = errors.New("selected slot is not in the fetched list")
	errAlreadyClosed = errors.New("reschedule already completed")
)

type updateSlotRequest struct {
	AppointmentID int    `json:"appointment_id"`
	SlotDate      string `json:"slot_date"`
	SlotTime      string `json:"slot_time"`
}

// Workflow drives rescheduling one appointment: pick a date, pick one of the
// fetched slots, submit a single atomic date+time replace. Selecting a new
// date always discards the previously fetched list and any picked slot.
// The workflow does not own the appointment list; the caller refreshes its
// own data through the callback it hands to Submit.
type Workflow struct {
	api      *gateway.Client
	resolver *schedule.Resolver

	mu            sync.Mutex
	state         State
	gen           uint64
	appointmentID int
	patientID     int
	registered    bool
	date          string
	slots         []models.AvailableSlot
	picked        *models.AvailableSlot
}

func New(api *gateway.Client, resolver *schedule.Resolver, appointmentID, patientID int, registered bool) *Workflow {
	return &Workflow{
		api:           api,
		resolver:      resolver,
		appointmentID: appointmentID,
		patientID:     patientID,
		registered:    registered,
		state:         Idle,
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) Slots() []models.AvailableSlot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.AvailableSlot(nil), w.slots...)
}

// SelectDate re-queries availability for the new date. Each call advances a
// generation counter; if another SelectDate lands while the fetch is in
// flight, the older response is dropped with ErrStale.
func (w *Workflow) SelectDate(ctx context.Context, dateISO string) ([]models.AvailableSlot, error) {
	w.mu.Lock()
	if w.state == Done {
		w.mu.Unlock()
		return nil, errAlreadyClosed
	}
	w.gen++
	gen := w.gen
	w.state = DateSelected
	w.date = dateISO
	w.slots = nil
	w.picked = nil
	w.mu.Unlock()

	slots, err := w.resolver.Resolve(ctx, w.patientID, dateISO, w.registered)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		return nil, ErrStale
	}

	if errors.Is(err, schedule.ErrNoSlots) {
		w.state = NoSlotsAvailable
		return nil, err
	}
	if err != nil {
		// stay on DateSelected so the user can retry or pick another date
		return nil, err
	}

	w.state = SlotsLoaded
	w.slots = slots
	return slots, nil
}

// SelectSlot records the picked slot. It must be one of the slots returned
// for the currently selected date.
func (w *Workflow) SelectSlot(slot models.AvailableSlot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != SlotsLoaded && w.state != SlotSelected {
		return errNotOpen
	}
	for _, s := range w.slots {
		if s == slot {
			w.picked = &slot
			w.state = SlotSelected
			return nil
		}
	}
	return errUnknownSlot
}

// Submit issues the single replace request carrying the appointment id, the
// new date and the new time together. The backend applies it atomically; no
// date-only or time-only update ever leaves this method. On failure the
// workflow returns to SlotSelected so the user can retry. onSuccess, when
// non-nil, is invoked with the new date and time once the backend accepts
// the replace; it belongs to this call, not to the shared workflow.
func (w *Workflow) Submit(ctx context.Context, onSuccess func(date, timeSlot string)) error {
	w.mu.Lock()
	if w.state != SlotSelected || w.picked == nil || w.date == "" {
		w.mu.Unlock()
		return errNoSlotPicked
	}
	req := updateSlotRequest{
		AppointmentID: w.appointmentID,
		SlotDate:      w.date,
		SlotTime:      w.picked.Range(),
	}
	w.state = Submitting
	w.mu.Unlock()

	err := w.api.Put(ctx, "admin/booked_slots/update_slot_by_appointment", req, nil)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.state = SlotSelected
		return err
	}

	w.state = Done
	if onSuccess != nil {
		onSuccess(req.SlotDate, req.SlotTime)
	}
	return nil
}
