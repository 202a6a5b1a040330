package models

// AvailableSlot is one bookable time window on a given date. Slots are
// fetched fresh per date query and never cached across dates.
type AvailableSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Range renders the slot the way the backend expects it on writes,
// e.g. "09:00-09:20".
func (s AvailableSlot) Range() string {
	return s.Start + "-" + s.End
}

// ScheduleQueryResult wraps the backend's slot discovery response. The
// returned SlotDurationMinutes is what actually decides the registration
// policy, regardless of the hint the caller sent.
type ScheduleQueryResult struct {
	AvailableSlots      []AvailableSlot `json:"available_slots"`
	SlotDurationMinutes int             `json:"slot_duration_minutes"`
	TotalSlots          int             `json:"total_slots"`
	DayOfWeek           string          `json:"day_of_week"`
	Source              string          `json:"source"`
}

// Slot durations in minutes per the backend's consultation policy.
const (
	RegisteredSlotMinutes = 20
	NewPatientSlotMinutes = 10
)
