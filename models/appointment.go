package models

// Appointment mirrors the consultation record owned by the backend. The
// scheduled date and time slot are either both set or both empty; the
// reschedule flow always writes them together.
type Appointment struct {
	AppointmentID     int     `json:"id"`
	PatientID         int     `json:"patient_id"`
	PatientEmail      string  `json:"email"`
	SlotDate          *string `json:"slot_date"`
	SlotTime          *string `json:"slot_time"`
	Status            string  `json:"status"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
	TreatmentHistory  string  `json:"treatment_history"`
	AdditionalDetails string  `json:"additional_details"`
	MeetingLink       string  `json:"meeting_link,omitempty"`
}

// Appointment lifecycle statuses as the backend reports them.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ConsultationPage is one page of the admin consultation listing.
type ConsultationPage struct {
	Appointments []Appointment `json:"consultations"`
	Page         int           `json:"page"`
	PerPage      int           `json:"per_page"`
	Total        int           `json:"total"`
}

// TreatmentHistory is one treatment-history record for a patient.
type TreatmentHistory struct {
	ID            int    `json:"id"`
	PatientID     int    `json:"patient_id"`
	AppointmentID int    `json:"appointment_id"`
	Details       string `json:"details"`
	RecordedOn    string `json:"recorded_on"`
}

// PrescriptionNote is one prescription note attached to an appointment.
type PrescriptionNote struct {
	ID            int    `json:"id"`
	PatientID     int    `json:"patient_id"`
	AppointmentID int    `json:"appointment_id"`
	Medicine      string `json:"medicine"`
	Dosage        string `json:"dosage"`
	Instructions  string `json:"instructions"`
}
