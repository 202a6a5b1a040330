package models

// Patient demographic record as registered with the backend. The
// AlreadyRegistered flag drives the slot-duration policy: returning patients
// get 20 minute consultations, first-timers get 10.
type Patient struct {
	PatientID         int    `json:"id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone_number"`
	DateOfBirth       string `json:"date_of_birth"`
	Age               int    `json:"age"`
	Gender            string `json:"gender"`
	Address           string `json:"address"`
	AlreadyRegistered bool   `json:"is_already_registered"`
}

// RegistrationResult is the backend's response to a patient registration.
// ConsultationPrice is authoritative for the payment step.
type RegistrationResult struct {
	Patient           Patient `json:"patient"`
	ConsultationPrice float64 `json:"consultation_price"`
	Currency          string  `json:"currency"`
}
