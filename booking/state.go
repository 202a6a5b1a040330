package booking

import (
	"encoding/json"
	"errors"
	"time"

	"clinic-connect/configuration"
)

// Stage of the linear booking form.
type Stage int

const (
	StagePersonal Stage = iota
	StageMedical
	StageDetails
	StageAppointment
)

// PersonalInfo is the first form stage. Leaving it registers the patient.
type PersonalInfo struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone_number" validate:"required,len=10,numeric"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	Gender      string `json:"gender"`
	Address     string `json:"address" validate:"required"`
}

// MedicalInfo is the second stage. AlreadyRegistered seeds the slot-duration
// hint; the resolver corrects it against the backend if it is stale.
type MedicalInfo struct {
	TreatmentHistory  string `json:"treatment_history" validate:"required"`
	AlreadyRegistered bool   `json:"is_already_registered"`
}

// DetailsInfo is the third stage. Everything here is optional free text.
type DetailsInfo struct {
	AdditionalDetails string `json:"additional_details"`
}

// Booking is the pending form state held between stages. It lives in redis
// with a TTL so an abandoned form cleans itself up.
type Booking struct {
	ID    string `json:"id"`
	Stage Stage  `json:"stage"`

	Personal PersonalInfo `json:"personal"`
	Medical  MedicalInfo  `json:"medical"`
	Details  DetailsInfo  `json:"details"`

	PatientID         int     `json:"patient_id"`
	ConsultationPrice float64 `json:"consultation_price"`
	Currency          string  `json:"currency"`

	SelectedDate string `json:"selected_date"`
	SelectedSlot string `json:"selected_slot"`
	OrderID      string `json:"order_id"`
}

// ErrNotFound means the booking id is unknown or the pending state expired.
var ErrNotFound = errors.New("booking not found or expired")

// StateStore persists pending bookings between form stages.
type StateStore interface {
	Save(b *Booking) error
	Load(id string) (*Booking, error)
	Delete(id string) error
}

const pendingTTL = time.Hour

type redisStateStore struct{}

// NewRedisStateStore stores pending bookings in the shared redis client.
func NewRedisStateStore() StateStore {
	return redisStateStore{}
}

func (redisStateStore) Save(b *Booking) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return configuration.SetRedis("booking:"+b.ID, data, pendingTTL)
}

func (redisStateStore) Load(id string) (*Booking, error) {
	val, err := configuration.GetRedis("booking:" + id)
	if err != nil {
		return nil, ErrNotFound
	}
	var b Booking
	if err := json.Unmarshal([]byte(val), &b); err != nil {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (redisStateStore) Delete(id string) error {
	return configuration.DelRedis("booking:" + id)
}
