package booking

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"clinic-connect/gateway"
	"clinic-connect/models"
	"clinic-connect/schedule"
)

// ErrPaymentSucceededBookingFailed marks the partial-success hazard: the
// checkout charged the patient but the appointment could not be created. It
// must never be folded into the generic error path, the support team needs to
// hear about these.
var ErrPaymentSucceededBookingFailed = errors.New("payment succeeded but the booking could not be completed, please contact support with your payment reference")

// ErrStale is returned when a slot response arrives after the user has
// already moved on to another date. The response is discarded so it cannot
// overwrite the newer selection.
var ErrStale = errors.New("availability response superseded by a newer date selection")

var (
	errWrongStage  = errors.New("complete the previous step first")
	errNoSlot      = errors.New("select a date and time slot before confirming")
	errNotPayable  = errors.New("confirm the booking to generate a payment order first")
	errOrderIDUsed = errors.New("payment does not match the pending booking")
)

// Workflow drives the four-stage booking form: Personal, Medical, Details,
// Appointment. Stage transitions are gated by stage-local validation; the
// appointment is only created server-side after the payment widget reports
// success.
type Workflow struct {
	api      *gateway.Client
	resolver *schedule.Resolver
	store    StateStore
	payments PaymentGateway
	keyID    string

	// Notify is called after a booking lands; failures there never fail the
	// booking.
	Notify func(b *Booking, appointmentID int)
}

func NewWorkflow(api *gateway.Client, resolver *schedule.Resolver, store StateStore, payments PaymentGateway, razorpayKeyID string) *Workflow {
	return &Workflow{
		api:      api,
		resolver: resolver,
		store:    store,
		payments: payments,
		keyID:    razorpayKeyID,
	}
}

// Start opens a fresh booking on the Personal stage.
func (w *Workflow) Start() (*Booking, error) {
	b := &Booking{ID: uuid.New().String(), Stage: StagePersonal}
	if err := w.store.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}

// SubmitPersonal validates the first stage and registers the patient. The
// registration response carries the authoritative consultation price used for
// payment later. On any failure the booking stays on the Personal stage; no
// automatic retry.
func (w *Workflow) SubmitPersonal(ctx context.Context, id string, info PersonalInfo) (*Booking, error) {
	b, err := w.store.Load(id)
	if err != nil {
		return nil, err
	}
	if b.Stage != StagePersonal {
		return nil, errWrongStage
	}
	if err := validateStruct(info); err != nil {
		return nil, err
	}

	reg, err := w.registerPatient(ctx, info)
	if err != nil {
		return nil, err
	}

	b.Personal = info
	b.PatientID = reg.Patient.PatientID
	b.ConsultationPrice = reg.ConsultationPrice
	b.Currency = reg.Currency
	b.Medical.AlreadyRegistered = reg.Patient.AlreadyRegistered
	b.Stage = StageMedical
	if err := w.store.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (w *Workflow) registerPatient(ctx context.Context, info PersonalInfo) (*models.RegistrationResult, error) {
	var reg models.RegistrationResult
	if err := w.api.Post(ctx, "patients/patient_registrations", info, &reg); err != nil {
		return nil, err
	}
	if reg.Currency == "" {
		reg.Currency = "INR"
	}
	return &reg, nil
}

// SubmitMedical validates and stores the medical history stage.
func (w *Workflow) SubmitMedical(id string, info MedicalInfo) (*Booking, error) {
	b, err := w.store.Load(id)
	if err != nil {
		return nil, err
	}
	if b.Stage != StageMedical {
		return nil, errWrongStage
	}
	if err := validateStruct(info); err != nil {
		return nil, err
	}

	b.Medical = info
	b.Stage = StageDetails
	if err := w.store.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}

// SubmitDetails stores the free-text details stage.
func (w *Workflow) SubmitDetails(id string, info DetailsInfo) (*Booking, error) {
	b, err := w.store.Load(id)
	if err != nil {
		return nil, err
	}
	if b.Stage != StageDetails {
		return nil, errWrongStage
	}

	b.Details = info
	b.Stage = StageAppointment
	if err := w.store.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}

// SelectDate fetches availability for the chosen date. Changing the date
// always clears a previously picked slot, including when the new date turns
// out to have no slots or the fetch fails: the old selection must never
// survive into Confirm behind the user's back.
func (w *Workflow) SelectDate(ctx context.Context, id, dateISO string) ([]models.AvailableSlot, error) {
	b, err := w.store.Load(id)
	if err != nil {
		return nil, err
	}
	if b.Stage != StageAppointment {
		return nil, errWrongStage
	}

	// the new date takes effect before the fetch
	b.SelectedDate = dateISO
	b.SelectedSlot = ""
	if err := w.store.Save(b); err != nil {
		return nil, err
	}

	slots, err := w.resolver.Resolve(ctx, b.PatientID, dateISO, b.Medical.AlreadyRegistered)
	if err != nil {
		return nil, err
	}

	// a slower fetch must not hand slots to a date the user already left
	cur, err := w.store.Load(id)
	if err != nil {
		return nil, err
	}
	if cur.SelectedDate != dateISO {
		return nil, ErrStale
	}
	return slots, nil
}

// SelectSlot records the picked slot. It does not advance anything: the user
// still has to confirm explicitly before payment starts.
func (w *Workflow) SelectSlot(id string, slot models.AvailableSlot) (*Booking, error) {
	b, err := w.store.Load(id)
	if err != nil {
		return nil, err
	}
	if b.Stage != StageAppointment || b.SelectedDate == "" {
		return nil, errWrongStage
	}

	b.SelectedSlot = slot.Range()
	if err := w.store.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Confirm creates the payment order for the consultation price and returns
// what the checkout widget needs. The amount is the registered price in the
// smallest currency unit.
func (w *Workflow) Confirm(ctx context.Context, id string) (*PaymentIntent, error) {
	b, err := w.store.Load(id)
	if err != nil {
		return nil, err
	}
	if b.Stage != StageAppointment || b.SelectedDate == "" || b.SelectedSlot == "" {
		return nil, errNoSlot
	}

	amount := toSubunits(b.ConsultationPrice)
	orderID, err := w.payments.CreateOrder(amount, b.Currency, newReceiptID())
	if err != nil {
		return nil, err
	}

	b.OrderID = orderID
	if err := w.store.Save(b); err != nil {
		return nil, err
	}

	return &PaymentIntent{
		OrderID:  orderID,
		KeyID:    w.keyID,
		Amount:   amount,
		Currency: b.Currency,
	}, nil
}

// PaymentSucceeded handles the widget's success callback: re-submit the
// patient registration as an idempotent re-confirmation, then create the
// appointment with the multipart payload. Payment and booking are not atomic
// from here, so any failure past this point surfaces as the distinct
// contact-support error instead of a generic one. On success the pending
// state is cleared so the form resets for the next booking.
func (w *Workflow) PaymentSucceeded(ctx context.Context, id, orderID, paymentID string, files []gateway.FileUpload) (int, error) {
	b, err := w.store.Load(id)
	if err != nil {
		return 0, err
	}
	if b.OrderID == "" {
		return 0, errNotPayable
	}
	if orderID != b.OrderID {
		return 0, errOrderIDUsed
	}

	if _, err := w.registerPatient(ctx, b.Personal); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPaymentSucceededBookingFailed, err)
	}

	fields := url.Values{
		"email":              {b.Personal.Email},
		"phone_number":       {b.Personal.Phone},
		"slot_date":          {b.SelectedDate},
		"slot_time":          {b.SelectedSlot},
		"treatment_history":  {b.Medical.TreatmentHistory},
		"additional_details": {b.Details.AdditionalDetails},
		"payment_id":         {paymentID},
	}

	var created struct {
		ID int `json:"id"`
	}
	if err := w.api.PostMultipart(ctx, "patients/appointments", fields, files, &created); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPaymentSucceededBookingFailed, err)
	}

	if w.Notify != nil {
		w.Notify(b, created.ID)
	}

	// reset: fields, files, slot state and errors all start over
	_ = w.store.Delete(id)
	return created.ID, nil
}

// Reset abandons the pending booking and clears its state.
func (w *Workflow) Reset(id string) error {
	return w.store.Delete(id)
}
