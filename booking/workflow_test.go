package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"clinic-connect/gateway"
	"clinic-connect/models"
	"clinic-connect/schedule"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]*Booking
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]*Booking)}
}

func (m *memoryStore) Save(b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *b
	m.data[b.ID] = &copied
	return nil
}

func (m *memoryStore) Load(id string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *memoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type fakePayments struct {
	orders int
	amount int64
}

func (f *fakePayments) CreateOrder(amount int64, currency, receipt string) (string, error) {
	f.orders++
	f.amount = amount
	return "order_abc", nil
}

// clinicStub emulates the backend endpoints the booking flow touches.
// 2025-03-08 is a doctor-away day with no slots; availability queries for
// 2025-03-09 block until release is closed when it is set.
type clinicStub struct {
	registrations int
	creations     int
	failCreate    bool
	failRegister  bool
	release       chan struct{}
}

func (s *clinicStub) server(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/patient_registrations") && r.Method == http.MethodPost:
			s.registrations++
			if s.failRegister {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"message":"phone number already registered today"}`))
				return
			}
			json.NewEncoder(w).Encode(models.RegistrationResult{
				Patient:           models.Patient{PatientID: 11, AlreadyRegistered: false},
				ConsultationPrice: 499.50,
				Currency:          "INR",
			})
		case strings.Contains(r.URL.Path, "check_available_schedule"):
			date := r.URL.Query().Get("date")
			if s.release != nil && date == "2025-03-09" {
				<-s.release
			}
			result := models.ScheduleQueryResult{SlotDurationMinutes: 10}
			if date != "2025-03-08" {
				result.AvailableSlots = []models.AvailableSlot{{Start: "09:00", End: "09:10"}}
				result.TotalSlots = 1
			}
			json.NewEncoder(w).Encode(result)
		case strings.HasSuffix(r.URL.Path, "/appointments") && r.Method == http.MethodPost:
			s.creations++
			if s.failCreate {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"could not create appointment"}`))
				return
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Error(err)
			}
			w.Write([]byte(`{"id": 77}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func validPersonal() PersonalInfo {
	return PersonalInfo{
		FirstName:   "Asha",
		LastName:    "Rao",
		Email:       "asha@example.com",
		Phone:       "9876543210",
		DateOfBirth: "1990-02-14",
		Gender:      "female",
		Address:     "12 MG Road, Bengaluru",
	}
}

func newTestWorkflow(t *testing.T, stub *clinicStub) (*Workflow, *fakePayments, func()) {
	srv := stub.server(t)
	api := gateway.New(srv.URL)
	payments := &fakePayments{}
	w := NewWorkflow(api, schedule.NewResolver(api), newMemoryStore(), payments, "rzp_test_key")
	return w, payments, srv.Close
}

func TestPersonalStageValidationBlocksNetwork(t *testing.T) {
	stub := &clinicStub{}
	w, _, done := newTestWorkflow(t, stub)
	defer done()

	b, err := w.Start()
	if err != nil {
		t.Fatal(err)
	}

	info := validPersonal()
	info.Email = "bademail"
	_, err = w.SubmitPersonal(context.Background(), b.ID, info)

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	found := false
	for _, fe := range verrs {
		if fe.Message == "Please enter a valid email address" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing email message in %v", verrs)
	}
	if stub.registrations != 0 {
		t.Fatal("validation failure must not issue a network call")
	}
}

func TestPersonalStagePhoneValidation(t *testing.T) {
	stub := &clinicStub{}
	w, _, done := newTestWorkflow(t, stub)
	defer done()

	b, _ := w.Start()
	info := validPersonal()
	info.Phone = "12345"
	if _, err := w.SubmitPersonal(context.Background(), b.ID, info); err == nil {
		t.Fatal("5 digit phone number must not validate")
	}
	if stub.registrations != 0 {
		t.Fatal("validation failure must not issue a network call")
	}
}

func TestLeavingPersonalRegistersPatient(t *testing.T) {
	stub := &clinicStub{}
	w, _, done := newTestWorkflow(t, stub)
	defer done()

	b, _ := w.Start()
	b, err := w.SubmitPersonal(context.Background(), b.ID, validPersonal())
	if err != nil {
		t.Fatal(err)
	}

	if stub.registrations != 1 {
		t.Fatalf("registrations = %d, want 1", stub.registrations)
	}
	if b.Stage != StageMedical || b.PatientID != 11 || b.ConsultationPrice != 499.50 {
		t.Fatalf("booking after personal stage = %+v", b)
	}
}

func TestRegistrationFailureKeepsPersonalStage(t *testing.T) {
	stub := &clinicStub{failRegister: true}
	w, _, done := newTestWorkflow(t, stub)
	defer done()

	b, _ := w.Start()
	_, err := w.SubmitPersonal(context.Background(), b.ID, validPersonal())
	if err == nil || err.Error() != "phone number already registered today" {
		t.Fatalf("err = %v", err)
	}

	reloaded, _ := w.store.Load(b.ID)
	if reloaded.Stage != StagePersonal {
		t.Fatalf("stage = %v, want StagePersonal", reloaded.Stage)
	}
	if stub.registrations != 1 {
		t.Fatalf("registrations = %d, no automatic retry expected", stub.registrations)
	}
}

func advanceToAppointment(t *testing.T, w *Workflow) *Booking {
	t.Helper()
	b, err := w.Start()
	if err != nil {
		t.Fatal(err)
	}
	if b, err = w.SubmitPersonal(context.Background(), b.ID, validPersonal()); err != nil {
		t.Fatal(err)
	}
	if b, err = w.SubmitMedical(b.ID, MedicalInfo{TreatmentHistory: "none"}); err != nil {
		t.Fatal(err)
	}
	if b, err = w.SubmitDetails(b.ID, DetailsInfo{AdditionalDetails: "first visit"}); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSlotSelectionNeedsExplicitConfirm(t *testing.T) {
	stub := &clinicStub{}
	w, payments, done := newTestWorkflow(t, stub)
	defer done()

	b := advanceToAppointment(t, w)
	slots, err := w.SelectDate(context.Background(), b.ID, "2025-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.SelectSlot(b.ID, slots[0]); err != nil {
		t.Fatal(err)
	}

	// picking the slot alone starts no payment
	if payments.orders != 0 {
		t.Fatal("slot selection must not auto-trigger payment")
	}

	intent, err := w.Confirm(context.Background(), b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if payments.orders != 1 {
		t.Fatalf("orders = %d, want 1 after explicit confirm", payments.orders)
	}
	if intent.Amount != 49950 {
		t.Fatalf("amount = %d, want price in smallest currency unit", intent.Amount)
	}
}

func TestEmptyDateStillDiscardsPickedSlot(t *testing.T) {
	stub := &clinicStub{}
	w, payments, done := newTestWorkflow(t, stub)
	defer done()

	b := advanceToAppointment(t, w)
	slots, err := w.SelectDate(context.Background(), b.ID, "2025-03-01")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.SelectSlot(b.ID, slots[0]); err != nil {
		t.Fatal(err)
	}

	// moving to the doctor-away day abandons the old selection even though
	// the new date has nothing to offer
	_, err = w.SelectDate(context.Background(), b.ID, "2025-03-08")
	if !errors.Is(err, schedule.ErrNoSlots) {
		t.Fatalf("err = %v, want ErrNoSlots", err)
	}

	reloaded, err := w.store.Load(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.SelectedDate != "2025-03-08" || reloaded.SelectedSlot != "" {
		t.Fatalf("stored selection = %q / %q, old slot must not survive", reloaded.SelectedDate, reloaded.SelectedSlot)
	}

	// and confirming cannot charge for the abandoned slot
	if _, err := w.Confirm(context.Background(), b.ID); err == nil {
		t.Fatal("confirm must fail after moving to a date with no slots")
	}
	if payments.orders != 0 {
		t.Fatalf("orders = %d, no payment may be created for an abandoned slot", payments.orders)
	}
}

func TestStaleDateResponseDiscarded(t *testing.T) {
	stub := &clinicStub{release: make(chan struct{})}
	w, _, done := newTestWorkflow(t, stub)
	defer done()

	b := advanceToAppointment(t, w)

	firstDone := make(chan error, 1)
	go func() {
		_, err := w.SelectDate(context.Background(), b.ID, "2025-03-09") // blocks server-side
		firstDone <- err
	}()

	// let the first request reach the server, then move on to a newer date
	time.Sleep(50 * time.Millisecond)
	if _, err := w.SelectDate(context.Background(), b.ID, "2025-03-01"); err != nil {
		t.Fatal(err)
	}

	close(stub.release)
	if err := <-firstDone; !errors.Is(err, ErrStale) {
		t.Fatalf("first selection err = %v, want ErrStale", err)
	}

	// the newer date is still the stored one
	reloaded, err := w.store.Load(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.SelectedDate != "2025-03-01" {
		t.Fatalf("stored date = %q, stale response must not win", reloaded.SelectedDate)
	}
}

func TestConfirmRequiresSlot(t *testing.T) {
	stub := &clinicStub{}
	w, _, done := newTestWorkflow(t, stub)
	defer done()

	b := advanceToAppointment(t, w)
	if _, err := w.SelectDate(context.Background(), b.ID, "2025-03-01"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Confirm(context.Background(), b.ID); err == nil {
		t.Fatal("confirm without a picked slot must fail")
	}
}

func TestPaymentSuccessCreatesAppointmentAndResets(t *testing.T) {
	stub := &clinicStub{}
	w, _, done := newTestWorkflow(t, stub)
	defer done()

	b := advanceToAppointment(t, w)
	slots, _ := w.SelectDate(context.Background(), b.ID, "2025-03-01")
	w.SelectSlot(b.ID, slots[0])
	intent, err := w.Confirm(context.Background(), b.ID)
	if err != nil {
		t.Fatal(err)
	}

	files := []gateway.FileUpload{{Field: "pathology_reports[]", Name: "scan.pdf", Content: []byte("x")}}
	appointmentID, err := w.PaymentSucceeded(context.Background(), b.ID, intent.OrderID, "pay_123", files)
	if err != nil {
		t.Fatal(err)
	}
	if appointmentID != 77 {
		t.Fatalf("appointmentID = %d", appointmentID)
	}

	// registration re-submitted as idempotent confirmation: once on leaving
	// Personal, once on payment success
	if stub.registrations != 2 {
		t.Fatalf("registrations = %d, want 2", stub.registrations)
	}

	// pending state cleared so the next booking starts fresh
	if _, err := w.store.Load(b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("pending booking state must be cleared after success")
	}
}

func TestPaymentSucceededBookingFailedIsDistinct(t *testing.T) {
	stub := &clinicStub{failCreate: true}
	w, _, done := newTestWorkflow(t, stub)
	defer done()

	b := advanceToAppointment(t, w)
	slots, _ := w.SelectDate(context.Background(), b.ID, "2025-03-01")
	w.SelectSlot(b.ID, slots[0])
	intent, _ := w.Confirm(context.Background(), b.ID)

	_, err := w.PaymentSucceeded(context.Background(), b.ID, intent.OrderID, "pay_123", nil)
	if !errors.Is(err, ErrPaymentSucceededBookingFailed) {
		t.Fatalf("err = %v, want the contact-support error", err)
	}

	// and it is not just a plain gateway error
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		t.Fatal("partial-success error must not unwrap to a generic network error")
	}
}

func TestPaymentMismatchedOrderRejected(t *testing.T) {
	stub := &clinicStub{}
	w, _, done := newTestWorkflow(t, stub)
	defer done()

	b := advanceToAppointment(t, w)
	slots, _ := w.SelectDate(context.Background(), b.ID, "2025-03-01")
	w.SelectSlot(b.ID, slots[0])
	if _, err := w.Confirm(context.Background(), b.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := w.PaymentSucceeded(context.Background(), b.ID, "order_other", "pay_123", nil); err == nil {
		t.Fatal("payment for a different order must be rejected")
	}
	if stub.creations != 0 {
		t.Fatal("no appointment may be created for a mismatched order")
	}
}

func TestResetClearsPendingState(t *testing.T) {
	stub := &clinicStub{}
	w, _, done := newTestWorkflow(t, stub)
	defer done()

	b := advanceToAppointment(t, w)
	if err := w.Reset(b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := w.store.Load(b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("reset must drop the pending booking")
	}
}
