package booking

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-gomail/gomail"
	"github.com/jung-kurt/gofpdf"
	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// SendConfirmation emails the patient a PDF booking summary and sends an SMS.
// The booking already succeeded when this runs, so failures are logged and
// swallowed rather than shown to the user.
func SendConfirmation(b *Booking, appointmentID int) {
	pdf, err := generateConfirmationPDF(b, appointmentID)
	if err != nil {
		log.Println("Failed to generate confirmation PDF:", err)
	} else if err := sendConfirmationEmail(b.Personal.Email, appointmentID, pdf); err != nil {
		log.Println("Failed to send confirmation email:", err)
	}

	if err := sendConfirmationSMS(b.Personal.Phone, b.SelectedDate, b.SelectedSlot); err != nil {
		log.Println("Failed to send confirmation SMS:", err)
	}
}

// generateConfirmationPDF builds the booking summary document
func generateConfirmationPDF(b *Booking, appointmentID int) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(128, 0, 128)
	pdf.CellFormat(0, 10, "Clinic Connect - Appointment Confirmation", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Appointment Details", "1", 1, "C", false, 0, "")
	addDetail(pdf, "Appointment ID", fmt.Sprintf("%d", appointmentID))
	addDetail(pdf, "Patient Name", b.Personal.FirstName+" "+b.Personal.LastName)
	addDetail(pdf, "Date", b.SelectedDate)
	addDetail(pdf, "Time Slot", b.SelectedSlot)
	addDetail(pdf, "Amount Paid", fmt.Sprintf("%.2f %s", b.ConsultationPrice, b.Currency))

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, "Thank you for booking with us. Please arrive 10 minutes before your slot.", "", "L", false)

	pdf.SetY(pdf.GetY() + 12)
	pdf.CellFormat(0, 10, "This is a computer generated confirmation", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addDetail(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(45, 10, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 10, value, "1", 1, "", false, 0, "")
}

func sendConfirmationEmail(email string, appointmentID int, attachment []byte) error {
	senderEmail := os.Getenv("Email")
	senderPassword := os.Getenv("Password")

	m := gomail.NewMessage()
	m.SetHeader("From", senderEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Appointment confirmation")
	m.SetBody("text/plain", fmt.Sprintf("Your appointment (ID %d) is confirmed. The summary is attached.", appointmentID))

	m.Attach("confirmation.pdf", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(attachment)
		return err
	}))

	d := gomail.NewDialer("smtp.gmail.com", 587, senderEmail, senderPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	return nil
}

func sendConfirmationSMS(phone, date, slot string) error {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: os.Getenv("TWILIO_ACCOUNT_SID"),
		Password: os.Getenv("TWILIO_AUTHTOKEN"),
	})

	params := &api.CreateMessageParams{}
	params.SetTo("+91" + phone)
	params.SetFrom(os.Getenv("TWILIO_PHONENUMBER"))
	params.SetBody(fmt.Sprintf("Your appointment is confirmed for %s, %s.", date, slot))

	_, err := client.Api.CreateMessage(params)
	return err
}
