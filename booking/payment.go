package booking

import (
	"errors"
	"math"
	"os"

	"github.com/google/uuid"
	"github.com/razorpay/razorpay-go"
)

// PaymentGateway creates the checkout order the payment widget is opened
// with. Only order creation lives here; correctness of the checkout itself is
// the widget's business.
type PaymentGateway interface {
	CreateOrder(amountSubunits int64, currency, receipt string) (orderID string, err error)
}

// PaymentIntent is handed to the frontend to launch the checkout widget.
type PaymentIntent struct {
	OrderID  string `json:"order_id"`
	KeyID    string `json:"key_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type razorpayGateway struct{}

// NewRazorpayGateway builds the gateway from the RazorPay credentials in the
// environment.
func NewRazorpayGateway() PaymentGateway {
	return razorpayGateway{}
}

func (razorpayGateway) CreateOrder(amountSubunits int64, currency, receipt string) (string, error) {
	client := razorpay.NewClient(os.Getenv("RazorPay_key_id"), os.Getenv("RazorPay_key_secret"))

	data := map[string]interface{}{
		"amount":   amountSubunits,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := client.Order.Create(data, nil)
	if err != nil {
		return "", err
	}

	orderID, ok := body["id"].(string)
	if !ok {
		return "", errors.New("razorpay order response missing id")
	}
	return orderID, nil
}

// toSubunits converts the consultation price to the smallest currency unit
// the gateway expects.
func toSubunits(price float64) int64 {
	return int64(math.Round(price * 100))
}

func newReceiptID() string {
	return uuid.New().String()
}
