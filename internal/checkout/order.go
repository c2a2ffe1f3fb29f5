package checkout

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-storefront/internal/cart"
)

// TimestampLayout matches JavaScript's Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Fields holds the customer-supplied form values of one step, keyed by form field name.
type Fields map[string]string

// Order is the immutable record of a placed order. It exists only in the wizard and in the
// outbound webhook payload.
type Order struct {
	ID        string          `json:"id"`
	Tracking  string          `json:"tracking"`
	Items     []cart.Line     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Customer  Fields          `json:"customer"`
	Timestamp string          `json:"timestamp"`
}

// Payment form field names.
const (
	FieldCardNumber = "cardNumber"
	FieldExpiryDate = "expiryDate"
	FieldCVV        = "cvv"
	FieldCardName   = "cardName"
	FieldCardLast4  = "cardLast4"
)

// redactPayment keeps the card holder name and the last four card digits. Card number, expiry
// and CVV never leave the wizard.
func redactPayment(payment Fields) Fields {
	out := Fields{}
	for k, v := range payment {
		switch k {
		case FieldCardNumber:
			if last4 := lastDigits(v, 4); last4 != "" {
				out[FieldCardLast4] = last4
			}
		case FieldExpiryDate, FieldCVV:
		default:
			out[k] = v
		}
	}
	return out
}

func lastDigits(s string, n int) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	if len(digits) < n {
		return ""
	}
	return digits[len(digits)-n:]
}

func (f Fields) clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
