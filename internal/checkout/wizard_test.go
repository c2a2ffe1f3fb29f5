package checkout

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-storefront/internal/cart"
)

func fixedWizard() *Wizard {
	w := NewWizard()
	fixed := time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	w.now = func() time.Time { return fixed }
	w.ids = IDGenerator{Now: w.now, IntN: func(n int) int { return n - 1 }}
	return w
}

func TestOpenRejectsEmptyCart(t *testing.T) {
	w := NewWizard()
	require.ErrorIs(t, w.Open(0), ErrEmptyCart)
	assert.Equal(t, PhaseClosed, w.Phase())
	assert.Equal(t, StepContact, w.Step())
}

func TestStepClamping(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.Open(1))

	assert.Equal(t, StepContact, w.Retreat())
	assert.Equal(t, StepShipping, w.Advance())
	assert.Equal(t, StepPayment, w.Advance())
	assert.Equal(t, StepPayment, w.Advance())
	assert.Equal(t, StepShipping, w.Retreat())
	assert.Equal(t, StepContact, w.Retreat())
	assert.Equal(t, StepContact, w.Retreat())
}

func TestClosedWizardIgnoresNavigation(t *testing.T) {
	w := NewWizard()
	assert.Equal(t, StepContact, w.Advance())
	require.ErrorIs(t, w.Record(StepContact, Fields{"email": "a@b.co"}), ErrNotOpen)
	_, err := w.Submit(nil, decimal.Zero, nil)
	require.ErrorIs(t, err, ErrNotOpen)
}

func TestOpenResetsProgress(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.Open(2))
	require.NoError(t, w.Record(StepContact, Fields{"firstName": "Mona"}))
	w.Advance()
	w.Close()

	require.NoError(t, w.Open(2))
	assert.Equal(t, StepContact, w.Step())
	assert.Empty(t, w.Fields(StepContact))
}

func TestSubmitOnlyFromPayment(t *testing.T) {
	w := fixedWizard()
	require.NoError(t, w.Open(1))
	w.Advance()

	_, err := w.Submit(nil, decimal.Zero, nil)
	require.ErrorIs(t, err, ErrNotAtPayment)
	assert.Equal(t, PhaseOpen, w.Phase())
}

func TestSubmitBuildsOrder(t *testing.T) {
	w := fixedWizard()
	lines := []cart.Line{
		{Key: "P1_M_Red", ProductID: "P1", Name: "Grind Hoodie", Price: decimal.NewFromInt(150), Quantity: 2, Size: cart.Some("M"), Color: cart.Some("Red")},
		{Key: "P2_default_default", ProductID: "P2", Name: "Core Tee", Price: decimal.NewFromInt(150), Quantity: 1},
	}
	require.NoError(t, w.Open(3))
	require.NoError(t, w.Record(StepContact, Fields{"firstName": "Mona", "lastName": "Adel", "email": "mona@example.com", "phone": "+20 100 000 0000"}))
	w.Advance()
	require.NoError(t, w.Record(StepShipping, Fields{"address": "1 Nile St", "city": "Cairo", "state": "Cairo", "zipCode": "11511", "country": "EG"}))
	w.Advance()

	order, err := w.Submit(lines, decimal.RequireFromString("450.00"), Fields{
		FieldCardNumber: "4111 1111 1111 1234",
		FieldExpiryDate: "12/29",
		FieldCVV:        "123",
		FieldCardName:   "Mona Adel",
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^GC-[0-9A-Z]+-[0-9A-Z]{6}$`), order.ID)
	assert.Equal(t, "GC-M88KQ7PX-ZZZZZZ", order.ID)
	assert.Equal(t, "TRK999999999", order.Tracking)
	assert.Equal(t, "2025-03-14T09:26:53.589Z", order.Timestamp)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(450)))
	assert.Len(t, order.Items, 2)

	assert.Equal(t, "Mona", order.Customer["firstName"])
	assert.Equal(t, "Cairo", order.Customer["city"])
	assert.Equal(t, "1234", order.Customer[FieldCardLast4])
	assert.Equal(t, "Mona Adel", order.Customer[FieldCardName])
	assert.NotContains(t, order.Customer, FieldCardNumber)
	assert.NotContains(t, order.Customer, FieldCVV)
	assert.NotContains(t, order.Customer, FieldExpiryDate)

	raw, err := json.Marshal(order)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total":450`)
	assert.Contains(t, string(raw), `"price":150`)

	st := w.State()
	assert.Equal(t, PhaseSuccess, st.Phase)
	require.NotNil(t, st.Order)
	assert.Equal(t, order.ID, st.Order.ID)

	lines[0].Quantity = 99
	got, ok := w.Order()
	require.True(t, ok)
	assert.Equal(t, 2, got.Items[0].Quantity)

	w.Close()
	assert.Nil(t, w.State().Order)
}

func TestTrackingNumberPadding(t *testing.T) {
	g := IDGenerator{Now: time.Now, IntN: func(int) int { return 42 }}
	assert.Equal(t, "TRK000000042", g.TrackingNumber())
}

func TestDefaultIDGeneratorShape(t *testing.T) {
	g := DefaultIDGenerator()
	assert.Regexp(t, `^GC-[0-9A-Z]+-[0-9A-Z]{6}$`, g.OrderID())
	assert.Regexp(t, `^TRK\d{9}$`, g.TrackingNumber())
}

func TestRedactPaymentShortNumber(t *testing.T) {
	out := redactPayment(Fields{FieldCardNumber: "12", FieldCardName: "X"})
	assert.Equal(t, Fields{FieldCardName: "X"}, out)
}
