package checkout

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-storefront/internal/cart"
)

// Step is a wizard stage.
type Step int

const (
	StepContact  Step = 1
	StepShipping Step = 2
	StepPayment  Step = 3
)

func (s Step) String() string {
	switch s {
	case StepContact:
		return "contact"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	default:
		return "unknown"
	}
}

// Phase is the wizard's display state.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpen
	PhaseSuccess
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseSuccess:
		return "success"
	default:
		return "closed"
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

var (
	// ErrEmptyCart rejects opening checkout with nothing in the cart.
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrNotOpen is returned by operations that need an open wizard.
	ErrNotOpen = errors.New("checkout: wizard is not open")
	// ErrNotAtPayment is returned when submitting from any step but the payment step.
	ErrNotAtPayment = errors.New("checkout: orders can only be submitted from the payment step")
	// ErrWrongStep rejects form values sent for a step the wizard is not on.
	ErrWrongStep = errors.New("checkout: form does not match the current step")
)

// State is a snapshot of the wizard for presentation.
type State struct {
	Phase Phase  `json:"phase"`
	Step  Step   `json:"step"`
	Order *Order `json:"order,omitempty"`
}

// Wizard is the contact → shipping → payment flow of one session. It is not safe for
// concurrent use.
type Wizard struct {
	phase  Phase
	step   Step
	fields map[Step]Fields
	order  *Order
	ids    IDGenerator
	now    func() time.Time
}

// NewWizard returns a closed wizard at the contact step.
func NewWizard() *Wizard {
	return &Wizard{
		step:   StepContact,
		fields: map[Step]Fields{},
		ids:    DefaultIDGenerator(),
		now:    time.Now,
	}
}

// Open starts checkout at the contact step, discarding any previous progress or placed order.
// An empty cart is rejected and the wizard stays as it was.
func (w *Wizard) Open(cartCount int) error {
	if cartCount <= 0 {
		return ErrEmptyCart
	}
	w.phase = PhaseOpen
	w.step = StepContact
	w.fields = map[Step]Fields{}
	w.order = nil
	return nil
}

// Advance moves one step forward, stopping at the payment step.
func (w *Wizard) Advance() Step {
	if w.phase == PhaseOpen && w.step < StepPayment {
		w.step++
	}
	return w.step
}

// Retreat moves one step back, stopping at the contact step.
func (w *Wizard) Retreat() Step {
	if w.phase == PhaseOpen && w.step > StepContact {
		w.step--
	}
	return w.step
}

// Record stores the form values submitted for step.
func (w *Wizard) Record(step Step, fields Fields) error {
	if w.phase != PhaseOpen {
		return ErrNotOpen
	}
	w.fields[step] = fields.clone()
	return nil
}

// Fields returns the values recorded for step.
func (w *Wizard) Fields(step Step) Fields {
	return w.fields[step].clone()
}

// Submit assembles the Order from a snapshot of lines and the customer fields of all steps and
// moves the wizard to the success phase. It only succeeds at the payment step.
func (w *Wizard) Submit(lines []cart.Line, total decimal.Decimal, payment Fields) (Order, error) {
	if w.phase != PhaseOpen {
		return Order{}, ErrNotOpen
	}
	if w.step != StepPayment {
		return Order{}, ErrNotAtPayment
	}

	customer := Fields{}
	for _, step := range []Step{StepContact, StepShipping} {
		for k, v := range w.fields[step] {
			customer[k] = v
		}
	}
	for k, v := range redactPayment(payment) {
		customer[k] = v
	}

	order := Order{
		ID:        w.ids.OrderID(),
		Tracking:  w.ids.TrackingNumber(),
		Items:     slices.Clone(lines),
		Total:     total,
		Customer:  customer,
		Timestamp: w.now().UTC().Format(TimestampLayout),
	}
	if order.Items == nil {
		order.Items = []cart.Line{}
	}

	w.order = &order
	w.phase = PhaseSuccess
	w.fields = map[Step]Fields{}
	return order, nil
}

// Close hides the wizard. A placed order stays readable until the next Open.
func (w *Wizard) Close() {
	w.phase = PhaseClosed
}

func (w *Wizard) Phase() Phase { return w.phase }

func (w *Wizard) Step() Step { return w.step }

// Order returns the order placed by the last successful Submit.
func (w *Wizard) Order() (Order, bool) {
	if w.order == nil {
		return Order{}, false
	}
	return *w.order, true
}

func (w *Wizard) State() State {
	st := State{Phase: w.phase, Step: w.step}
	if w.phase == PhaseSuccess && w.order != nil {
		o := *w.order
		st.Order = &o
	}
	return st
}
