package storefront

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/imrishuroy/go-storefront/internal/checkout"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

// CheckoutView is the wizard plus the cart it will submit.
type CheckoutView struct {
	checkout.State
	Cart CartView `json:"cart"`
}

func (s *Session) CheckoutState() CheckoutView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkoutView()
}

func (s *Session) checkoutView() CheckoutView {
	return CheckoutView{State: s.wizard.State(), Cart: s.cartView()}
}

// OpenCheckout starts the wizard at the contact step. An empty cart is refused with a warning.
func (s *Session) OpenCheckout() (CheckoutView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wizard.Open(s.store.Count()); err != nil {
		s.notes.Warning(msgCartEmpty)
		return s.checkoutView(), err
	}
	return s.checkoutView(), nil
}

func (s *Session) SubmitContactStep(req validation.ContactStep) (CheckoutView, error) {
	return s.submitStep(checkout.StepContact, req, req.Fields())
}

func (s *Session) SubmitShippingStep(req validation.ShippingStep) (CheckoutView, error) {
	return s.submitStep(checkout.StepShipping, req, req.Fields())
}

// submitStep validates the form of the current step, records it and advances. Invalid input
// leaves the wizard untouched.
func (s *Session) submitStep(step checkout.Step, req any, fields map[string]string) (CheckoutView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wizard.Phase() != checkout.PhaseOpen {
		return s.checkoutView(), checkout.ErrNotOpen
	}
	if s.wizard.Step() != step {
		return s.checkoutView(), fmt.Errorf("%w: at %s, got %s", checkout.ErrWrongStep, s.wizard.Step(), step)
	}
	if err := s.validateForm(req); err != nil {
		return s.checkoutView(), err
	}
	if err := s.wizard.Record(step, s.app.cleanFields(fields)); err != nil {
		return s.checkoutView(), err
	}
	s.wizard.Advance()
	return s.checkoutView(), nil
}

// validateForm runs struct validation and pushes the matching notification on failure.
func (s *Session) validateForm(req any) error {
	err := s.app.validate.Struct(req)
	if err == nil {
		return nil
	}
	switch {
	case validation.HasTagFailure(err, "shopemail"):
		s.notes.Error(msgInvalidEmail)
	case validation.HasTagFailure(err, "phone"):
		s.notes.Error(msgInvalidPhone)
	default:
		s.notes.Error(msgMissingFields)
	}
	return &ValidationError{Fields: validation.FieldErrors(err)}
}

// PreviousStep moves the wizard back one step, stopping at contact.
func (s *Session) PreviousStep() CheckoutView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.Retreat()
	return s.checkoutView()
}

// CloseCheckout hides the wizard. Progress is discarded on the next open.
func (s *Session) CloseCheckout() CheckoutView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.Close()
	return s.checkoutView()
}

// CloseSuccess dismisses the order confirmation. It does nothing unless an order was just placed.
func (s *Session) CloseSuccess() CheckoutView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wizard.Phase() == checkout.PhaseSuccess {
		s.wizard.Close()
	}
	return s.checkoutView()
}

// SubmitOrder places the order from the payment step: it waits the processing delay, assembles
// the order, sends it to the order webhook, clears the cart and shows the confirmation. A failed
// webhook does not fail the order.
func (s *Session) SubmitOrder(ctx context.Context, req validation.PaymentStep) (checkout.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.wizard.Phase() != checkout.PhaseOpen {
		return checkout.Order{}, checkout.ErrNotOpen
	}
	if s.wizard.Step() != checkout.StepPayment {
		return checkout.Order{}, checkout.ErrNotAtPayment
	}
	if err := s.validateForm(req); err != nil {
		return checkout.Order{}, err
	}
	if s.store.Empty() {
		s.notes.Warning(msgCartEmpty)
		s.wizard.Close()
		return checkout.Order{}, checkout.ErrEmptyCart
	}

	if err := s.app.sleep(ctx, s.app.cfg.Checkout.OrderProcessingDelay); err != nil {
		s.notes.Error(msgOrderFailed)
		return checkout.Order{}, fmt.Errorf("process order: %w", err)
	}

	payment := req.Fields()
	payment[checkout.FieldCardName] = s.app.clean(req.CardName)
	order, err := s.wizard.Submit(s.store.Lines(), s.store.Total(), payment)
	if err != nil {
		s.notes.Error(msgOrderFailed)
		return checkout.Order{}, fmt.Errorf("process order: %w", err)
	}

	s.app.deliver(ctx, s.app.targets.order, order)
	s.store.Clear(ctx)
	s.app.count(ctx, MetricOrdersPlaced)
	s.app.logger.Info("order placed",
		zap.String("session_id", s.ID),
		zap.String("order_id", order.ID),
		zap.String("tracking", order.Tracking),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("lines", len(order.Items)),
	)
	return order, nil
}
