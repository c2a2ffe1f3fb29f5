package storefront

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/imrishuroy/go-storefront/internal/validation"
	"github.com/imrishuroy/go-storefront/internal/webhook"
)

// SubscribeNewsletter validates the address, waits the form delay and confirms. Nothing is sent
// anywhere.
func (s *Session) SubscribeNewsletter(ctx context.Context, req validation.NewsletterRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateForm(req); err != nil {
		return err
	}
	if err := s.app.sleep(ctx, s.app.cfg.Checkout.FormSubmitDelay); err != nil {
		s.notes.Error(msgSubscribeFailed)
		return fmt.Errorf("subscribe: %w", err)
	}
	s.app.logger.Info("newsletter subscription", zap.String("session_id", s.ID))
	s.notes.Success(msgSubscribed)
	return nil
}

// SendContactMessage validates the message, waits the form delay and confirms.
func (s *Session) SendContactMessage(ctx context.Context, req validation.ContactMessageRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateForm(req); err != nil {
		return err
	}
	if err := s.app.sleep(ctx, s.app.cfg.Checkout.FormSubmitDelay); err != nil {
		s.notes.Error(msgMessageFailed)
		return fmt.Errorf("contact message: %w", err)
	}
	s.app.logger.Info("contact message received",
		zap.String("session_id", s.ID),
		zap.String("subject", s.app.clean(req.Subject)),
	)
	s.notes.Success(msgMessageSent)
	return nil
}

// SubmitReturn forwards a return request to the return webhook.
func (s *Session) SubmitReturn(ctx context.Context, req validation.ReturnRequest) (webhook.ReturnRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateForm(req); err != nil {
		return webhook.ReturnRequest{}, err
	}
	record := webhook.ReturnRequest{
		OrderID:     s.app.clean(req.OrderID),
		Email:       req.Email,
		Reason:      s.app.clean(req.Reason),
		Description: s.app.clean(req.Description),
		Timestamp:   s.app.timestamp(),
	}
	s.app.deliver(ctx, s.app.targets.returns, record)
	s.notes.Success(msgReturnSubmitted)
	return record, nil
}

// SubmitExchange forwards an exchange request to the exchange webhook.
func (s *Session) SubmitExchange(ctx context.Context, req validation.ExchangeRequest) (webhook.ExchangeRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateForm(req); err != nil {
		return webhook.ExchangeRequest{}, err
	}
	record := webhook.ExchangeRequest{
		OrderID:     s.app.clean(req.OrderID),
		Email:       req.Email,
		Reason:      s.app.clean(req.Reason),
		NewSize:     s.app.clean(req.NewSize),
		Description: s.app.clean(req.Description),
		Timestamp:   s.app.timestamp(),
	}
	s.app.deliver(ctx, s.app.targets.exchange, record)
	s.notes.Success(msgExchangeSubmitted)
	return record, nil
}
