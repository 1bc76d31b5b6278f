package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fjod/xpawto-store/internal/checkout"
	"github.com/fjod/xpawto-store/internal/publisher"
)

// HandoffRecorder receives a copy of every handoff. Nil disables recording.
type HandoffRecorder interface {
	Publish(ctx context.Context, event publisher.HandoffEvent) error
}

type Handoff struct {
	Message    string `json:"message"`
	URL        string `json:"url"`
	TotalItems int    `json:"total_items"`
}

type CheckoutService struct {
	carts    *CartService
	phone    string
	recorder HandoffRecorder
}

func NewCheckoutService(carts *CartService, phone string, recorder HandoffRecorder) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		phone:    phone,
		recorder: recorder,
	}
}

// Checkout formats the session's cart for the seller's chat. paymentMethod
// may be empty; when set it must be a known method. The cart is left as is:
// the order is only confirmed once the seller answers in the chat.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID, paymentMethod string) (Handoff, error) {
	var method *checkout.PaymentMethod
	if paymentMethod != "" {
		m, err := checkout.ParsePaymentMethod(paymentMethod)
		if err != nil {
			return Handoff{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		method = &m
	}

	c := s.carts.CurrentCart(ctx, sessionID)
	total := c.TotalQuantity()
	if total == 0 {
		return Handoff{}, fmt.Errorf("%w: %w", ErrValidation, ErrEmptyCart)
	}

	lines := c.Lines()
	message := checkout.BuildOrderMessage(lines, method)
	handoff := Handoff{
		Message:    message,
		URL:        checkout.BuildLink(s.phone, message),
		TotalItems: total,
	}

	if s.recorder != nil {
		event := publisher.HandoffEvent{
			SessionID:  sessionID,
			TotalItems: total,
			CreatedAt:  time.Now().UTC(),
		}
		if method != nil {
			event.PaymentMethod = string(*method)
		}
		for _, l := range lines {
			event.Items = append(event.Items, publisher.HandoffItem{
				ProductID: l.Product.ID,
				Name:      l.Product.Name,
				Price:     l.Product.Price,
				Quantity:  l.Quantity,
			})
		}
		go func() {
			if err := s.recorder.Publish(context.Background(), event); err != nil {
				log.Printf("handoff publish error: %v", err)
			}
		}()
	}

	return handoff, nil
}
