package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/storefront-api/internal/apperr"
	"github.com/example/storefront-api/internal/events"
	"github.com/example/storefront-api/internal/model"
	"github.com/example/storefront-api/internal/money"
	"github.com/example/storefront-api/internal/payment"
	"github.com/example/storefront-api/internal/store"
)

// Settlement anomalies that are acknowledged rather than retried: the
// gateway redelivering the event cannot fix them, so a human has to.
var (
	errAlreadySettled = errors.New("payment already settled")
	errCartGone       = errors.New("cart missing or no longer active")
	errStockExhausted = errors.New("insufficient stock at settlement")
)

// HandleWebhook verifies and settles one raw gateway webhook delivery.
// The signature is checked over the exact raw bytes before anything is
// parsed or written. A nil return acknowledges the event; an error
// tells the caller to respond 5xx so the gateway redelivers.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	if err := payment.VerifySignature(payload, sigHeader, s.cfg.WebhookSecret, payment.DefaultTolerance); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid webhook signature", err)
	}

	ev, err := payment.ParseEvent(payload)
	if err != nil {
		return apperr.Wrap(apperr.Validation, "malformed webhook payload", err)
	}

	switch ev.Type {
	case payment.EventCheckoutSessionCompleted:
		return s.settle(ctx, ev)
	case payment.EventCheckoutSessionExpired:
		log.Printf("[Settlement] session %s expired, nothing to do", ev.Data.Object.ID)
		return nil
	default:
		log.Printf("[Settlement] ignoring event %s of type %s", ev.ID, ev.Type)
		return nil
	}
}

// settle turns a completed payment session into an order. The money has
// already been captured, so every anomaly that redelivery cannot cure is
// acknowledged after logging; only genuine infrastructure failures
// propagate so the gateway retries.
func (s *Service) settle(ctx context.Context, ev *payment.Event) error {
	session := ev.Data.Object

	if session.PaymentStatus != "" && session.PaymentStatus != "paid" {
		log.Printf("[Settlement] session %s completed but payment status is %q, ignoring",
			session.ID, session.PaymentStatus)
		return nil
	}

	userID := session.Metadata[payment.MetadataUserID]
	cartID := session.Metadata[payment.MetadataCartID]
	if userID == "" || cartID == "" {
		log.Printf("[Settlement] event %s (payment %s) carries no correlation metadata, needs manual intervention",
			ev.ID, session.PaymentID)
		return nil
	}

	// Duplicate delivery check. The unique constraint on the gateway
	// payment id inside the transaction is the authoritative guard;
	// this read just keeps redeliveries quiet.
	if _, err := s.gateway.TransactionByGatewayID(ctx, session.PaymentID); err == nil {
		log.Printf("[Settlement] payment %s already settled, acknowledging duplicate", session.PaymentID)
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return apperr.Wrap(apperr.Internal, "settlement lookup failed", err)
	}

	var order *model.Order
	err := s.gateway.InTx(ctx, func(tx store.Tx) error {
		c, err := tx.CartByID(ctx, cartID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return errCartGone
			}
			return err
		}
		if c.Status != model.CartActive || len(c.Items) == 0 {
			return errCartGone
		}

		for _, it := range c.Items {
			ok, err := tx.DecrementStock(ctx, it.VariantID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return errStockExhausted
			}
		}

		// The gateway captured exactly the line totals, so no shipping
		// fee or tax is added on top here.
		order = buildOrder(userID, c, "", "card", "", decimal.Zero, decimal.Zero)
		order.Status = model.OrderProcessing
		order.FinancialStatus = model.FinancialPaid
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.InsertLineItems(ctx, order.LineItems); err != nil {
			return err
		}
		if err := tx.InsertTransaction(ctx, &model.OrderTransaction{
			ID:               uuid.NewString(),
			OrderID:          order.ID,
			GatewayPaymentID: session.PaymentID,
			Status:           "captured",
			Amount:           money.FromMinorUnits(session.AmountTotal),
			CreatedAt:        time.Now().UTC(),
		}); err != nil {
			if store.IsUniqueViolation(err) {
				return errAlreadySettled
			}
			return err
		}

		if err := tx.DeleteCartItems(ctx, c.ID); err != nil {
			return err
		}
		won, err := tx.CompleteCart(ctx, c.ID, order.ID, order.CreatedAt)
		if err != nil {
			return err
		}
		if !won {
			return errCartGone
		}
		return nil
	})

	switch {
	case err == nil:
		log.Printf("[Settlement] payment %s settled into order %s", session.PaymentID, order.OrderNumber)
		s.publishSettled(ctx, order, session.PaymentID)
		return nil
	case errors.Is(err, errAlreadySettled):
		log.Printf("[Settlement] payment %s already settled, acknowledging duplicate", session.PaymentID)
		return nil
	case errors.Is(err, errCartGone):
		log.Printf("[Settlement] payment %s captured but cart %s is missing or already completed, acknowledging",
			session.PaymentID, cartID)
		return nil
	case errors.Is(err, errStockExhausted):
		log.Printf("[Settlement] payment %s captured but stock ran out for cart %s, needs manual intervention",
			session.PaymentID, cartID)
		s.publishSettlementFailed(ctx, userID, cartID, session.PaymentID, "insufficient stock at settlement")
		return nil
	default:
		return apperr.Wrap(apperr.Internal, "settlement failed", err)
	}
}

func (s *Service) publishSettled(ctx context.Context, order *model.Order, paymentID string) {
	if s.publisher == nil {
		return
	}
	evt := events.OrderSettled{
		OrderID:          order.ID,
		OrderNumber:      order.OrderNumber,
		UserID:           order.UserID,
		Email:            s.userEmail(ctx, order.UserID),
		GatewayPaymentID: paymentID,
		Total:            order.Total,
		Lines:            eventLines(order.LineItems),
	}
	if err := s.publisher.Publish(ctx, events.TopicOrderSettled, order.ID, evt); err != nil {
		log.Printf("[Settlement] failed to publish %s for order %s: %v", events.TopicOrderSettled, order.ID, err)
	}
}

func (s *Service) publishSettlementFailed(ctx context.Context, userID, cartID, paymentID, reason string) {
	if s.publisher == nil {
		return
	}
	evt := events.SettlementFailed{
		UserID:           userID,
		CartID:           cartID,
		GatewayPaymentID: paymentID,
		Reason:           reason,
	}
	if err := s.publisher.Publish(ctx, events.TopicSettlementFailed, cartID, evt); err != nil {
		log.Printf("[Settlement] failed to publish %s for cart %s: %v", events.TopicSettlementFailed, cartID, err)
	}
}
