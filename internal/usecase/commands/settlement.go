package commands

import (
	"context"
	"log/slog"

	"digistore/internal/domain/actor"
	reqdto "digistore/internal/handler/dto/request"
	"digistore/internal/infra"
	"digistore/internal/pkg/clock"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/shared"

	"github.com/google/uuid"
)

type VerifyCheckoutResult struct {
	OrderID   string
	Status    string
	Purchases []SettledPurchase
}

type SettledPurchase struct {
	PurchaseID uuid.UUID
	LicenseKey string
	Status     string
}

type SettlementCommands interface {
	// VerifyCheckout polls the provider for the payment outcome. Used by the
	// storefront after redirect; webhooks remain the source of truth when the
	// customer never returns.
	VerifyCheckout(ctx context.Context, customerID uuid.UUID, req reqdto.VerifyCheckoutRequest) (*VerifyCheckoutResult, error)
	// HandleWebhook settles the purchases a verified provider event refers to.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	Refund(ctx context.Context, actorID uuid.UUID, role actor.Role, purchaseID uuid.UUID) error
}

type settlementUseCaseImpl struct {
	uow     shared.UnitOfWork
	gateway shared.PaymentGateway
	cache   ValidationCache
	clock   clock.Clock
}

func NewSettlementUseCase(
	uow shared.UnitOfWork,
	gateway shared.PaymentGateway,
	cache ValidationCache,
	clock clock.Clock,
) SettlementCommands {
	return &settlementUseCaseImpl{
		uow:     uow,
		gateway: gateway,
		cache:   cache,
		clock:   clock,
	}
}

func (s *settlementUseCaseImpl) VerifyCheckout(
	ctx context.Context,
	customerID uuid.UUID,
	req reqdto.VerifyCheckoutRequest,
) (*VerifyCheckoutResult, error) {
	snaps, err := s.uow.CommandReads().PurchasesByProviderOrder(ctx, req.OrderID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(snaps) == 0 {
		return nil, errs.ErrOrderNotFound
	}
	for _, snap := range snaps {
		if snap.CustomerID != customerID {
			return nil, errs.ErrOrderNotFound
		}
	}

	payment, err := s.gateway.RetrievePayment(ctx, req.PaymentID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrGatewayFailure)
	}
	if payment.OrderID != "" && payment.OrderID != req.OrderID {
		return nil, errs.ErrOrderNotFound
	}

	switch payment.Status {
	case shared.PaymentStatusCaptured:
		if err := s.settleOrder(ctx, req.OrderID, payment.PaymentID); err != nil {
			return nil, err
		}
	case shared.PaymentStatusFailed:
		if err := s.failOrder(ctx, req.OrderID); err != nil {
			return nil, err
		}
	case shared.PaymentStatusCreated:
		return nil, errs.ErrPaymentNotCleared
	}

	return s.buildVerifyResult(ctx, req.OrderID)
}

func (s *settlementUseCaseImpl) buildVerifyResult(ctx context.Context, orderID string) (*VerifyCheckoutResult, error) {
	snaps, err := s.uow.CommandReads().PurchasesByProviderOrder(ctx, orderID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	result := &VerifyCheckoutResult{OrderID: orderID}
	for _, snap := range snaps {
		result.Status = snap.Status
		result.Purchases = append(result.Purchases, SettledPurchase{
			PurchaseID: snap.ID,
			LicenseKey: snap.LicenseKey,
			Status:     snap.Status,
		})
	}
	return result, nil
}

func (s *settlementUseCaseImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}

	switch event.EventType {
	case shared.EventPaymentCaptured:
		if event.PurchaseID != nil {
			return s.settlePurchase(ctx, *event.PurchaseID, event.PaymentID)
		}
		return s.settleOrder(ctx, event.OrderID, event.PaymentID)
	case shared.EventPaymentFailed:
		if event.PurchaseID != nil {
			return s.failPurchase(ctx, *event.PurchaseID)
		}
		return s.failOrder(ctx, event.OrderID)
	default:
		return errs.New("unsupported webhook event type: " + event.EventType)
	}
}

// settleOrder completes every purchase stamped with the provider order.
// Completion is a conditional update, so a replayed webhook finds no PENDING
// rows and runs no side effects.
func (s *settlementUseCaseImpl) settleOrder(ctx context.Context, orderID, transactionID string) error {
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snaps, err := tx.Reads().PurchasesByProviderOrder(ctx, orderID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if len(snaps) == 0 {
			return errs.ErrOrderNotFound
		}
		for _, snap := range snaps {
			if err := s.completeOne(ctx, tx, snap, transactionID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *settlementUseCaseImpl) settlePurchase(ctx context.Context, purchaseID uuid.UUID, transactionID string) error {
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().PurchaseByID(ctx, purchaseID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrPurchaseNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return s.completeOne(ctx, tx, snap, transactionID)
	})
}

func (s *settlementUseCaseImpl) completeOne(ctx context.Context, tx shared.Tx, snap *shared.PurchaseSnapshot, transactionID string) error {
	won, err := tx.Purchases().Complete(ctx, tx.DB(), snap.ID, transactionID, s.clock.Now())
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !won {
		slog.Info("purchase already settled, skipping side effects", "purchase_id", snap.ID)
		return nil
	}

	if snap.DiscountCodeID != nil && snap.DiscountAmountCents > 0 {
		incremented, err := tx.Discounts().IncrementUsage(ctx, tx.DB(), *snap.DiscountCodeID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !incremented {
			// The code ran out between checkout and capture. The customer
			// already paid the discounted amount, so the purchase stands.
			slog.Warn("discount usage limit exceeded at settlement",
				"purchase_id", snap.ID,
				"discount_code_id", *snap.DiscountCodeID)
		}
	}
	return nil
}

func (s *settlementUseCaseImpl) failOrder(ctx context.Context, orderID string) error {
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snaps, err := tx.Reads().PurchasesByProviderOrder(ctx, orderID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if len(snaps) == 0 {
			return errs.ErrOrderNotFound
		}
		for _, snap := range snaps {
			if _, err := tx.Purchases().Fail(ctx, tx.DB(), snap.ID); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		return nil
	})
}

func (s *settlementUseCaseImpl) failPurchase(ctx context.Context, purchaseID uuid.UUID) error {
	return s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Purchases().Fail(ctx, tx.DB(), purchaseID); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// Refund moves a COMPLETED purchase to REFUNDED and cuts off its license.
// Only the creator who sold the product or an admin may refund.
func (s *settlementUseCaseImpl) Refund(ctx context.Context, actorID uuid.UUID, role actor.Role, purchaseID uuid.UUID) error {
	snap, err := s.uow.CommandReads().PurchaseByID(ctx, purchaseID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrPurchaseNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if role != actor.RoleAdmin && snap.CreatorID != actorID {
		return errs.ErrNotResourceOwner
	}

	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		refunded, err := tx.Purchases().Refund(ctx, tx.DB(), purchaseID, s.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !refunded {
			return errs.ErrNotRefundable
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, snap.LicenseKey)
	return nil
}
