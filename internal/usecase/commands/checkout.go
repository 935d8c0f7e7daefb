package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"digistore/internal/domain/discount"
	"digistore/internal/domain/purchase"
	reqdto "digistore/internal/handler/dto/request"
	"digistore/internal/infra"
	"digistore/internal/pkg/clock"
	"digistore/internal/pkg/config"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/shared"

	"github.com/google/uuid"
)

type CheckoutLine struct {
	PurchaseID  uuid.UUID  `json:"purchase_id"`
	ProductID   uuid.UUID  `json:"product_id"`
	VariantID   *uuid.UUID `json:"variant_id,omitempty"`
	AmountCents int64      `json:"amount_cents"`
}

type CheckoutResult struct {
	OrderID        string
	Provider       string
	TotalCents     int64
	DiscountCents  int64
	Currency       string
	Lines          []CheckoutLine
	PaymentPending bool
}

type DiscountPreview struct {
	Valid          bool
	Code           string
	Kind           string
	Value          int64
	AmountOffCents *int64
	Reason         *string
}

type CheckoutCommands interface {
	Checkout(ctx context.Context, customerID uuid.UUID, req reqdto.CheckoutRequest) (*CheckoutResult, error)
	ValidateDiscount(ctx context.Context, req reqdto.ValidateDiscountRequest) (*DiscountPreview, error)
}

type checkoutUseCaseImpl struct {
	uow        shared.UnitOfWork
	gateway    shared.PaymentGateway
	settlement config.SettlementConfig
	provider   string
	clock      clock.Clock
}

func NewCheckoutUseCase(
	uow shared.UnitOfWork,
	gateway shared.PaymentGateway,
	settlement config.SettlementConfig,
	provider string,
	clock clock.Clock,
) CheckoutCommands {
	return &checkoutUseCaseImpl{
		uow:        uow,
		gateway:    gateway,
		settlement: settlement,
		provider:   provider,
		clock:      clock,
	}
}

func (c *checkoutUseCaseImpl) Checkout(
	ctx context.Context,
	customerID uuid.UUID,
	req reqdto.CheckoutRequest,
) (*CheckoutResult, error) {
	reads := c.uow.CommandReads()
	now := c.clock.Now()

	disc, err := c.resolveDiscount(ctx, reads, req.GetDiscountCode())
	if err != nil {
		return nil, err
	}

	lines, currency, err := c.buildCart(ctx, reads, req.Items, disc)
	if err != nil {
		return nil, err
	}

	if disc != nil {
		if err := c.validateCartDiscount(disc, lines, now); err != nil {
			return nil, err
		}
	}

	var value *discount.Value
	if disc != nil {
		v := disc.Value()
		value = &v
	}
	priced, err := purchase.PriceCart(lines, value)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	purchases := make([]*purchase.Purchase, 0, len(priced))
	var totalCents, discountCents int64
	for _, line := range priced {
		params := purchase.NewPurchaseParams{
			CustomerID:          customerID,
			ProductID:           line.ProductID,
			VariantID:           line.VariantID,
			CreatorID:           line.CreatorID,
			Provider:            c.gatewayProvider(),
			PriceCents:          line.PriceCents,
			Currency:            currency,
			FeePercent:          c.settlement.FeePercent,
			DiscountAmountCents: line.DiscountCents,
		}
		if disc != nil && line.DiscountCents > 0 {
			id := disc.ID()
			params.DiscountCodeID = &id
		}
		p, err := purchase.NewPurchase(params)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
		purchases = append(purchases, p)
		totalCents += p.AmountCents()
		discountCents += line.DiscountCents
	}

	if err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, p := range purchases {
			if _, err := tx.Purchases().Create(ctx, tx.DB(), p); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(purchases))
	for i, p := range purchases {
		ids[i] = p.ID()
	}

	orderID, err := c.gateway.CreateOrder(ctx, totalCents, currency, purchases[0].ID().String())
	if err != nil {
		return c.handleOrderFailure(ctx, ids, purchases, totalCents, discountCents, currency, err)
	}

	if err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Purchases().AttachProviderOrder(ctx, tx.DB(), ids, orderID)
	}); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return c.buildResult(orderID, purchases, totalCents, discountCents, currency, false), nil
}

// handleOrderFailure splits provider rejection from provider silence. A
// definitive rejection fails the pending rows; a timeout leaves them PENDING
// for webhook or verify-poll reconciliation.
func (c *checkoutUseCaseImpl) handleOrderFailure(
	ctx context.Context,
	ids []uuid.UUID,
	purchases []*purchase.Purchase,
	totalCents, discountCents int64,
	currency string,
	gatewayErr error,
) (*CheckoutResult, error) {
	if errors.Is(gatewayErr, context.DeadlineExceeded) || ctx.Err() != nil {
		slog.Warn("gateway order creation timed out, leaving purchases pending",
			"purchase_count", len(ids),
			"error", gatewayErr.Error())
		return c.buildResult("", purchases, totalCents, discountCents, currency, true), nil
	}

	failCtx := context.WithoutCancel(ctx)
	if err := c.uow.Within(failCtx, func(ctx context.Context, tx shared.Tx) error {
		for _, id := range ids {
			if _, err := tx.Purchases().Fail(ctx, tx.DB(), id); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		slog.Error("failed to mark purchases failed after gateway rejection", "error", err.Error())
	}

	return nil, errs.Mark(gatewayErr, errs.ErrGatewayFailure)
}

func (c *checkoutUseCaseImpl) buildResult(
	orderID string,
	purchases []*purchase.Purchase,
	totalCents, discountCents int64,
	currency string,
	pending bool,
) *CheckoutResult {
	lines := make([]CheckoutLine, len(purchases))
	for i, p := range purchases {
		lines[i] = CheckoutLine{
			PurchaseID:  p.ID(),
			ProductID:   p.ProductID(),
			VariantID:   p.VariantID(),
			AmountCents: p.AmountCents(),
		}
	}
	return &CheckoutResult{
		OrderID:        orderID,
		Provider:       c.gatewayProvider(),
		TotalCents:     totalCents,
		DiscountCents:  discountCents,
		Currency:       currency,
		Lines:          lines,
		PaymentPending: pending,
	}
}

func (c *checkoutUseCaseImpl) gatewayProvider() string {
	return c.provider
}

func (c *checkoutUseCaseImpl) resolveDiscount(
	ctx context.Context,
	reads shared.CommandReads,
	code *string,
) (*discount.DiscountCode, error) {
	if code == nil {
		return nil, nil
	}

	normalized, err := discount.NewCode(*code)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDiscountNotFound)
	}

	snap, err := reads.DiscountByCode(ctx, normalized.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrDiscountNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return discountFromSnapshot(snap)
}

func (c *checkoutUseCaseImpl) buildCart(
	ctx context.Context,
	reads shared.CommandReads,
	items []reqdto.CheckoutItem,
	disc *discount.DiscountCode,
) ([]purchase.CartLine, string, error) {
	lines := make([]purchase.CartLine, 0, len(items))
	var currency string

	for _, item := range items {
		product, err := reads.ProductByID(ctx, item.ProductID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, "", errs.ErrProductNotFound
			}
			return nil, "", errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !product.IsActive {
			return nil, "", errs.ErrProductNotFound
		}

		if currency == "" {
			currency = product.Currency
		} else if currency != product.Currency {
			return nil, "", errs.Mark(errs.New("cart mixes currencies"), errs.ErrDomainValidation)
		}

		price := product.PriceCents
		if item.VariantID != nil {
			variant, err := reads.VariantByID(ctx, *item.VariantID)
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return nil, "", errs.ErrVariantNotFound
				}
				return nil, "", errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if variant.ProductID != product.ID {
				return nil, "", errs.ErrVariantNotFound
			}
			price = variant.PriceCents
		}

		lines = append(lines, purchase.CartLine{
			ProductID:        product.ID,
			VariantID:        item.VariantID,
			CreatorID:        product.CreatorID,
			PriceCents:       price,
			DiscountEligible: discountApplies(disc, product.ID),
		})
	}

	return lines, currency, nil
}

func (c *checkoutUseCaseImpl) validateCartDiscount(
	disc *discount.DiscountCode,
	lines []purchase.CartLine,
	now time.Time,
) error {
	var eligibleProduct *uuid.UUID
	if disc.AppliesTo() == discount.AppliesToProducts {
		for _, line := range lines {
			if line.DiscountEligible {
				id := line.ProductID
				eligibleProduct = &id
				break
			}
		}
		if eligibleProduct == nil {
			return errs.Mark(discount.ErrCodeNotForItem, errs.ErrDiscountNotUsable)
		}
	}

	if err := disc.ValidateFor(eligibleProduct, now); err != nil {
		if errors.Is(err, discount.ErrCodeExhausted) {
			return errs.Mark(err, errs.ErrDiscountExhausted)
		}
		return errs.Mark(err, errs.ErrDiscountNotUsable)
	}
	return nil
}

func (c *checkoutUseCaseImpl) ValidateDiscount(
	ctx context.Context,
	req reqdto.ValidateDiscountRequest,
) (*DiscountPreview, error) {
	disc, err := c.resolveDiscount(ctx, c.uow.CommandReads(), &req.Code)
	if err != nil {
		return nil, err
	}

	preview := &DiscountPreview{
		Code:  disc.Code().String(),
		Kind:  disc.Value().Kind().String(),
		Value: disc.Value().Amount(),
	}

	if err := disc.ValidateFor(req.ProductID, c.clock.Now()); err != nil {
		reason := err.Error()
		preview.Reason = &reason
		return preview, nil
	}

	preview.Valid = true
	if req.PriceCents != nil {
		off := disc.AmountOff(*req.PriceCents)
		preview.AmountOffCents = &off
	}
	return preview, nil
}

func discountApplies(disc *discount.DiscountCode, productID uuid.UUID) bool {
	if disc == nil {
		return false
	}
	if disc.AppliesTo() == discount.AppliesToAll {
		return true
	}
	for _, id := range disc.ProductIDs() {
		if id == productID {
			return true
		}
	}
	return false
}

// discountFromSnapshot rebuilds the domain entity from a read-side row.
func discountFromSnapshot(snap *shared.DiscountSnapshot) (*discount.DiscountCode, error) {
	code, err := discount.NewCode(snap.Code)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	kind, err := discount.NewKind(snap.Kind)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	value, err := discount.NewValue(kind, snap.Value)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	appliesTo, err := discount.NewAppliesTo(snap.AppliesTo)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	return discount.Reconstruct(
		snap.ID, snap.CreatorID, code, value, appliesTo,
		snap.ProductIDs, snap.UsageLimit, snap.TimesUsed,
		snap.ExpiresAt, snap.IsActive,
		time.Time{}, time.Time{},
	), nil
}
