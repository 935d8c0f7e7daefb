package commands

import (
	"context"
	"errors"

	"digistore/internal/domain/payout"
	reqdto "digistore/internal/handler/dto/request"
	"digistore/internal/pkg/clock"
	"digistore/internal/pkg/config"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/shared"

	"github.com/google/uuid"
)

type PayoutResult struct {
	PayoutID       uuid.UUID
	AmountCents    int64
	Currency       string
	Status         string
	AvailableCents int64
}

type PayoutCommands interface {
	// RequestPayout withdraws from the creator's available balance. A nil
	// amount withdraws the whole balance.
	RequestPayout(ctx context.Context, creatorID uuid.UUID, req reqdto.RequestPayoutRequest) (*PayoutResult, error)
}

type payoutUseCaseImpl struct {
	uow        shared.UnitOfWork
	settlement config.SettlementConfig
	clock      clock.Clock
}

func NewPayoutUseCase(
	uow shared.UnitOfWork,
	settlement config.SettlementConfig,
	clock clock.Clock,
) PayoutCommands {
	return &payoutUseCaseImpl{
		uow:        uow,
		settlement: settlement,
		clock:      clock,
	}
}

func (p *payoutUseCaseImpl) RequestPayout(
	ctx context.Context,
	creatorID uuid.UUID,
	req reqdto.RequestPayoutRequest,
) (*PayoutResult, error) {
	var result *PayoutResult
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Serialize concurrent withdrawals per creator so two requests cannot
		// both read the same balance.
		if _, err := tx.DB().Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtext($1))`, creatorID.String()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		ledger, err := tx.Reads().CreatorLedger(ctx, creatorID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		available := ledger.AvailableCents()
		amount := available
		if req.AmountCents != nil {
			amount = *req.AmountCents
		}

		entity, err := payout.NewPayout(creatorID, amount, available, p.settlement.Currency)
		if err != nil {
			switch {
			case errors.Is(err, payout.ErrBelowMinimum):
				return errs.Mark(err, errs.ErrPayoutBelowMinimum)
			case errors.Is(err, payout.ErrInsufficientBalance):
				return errs.Mark(err, errs.ErrPayoutExceedsBalance)
			default:
				return errs.Mark(err, errs.ErrDomainValidation)
			}
		}

		if _, err := tx.Payouts().Create(ctx, tx.DB(), entity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		result = &PayoutResult{
			PayoutID:       entity.ID(),
			AmountCents:    entity.AmountCents(),
			Currency:       entity.Currency(),
			Status:         entity.Status().String(),
			AvailableCents: available - entity.AmountCents(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
