package commands

import (
	"context"

	"digistore/internal/domain/actor"
	"digistore/internal/domain/license"
	"digistore/internal/domain/purchase"
	reqdto "digistore/internal/handler/dto/request"
	"digistore/internal/infra"
	"digistore/internal/pkg/clock"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/shared"

	"github.com/google/uuid"
)

// Validation rejection reasons surfaced to API clients.
const (
	ReasonLicenseNotFound     = "license_not_found"
	ReasonPaymentPending      = "payment_pending"
	ReasonPaymentFailed       = "payment_failed"
	ReasonRefunded            = "refunded"
	ReasonMachineNotActivated = "machine_not_activated"
)

type LicenseValidationResult struct {
	Valid             bool       `json:"valid"`
	Reason            string     `json:"reason,omitempty"`
	PurchaseID        *uuid.UUID `json:"purchase_id,omitempty"`
	ProductID         *uuid.UUID `json:"product_id,omitempty"`
	CustomerID        *uuid.UUID `json:"customer_id,omitempty"`
	Status            string     `json:"status,omitempty"`
	ActiveActivations int32      `json:"active_activations"`
	ActivationLimit   int32      `json:"activation_limit"`
}

// ValidationCache is the read-through cache in front of license validation.
// Implementations degrade to a miss on backend trouble; they never fail the
// request.
type ValidationCache interface {
	Get(ctx context.Context, licenseKey string) (*LicenseValidationResult, bool)
	Set(ctx context.Context, licenseKey string, result *LicenseValidationResult)
	Invalidate(ctx context.Context, licenseKey string)
}

type ActivationResult struct {
	ActivationID uuid.UUID
	LicenseKey   string
	MachineID    string
	IsReplayed   bool
}

type RevokeResult struct {
	DeactivatedCount int64
}

type LicenseCommands interface {
	Validate(ctx context.Context, req reqdto.ValidateLicenseRequest) (*LicenseValidationResult, error)
	Activate(ctx context.Context, req reqdto.ActivateLicenseRequest) (*ActivationResult, error)
	Deactivate(ctx context.Context, req reqdto.DeactivateLicenseRequest) error
	// Revoke deactivates every device holding the key. Creator or admin only.
	Revoke(ctx context.Context, actorID uuid.UUID, role actor.Role, licenseKey string) (*RevokeResult, error)
}

type licenseUseCaseImpl struct {
	uow             shared.UnitOfWork
	cache           ValidationCache
	activationLimit int32
	clock           clock.Clock
}

func NewLicenseUseCase(
	uow shared.UnitOfWork,
	cache ValidationCache,
	activationLimit int32,
	clock clock.Clock,
) LicenseCommands {
	if activationLimit <= 0 {
		activationLimit = license.DefaultActivationLimit
	}
	return &licenseUseCaseImpl{
		uow:             uow,
		cache:           cache,
		activationLimit: activationLimit,
		clock:           clock,
	}
}

func (l *licenseUseCaseImpl) Validate(ctx context.Context, req reqdto.ValidateLicenseRequest) (*LicenseValidationResult, error) {
	key, err := license.NewKey(req.LicenseKey)
	if err != nil {
		return &LicenseValidationResult{
			Valid:           false,
			Reason:          ReasonLicenseNotFound,
			ActivationLimit: l.activationLimit,
		}, nil
	}

	result, cached := l.lookupValidation(ctx, key.String())
	if !cached {
		var err error
		result, err = l.validateAgainstLedger(ctx, key.String())
		if err != nil {
			return nil, err
		}
		l.cache.Set(ctx, key.String(), result)
	}

	// Machine membership is checked outside the cache so one cached entry
	// serves every device asking about the same key.
	if result.Valid && req.MachineID != nil {
		if _, err := l.uow.CommandReads().ActiveActivation(ctx, key.String(), *req.MachineID); err != nil {
			if !infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			miss := *result
			miss.Valid = false
			miss.Reason = ReasonMachineNotActivated
			return &miss, nil
		}
	}

	return result, nil
}

func (l *licenseUseCaseImpl) lookupValidation(ctx context.Context, key string) (*LicenseValidationResult, bool) {
	return l.cache.Get(ctx, key)
}

func (l *licenseUseCaseImpl) validateAgainstLedger(ctx context.Context, key string) (*LicenseValidationResult, error) {
	reads := l.uow.CommandReads()

	snap, err := reads.PurchaseByLicenseKey(ctx, key)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &LicenseValidationResult{
				Valid:           false,
				Reason:          ReasonLicenseNotFound,
				ActivationLimit: l.activationLimit,
			}, nil
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	result := &LicenseValidationResult{
		PurchaseID:      &snap.ID,
		ProductID:       &snap.ProductID,
		CustomerID:      &snap.CustomerID,
		Status:          snap.Status,
		ActivationLimit: l.activationLimit,
	}

	switch purchase.Status(snap.Status) {
	case purchase.StatusCompleted:
		result.Valid = true
	case purchase.StatusPending:
		result.Reason = ReasonPaymentPending
	case purchase.StatusRefunded:
		result.Reason = ReasonRefunded
	default:
		result.Reason = ReasonPaymentFailed
	}

	count, err := reads.ActiveActivationCount(ctx, key)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	result.ActiveActivations = count

	return result, nil
}

func (l *licenseUseCaseImpl) Activate(ctx context.Context, req reqdto.ActivateLicenseRequest) (*ActivationResult, error) {
	key, err := license.NewKey(req.LicenseKey)
	if err != nil {
		return nil, errs.ErrLicenseNotFound
	}

	snap, err := l.uow.CommandReads().PurchaseByLicenseKey(ctx, key.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrLicenseNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if purchase.Status(snap.Status) != purchase.StatusCompleted {
		return nil, errs.ErrLicenseNotValid
	}

	var result *ActivationResult
	err = l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Serialize activations per key. At READ COMMITTED two transactions
		// activating distinct machines would both see the same active count
		// and the guarded insert could overshoot the limit.
		if _, err := tx.DB().Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtext($1))`, key.String()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		// Re-activation of the same machine is an idempotent success.
		existing, err := tx.Reads().ActiveActivation(ctx, key.String(), req.MachineID)
		if err == nil {
			result = &ActivationResult{
				ActivationID: existing.ID,
				LicenseKey:   key.String(),
				MachineID:    req.MachineID,
				IsReplayed:   true,
			}
			return nil
		}
		if !infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		act, err := license.NewActivation(key, req.MachineID, license.DeviceInfo{
			DeviceName: req.DeviceName,
			OSInfo:     req.OSInfo,
			IPAddress:  req.IPAddress,
		}, l.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		inserted, err := tx.Activations().InsertWithLimit(ctx, tx.DB(), act, l.activationLimit)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				// Lost a concurrent race activating the same machine.
				replay, readErr := tx.Reads().ActiveActivation(ctx, key.String(), req.MachineID)
				if readErr != nil {
					return errs.Mark(readErr, errs.ErrDatabaseOperationFailed)
				}
				result = &ActivationResult{
					ActivationID: replay.ID,
					LicenseKey:   key.String(),
					MachineID:    req.MachineID,
					IsReplayed:   true,
				}
				return nil
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !inserted {
			return errs.ErrActivationLimitReached
		}

		result = &ActivationResult{
			ActivationID: act.ID(),
			LicenseKey:   key.String(),
			MachineID:    req.MachineID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.IsReplayed {
		l.cache.Invalidate(ctx, key.String())
	}
	return result, nil
}

func (l *licenseUseCaseImpl) Deactivate(ctx context.Context, req reqdto.DeactivateLicenseRequest) error {
	key, err := license.NewKey(req.LicenseKey)
	if err != nil {
		return errs.ErrLicenseNotFound
	}

	err = l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, err := tx.Activations().Deactivate(ctx, tx.DB(), key.String(), req.MachineID, l.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !ok {
			return errs.ErrActivationNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.cache.Invalidate(ctx, key.String())
	return nil
}

func (l *licenseUseCaseImpl) Revoke(ctx context.Context, actorID uuid.UUID, role actor.Role, licenseKey string) (*RevokeResult, error) {
	key, err := license.NewKey(licenseKey)
	if err != nil {
		return nil, errs.ErrLicenseNotFound
	}

	snap, err := l.uow.CommandReads().PurchaseByLicenseKey(ctx, key.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrLicenseNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if role != actor.RoleAdmin && snap.CreatorID != actorID {
		return nil, errs.ErrNotResourceOwner
	}

	var count int64
	err = l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		count, err = tx.Activations().DeactivateAll(ctx, tx.DB(), key.String(), l.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.cache.Invalidate(ctx, key.String())
	return &RevokeResult{DeactivatedCount: count}, nil
}
