package shared

import (
	"context"
	"time"

	"digistore/internal/domain/license"
	"digistore/internal/domain/payout"
	"digistore/internal/domain/purchase"
	"digistore/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Purchases() PurchaseRepository
	Discounts() DiscountRepository
	Activations() ActivationRepository
	Payouts() PayoutRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ProductByID(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
	VariantByID(ctx context.Context, id uuid.UUID) (*VariantSnapshot, error)
	DiscountByCode(ctx context.Context, code string) (*DiscountSnapshot, error)
	PurchaseByID(ctx context.Context, id uuid.UUID) (*PurchaseSnapshot, error)
	PurchaseByLicenseKey(ctx context.Context, key string) (*PurchaseSnapshot, error)
	PurchasesByProviderOrder(ctx context.Context, orderID string) ([]*PurchaseSnapshot, error)
	ActiveActivation(ctx context.Context, key, machineID string) (*ActivationSnapshot, error)
	ActiveActivationCount(ctx context.Context, key string) (int32, error)
	CreatorLedger(ctx context.Context, creatorID uuid.UUID) (*LedgerSnapshot, error)
}

type PurchaseRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, p *purchase.Purchase) (uuid.UUID, error)
	// AttachProviderOrder stamps the provider order id on freshly created
	// PENDING rows so webhook settlement can find the whole cart.
	AttachProviderOrder(ctx context.Context, dbtx db.DBTX, ids []uuid.UUID, orderID string) error
	// Complete performs the PENDING→COMPLETED transition as a conditional
	// update. The returned flag reports whether this call won the transition;
	// replays see false and must not re-run side effects.
	Complete(ctx context.Context, dbtx db.DBTX, id uuid.UUID, transactionID string, now time.Time) (bool, error)
	Fail(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error)
	Refund(ctx context.Context, dbtx db.DBTX, id uuid.UUID, now time.Time) (bool, error)
}

type DiscountRepository interface {
	// IncrementUsage bumps times_used iff the limit is not exhausted, as one
	// guarded statement. Returns false when the code has no uses left.
	IncrementUsage(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error)
}

type ActivationRepository interface {
	// InsertWithLimit inserts an active record iff the key's active count is
	// below the limit, count-check and insert in a single statement.
	InsertWithLimit(ctx context.Context, dbtx db.DBTX, act *license.Activation, limit int32) (bool, error)
	Deactivate(ctx context.Context, dbtx db.DBTX, key, machineID string, now time.Time) (bool, error)
	DeactivateAll(ctx context.Context, dbtx db.DBTX, key string, now time.Time) (int64, error)
}

type PayoutRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, p *payout.Payout) (uuid.UUID, error)
}
