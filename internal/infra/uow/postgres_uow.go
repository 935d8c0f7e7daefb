package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"digistore/internal/infra/db"
	"digistore/internal/infra/readstore"
	"digistore/internal/infra/repository"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// Mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	purchaseRepo   shared.PurchaseRepository
	discountRepo   shared.DiscountRepository
	activationRepo shared.ActivationRepository
	payoutRepo     shared.PayoutRepository
	commandReads   shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Purchases() shared.PurchaseRepository {
	if t.purchaseRepo == nil {
		t.purchaseRepo = repository.NewPurchaseRepository()
	}
	return t.purchaseRepo
}

func (t *pgTx) Discounts() shared.DiscountRepository {
	if t.discountRepo == nil {
		t.discountRepo = repository.NewDiscountRepository()
	}
	return t.discountRepo
}

func (t *pgTx) Activations() shared.ActivationRepository {
	if t.activationRepo == nil {
		t.activationRepo = repository.NewActivationRepository()
	}
	return t.activationRepo
}

func (t *pgTx) Payouts() shared.PayoutRepository {
	if t.payoutRepo == nil {
		t.payoutRepo = repository.NewPayoutRepository()
	}
	return t.payoutRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized readstores
	catalogStore    *readstore.CatalogReadStore
	discountStore   *readstore.DiscountReadStore
	purchaseStore   *readstore.PurchaseReadStore
	activationStore *readstore.ActivationReadStore
	payoutStore     *readstore.PayoutReadStore
}

func (r *commandReads) catalog() *readstore.CatalogReadStore {
	if r.catalogStore == nil {
		r.catalogStore = readstore.NewCatalogReadStore(r.dbtx)
	}
	return r.catalogStore
}

func (r *commandReads) discounts() *readstore.DiscountReadStore {
	if r.discountStore == nil {
		r.discountStore = readstore.NewDiscountReadStore(r.dbtx)
	}
	return r.discountStore
}

func (r *commandReads) purchases() *readstore.PurchaseReadStore {
	if r.purchaseStore == nil {
		r.purchaseStore = readstore.NewPurchaseReadStore(r.dbtx)
	}
	return r.purchaseStore
}

func (r *commandReads) activations() *readstore.ActivationReadStore {
	if r.activationStore == nil {
		r.activationStore = readstore.NewActivationReadStore(r.dbtx)
	}
	return r.activationStore
}

func (r *commandReads) payouts() *readstore.PayoutReadStore {
	if r.payoutStore == nil {
		r.payoutStore = readstore.NewPayoutReadStore(r.dbtx)
	}
	return r.payoutStore
}

func (r *commandReads) ProductByID(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	return r.catalog().FindProductByID(ctx, id)
}

func (r *commandReads) VariantByID(ctx context.Context, id uuid.UUID) (*shared.VariantSnapshot, error) {
	return r.catalog().FindVariantByID(ctx, id)
}

func (r *commandReads) DiscountByCode(ctx context.Context, code string) (*shared.DiscountSnapshot, error) {
	return r.discounts().FindByCode(ctx, code)
}

func (r *commandReads) PurchaseByID(ctx context.Context, id uuid.UUID) (*shared.PurchaseSnapshot, error) {
	return r.purchases().FindByID(ctx, id)
}

func (r *commandReads) PurchaseByLicenseKey(ctx context.Context, key string) (*shared.PurchaseSnapshot, error) {
	return r.purchases().FindByLicenseKey(ctx, key)
}

func (r *commandReads) PurchasesByProviderOrder(ctx context.Context, orderID string) ([]*shared.PurchaseSnapshot, error) {
	return r.purchases().FindByProviderOrder(ctx, orderID)
}

func (r *commandReads) ActiveActivation(ctx context.Context, key, machineID string) (*shared.ActivationSnapshot, error) {
	return r.activations().FindActive(ctx, key, machineID)
}

func (r *commandReads) ActiveActivationCount(ctx context.Context, key string) (int32, error) {
	return r.activations().ActiveCount(ctx, key)
}

func (r *commandReads) CreatorLedger(ctx context.Context, creatorID uuid.UUID) (*shared.LedgerSnapshot, error) {
	return r.payouts().Ledger(ctx, creatorID)
}
