//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"digistore/internal/domain/actor"
	"digistore/internal/domain/license"
	reqdto "digistore/internal/handler/dto/request"
	"digistore/internal/infra"
	"digistore/internal/pkg/clock"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/commands"
	"digistore/internal/usecase/shared"
	commandsmock "digistore/tests/mock/commands"
	dbmock "digistore/tests/mock/db"
	sharedmock "digistore/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type LicenseUseCaseTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockUow         *sharedmock.MockUnitOfWork
	mockReads       *sharedmock.MockCommandReads
	mockTx          *sharedmock.MockTx
	mockActivations *sharedmock.MockActivationRepository
	mockCache       *commandsmock.MockValidationCache
	mockDB          *dbmock.MockDBTX
	clk             *clock.MockClock

	useCase commands.LicenseCommands
}

const activationLimit = int32(5)

func (s *LicenseUseCaseTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUow = sharedmock.NewMockUnitOfWork(s.mockCtrl)
	s.mockReads = sharedmock.NewMockCommandReads(s.mockCtrl)
	s.mockTx = sharedmock.NewMockTx(s.mockCtrl)
	s.mockActivations = sharedmock.NewMockActivationRepository(s.mockCtrl)
	s.mockCache = commandsmock.NewMockValidationCache(s.mockCtrl)
	s.mockDB = dbmock.NewMockDBTX(s.mockCtrl)
	s.clk = clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	s.mockUow.EXPECT().CommandReads().Return(s.mockReads).AnyTimes()
	s.mockUow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.mockTx)
		}).AnyTimes()
	s.mockTx.EXPECT().DB().Return(s.mockDB).AnyTimes()
	s.mockTx.EXPECT().Activations().Return(s.mockActivations).AnyTimes()
	s.mockTx.EXPECT().Reads().Return(s.mockReads).AnyTimes()

	s.useCase = commands.NewLicenseUseCase(s.mockUow, s.mockCache, activationLimit, s.clk)
}

func (s *LicenseUseCaseTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestLicenseUseCaseSuite(t *testing.T) {
	suite.Run(t, new(LicenseUseCaseTestSuite))
}

func (s *LicenseUseCaseTestSuite) issueKey() string {
	key, err := license.IssueKey()
	s.Require().NoError(err)
	return key.String()
}

func (s *LicenseUseCaseTestSuite) keyedSnap(key, status string) *shared.PurchaseSnapshot {
	return &shared.PurchaseSnapshot{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		ProductID:  uuid.New(),
		CreatorID:  uuid.New(),
		LicenseKey: key,
		Status:     status,
	}
}

func notFoundErr(msg string) error {
	return infra.WrapRepoErr(msg, errs.New("no rows"), infra.KindNotFound)
}

// expectActivationLock matches the per-key advisory lock every activation
// transaction takes before touching the activation rows.
func (s *LicenseUseCaseTestSuite) expectActivationLock(key string) *gomock.Call {
	return s.mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), key).
		Return(pgconn.CommandTag{}, nil).Times(1)
}

func (s *LicenseUseCaseTestSuite) TestValidate() {
	ctx := context.Background()

	s.Run("success: cache miss consults the ledger and fills the cache", func() {
		key := s.issueKey()
		snap := s.keyedSnap(key, "COMPLETED")

		s.mockCache.EXPECT().Get(gomock.Any(), key).Return(nil, false).Times(1)
		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).Return(snap, nil).Times(1)
		s.mockReads.EXPECT().ActiveActivationCount(gomock.Any(), key).Return(int32(2), nil).Times(1)
		s.mockCache.EXPECT().Set(gomock.Any(), key, gomock.Any()).Times(1)

		result, err := s.useCase.Validate(ctx, reqdto.ValidateLicenseRequest{LicenseKey: key})

		s.NoError(err)
		s.True(result.Valid)
		s.Equal(int32(2), result.ActiveActivations)
		s.Equal(activationLimit, result.ActivationLimit)
		s.Equal(snap.ID, *result.PurchaseID)
	})

	s.Run("success: cache hit never touches the database", func() {
		key := s.issueKey()
		cached := &commands.LicenseValidationResult{Valid: true, Status: "COMPLETED", ActivationLimit: activationLimit}

		s.mockCache.EXPECT().Get(gomock.Any(), key).Return(cached, true).Times(1)

		result, err := s.useCase.Validate(ctx, reqdto.ValidateLicenseRequest{LicenseKey: key})

		s.NoError(err)
		s.True(result.Valid)
	})

	s.Run("success: machine membership is checked outside the cache", func() {
		key := s.issueKey()
		machineID := "machine-01"
		cached := &commands.LicenseValidationResult{Valid: true, Status: "COMPLETED", ActivationLimit: activationLimit}

		s.mockCache.EXPECT().Get(gomock.Any(), key).Return(cached, true).Times(1)
		s.mockReads.EXPECT().ActiveActivation(gomock.Any(), key, machineID).
			Return(&shared.ActivationSnapshot{ID: uuid.New(), LicenseKey: key, MachineID: machineID, IsActive: true}, nil).Times(1)

		result, err := s.useCase.Validate(ctx, reqdto.ValidateLicenseRequest{LicenseKey: key, MachineID: &machineID})

		s.NoError(err)
		s.True(result.Valid)
	})

	s.Run("success: unactivated machine invalidates the answer, not the cache entry", func() {
		key := s.issueKey()
		machineID := "machine-new"
		cached := &commands.LicenseValidationResult{Valid: true, Status: "COMPLETED", ActivationLimit: activationLimit}

		s.mockCache.EXPECT().Get(gomock.Any(), key).Return(cached, true).Times(1)
		s.mockReads.EXPECT().ActiveActivation(gomock.Any(), key, machineID).
			Return(nil, notFoundErr("activation not found")).Times(1)

		result, err := s.useCase.Validate(ctx, reqdto.ValidateLicenseRequest{LicenseKey: key, MachineID: &machineID})

		s.NoError(err)
		s.False(result.Valid)
		s.Equal(commands.ReasonMachineNotActivated, result.Reason)
		s.True(cached.Valid)
	})

	s.Run("success: refunded purchase answers with a reason", func() {
		key := s.issueKey()
		snap := s.keyedSnap(key, "REFUNDED")

		s.mockCache.EXPECT().Get(gomock.Any(), key).Return(nil, false).Times(1)
		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).Return(snap, nil).Times(1)
		s.mockReads.EXPECT().ActiveActivationCount(gomock.Any(), key).Return(int32(0), nil).Times(1)
		s.mockCache.EXPECT().Set(gomock.Any(), key, gomock.Any()).Times(1)

		result, err := s.useCase.Validate(ctx, reqdto.ValidateLicenseRequest{LicenseKey: key})

		s.NoError(err)
		s.False(result.Valid)
		s.Equal(commands.ReasonRefunded, result.Reason)
	})

	s.Run("success: pending payment answers with a reason", func() {
		key := s.issueKey()
		snap := s.keyedSnap(key, "PENDING")

		s.mockCache.EXPECT().Get(gomock.Any(), key).Return(nil, false).Times(1)
		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).Return(snap, nil).Times(1)
		s.mockReads.EXPECT().ActiveActivationCount(gomock.Any(), key).Return(int32(0), nil).Times(1)
		s.mockCache.EXPECT().Set(gomock.Any(), key, gomock.Any()).Times(1)

		result, err := s.useCase.Validate(ctx, reqdto.ValidateLicenseRequest{LicenseKey: key})

		s.NoError(err)
		s.False(result.Valid)
		s.Equal(commands.ReasonPaymentPending, result.Reason)
	})

	s.Run("success: unknown key is a miss, not an error", func() {
		key := s.issueKey()

		s.mockCache.EXPECT().Get(gomock.Any(), key).Return(nil, false).Times(1)
		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).
			Return(nil, notFoundErr("purchase not found")).Times(1)
		s.mockCache.EXPECT().Set(gomock.Any(), key, gomock.Any()).Times(1)

		result, err := s.useCase.Validate(ctx, reqdto.ValidateLicenseRequest{LicenseKey: key})

		s.NoError(err)
		s.False(result.Valid)
		s.Equal(commands.ReasonLicenseNotFound, result.Reason)
	})

	s.Run("success: malformed key short-circuits before the cache", func() {
		result, err := s.useCase.Validate(ctx, reqdto.ValidateLicenseRequest{LicenseKey: "not-a-key"})

		s.NoError(err)
		s.False(result.Valid)
		s.Equal(commands.ReasonLicenseNotFound, result.Reason)
	})
}

func (s *LicenseUseCaseTestSuite) TestActivate() {
	ctx := context.Background()
	machineID := "machine-01"

	s.Run("success: fresh activation inserts and drops the cached validation", func() {
		key := s.issueKey()
		snap := s.keyedSnap(key, "COMPLETED")
		req := reqdto.ActivateLicenseRequest{LicenseKey: key, MachineID: machineID}

		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).Return(snap, nil).Times(1)
		lock := s.expectActivationLock(key)
		s.mockReads.EXPECT().ActiveActivation(gomock.Any(), key, machineID).
			Return(nil, notFoundErr("activation not found")).Times(1)
		s.mockActivations.EXPECT().InsertWithLimit(gomock.Any(), s.mockDB, gomock.Any(), activationLimit).
			Return(true, nil).Times(1).After(lock)
		s.mockCache.EXPECT().Invalidate(gomock.Any(), key).Times(1)

		result, err := s.useCase.Activate(ctx, req)

		s.NoError(err)
		s.False(result.IsReplayed)
		s.Equal(key, result.LicenseKey)
		s.Equal(machineID, result.MachineID)
	})

	s.Run("success: re-activating the same machine is an idempotent replay", func() {
		key := s.issueKey()
		snap := s.keyedSnap(key, "COMPLETED")
		existing := &shared.ActivationSnapshot{ID: uuid.New(), LicenseKey: key, MachineID: machineID, IsActive: true}
		req := reqdto.ActivateLicenseRequest{LicenseKey: key, MachineID: machineID}

		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).Return(snap, nil).Times(1)
		s.expectActivationLock(key)
		s.mockReads.EXPECT().ActiveActivation(gomock.Any(), key, machineID).Return(existing, nil).Times(1)

		result, err := s.useCase.Activate(ctx, req)

		s.NoError(err)
		s.True(result.IsReplayed)
		s.Equal(existing.ID, result.ActivationID)
	})

	s.Run("success: losing a concurrent race resolves to a replay", func() {
		key := s.issueKey()
		snap := s.keyedSnap(key, "COMPLETED")
		winner := &shared.ActivationSnapshot{ID: uuid.New(), LicenseKey: key, MachineID: machineID, IsActive: true}
		req := reqdto.ActivateLicenseRequest{LicenseKey: key, MachineID: machineID}

		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).Return(snap, nil).Times(1)
		s.expectActivationLock(key)
		s.mockReads.EXPECT().ActiveActivation(gomock.Any(), key, machineID).
			Return(nil, notFoundErr("activation not found")).Times(1)
		s.mockActivations.EXPECT().InsertWithLimit(gomock.Any(), s.mockDB, gomock.Any(), activationLimit).
			Return(false, infra.WrapRepoErr("duplicate activation", errs.New("conflict"), infra.KindConflict)).Times(1)
		s.mockReads.EXPECT().ActiveActivation(gomock.Any(), key, machineID).Return(winner, nil).Times(1)

		result, err := s.useCase.Activate(ctx, req)

		s.NoError(err)
		s.True(result.IsReplayed)
		s.Equal(winner.ID, result.ActivationID)
	})

	s.Run("error: activation limit reached", func() {
		key := s.issueKey()
		snap := s.keyedSnap(key, "COMPLETED")
		req := reqdto.ActivateLicenseRequest{LicenseKey: key, MachineID: machineID}

		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).Return(snap, nil).Times(1)
		s.expectActivationLock(key)
		s.mockReads.EXPECT().ActiveActivation(gomock.Any(), key, machineID).
			Return(nil, notFoundErr("activation not found")).Times(1)
		s.mockActivations.EXPECT().InsertWithLimit(gomock.Any(), s.mockDB, gomock.Any(), activationLimit).
			Return(false, nil).Times(1)

		_, err := s.useCase.Activate(ctx, req)

		s.ErrorIs(err, errs.ErrActivationLimitReached)
	})

	s.Run("error: failing to take the per-key lock fails the activation", func() {
		key := s.issueKey()
		snap := s.keyedSnap(key, "COMPLETED")
		req := reqdto.ActivateLicenseRequest{LicenseKey: key, MachineID: machineID}

		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).Return(snap, nil).Times(1)
		s.mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), key).
			Return(pgconn.CommandTag{}, errs.New("connection reset")).Times(1)

		_, err := s.useCase.Activate(ctx, req)

		s.ErrorIs(err, errs.ErrDatabaseOperationFailed)
	})

	s.Run("error: license without a settled purchase grants nothing", func() {
		key := s.issueKey()
		snap := s.keyedSnap(key, "PENDING")
		req := reqdto.ActivateLicenseRequest{LicenseKey: key, MachineID: machineID}

		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).Return(snap, nil).Times(1)

		_, err := s.useCase.Activate(ctx, req)

		s.ErrorIs(err, errs.ErrLicenseNotValid)
	})

	s.Run("error: unknown key", func() {
		key := s.issueKey()
		req := reqdto.ActivateLicenseRequest{LicenseKey: key, MachineID: machineID}

		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).
			Return(nil, notFoundErr("purchase not found")).Times(1)

		_, err := s.useCase.Activate(ctx, req)

		s.ErrorIs(err, errs.ErrLicenseNotFound)
	})

	s.Run("error: malformed key", func() {
		_, err := s.useCase.Activate(ctx, reqdto.ActivateLicenseRequest{LicenseKey: "nope", MachineID: machineID})

		s.ErrorIs(err, errs.ErrLicenseNotFound)
	})
}

func (s *LicenseUseCaseTestSuite) TestDeactivate() {
	ctx := context.Background()

	s.Run("success: deactivation frees the slot and drops the cached validation", func() {
		key := s.issueKey()

		s.mockActivations.EXPECT().Deactivate(gomock.Any(), s.mockDB, key, "machine-01", s.clk.Now()).
			Return(true, nil).Times(1)
		s.mockCache.EXPECT().Invalidate(gomock.Any(), key).Times(1)

		s.NoError(s.useCase.Deactivate(ctx, reqdto.DeactivateLicenseRequest{LicenseKey: key, MachineID: "machine-01"}))
	})

	s.Run("error: no active activation for the machine", func() {
		key := s.issueKey()

		s.mockActivations.EXPECT().Deactivate(gomock.Any(), s.mockDB, key, "machine-01", s.clk.Now()).
			Return(false, nil).Times(1)

		err := s.useCase.Deactivate(ctx, reqdto.DeactivateLicenseRequest{LicenseKey: key, MachineID: "machine-01"})

		s.ErrorIs(err, errs.ErrActivationNotFound)
	})
}

func (s *LicenseUseCaseTestSuite) TestRevoke() {
	ctx := context.Background()

	s.Run("success: the selling creator revokes every device", func() {
		key := s.issueKey()
		creatorID := uuid.New()
		snap := s.keyedSnap(key, "COMPLETED")
		snap.CreatorID = creatorID

		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).Return(snap, nil).Times(1)
		s.mockActivations.EXPECT().DeactivateAll(gomock.Any(), s.mockDB, key, s.clk.Now()).
			Return(int64(3), nil).Times(1)
		s.mockCache.EXPECT().Invalidate(gomock.Any(), key).Times(1)

		result, err := s.useCase.Revoke(ctx, creatorID, actor.RoleCreator, key)

		s.NoError(err)
		s.Equal(int64(3), result.DeactivatedCount)
	})

	s.Run("error: a creator cannot revoke another creator's license", func() {
		key := s.issueKey()
		snap := s.keyedSnap(key, "COMPLETED")

		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).Return(snap, nil).Times(1)

		_, err := s.useCase.Revoke(ctx, uuid.New(), actor.RoleCreator, key)

		s.ErrorIs(err, errs.ErrNotResourceOwner)
	})

	s.Run("error: unknown key", func() {
		key := s.issueKey()

		s.mockReads.EXPECT().PurchaseByLicenseKey(gomock.Any(), key).
			Return(nil, notFoundErr("purchase not found")).Times(1)

		_, err := s.useCase.Revoke(ctx, uuid.New(), actor.RoleAdmin, key)

		s.ErrorIs(err, errs.ErrLicenseNotFound)
	})
}
