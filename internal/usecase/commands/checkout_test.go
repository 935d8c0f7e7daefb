//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	reqdto "digistore/internal/handler/dto/request"
	"digistore/internal/infra"
	"digistore/internal/pkg/clock"
	"digistore/internal/pkg/config"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/commands"
	"digistore/internal/usecase/shared"
	dbmock "digistore/tests/mock/db"
	sharedmock "digistore/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CheckoutUseCaseTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	mockUow       *sharedmock.MockUnitOfWork
	mockReads     *sharedmock.MockCommandReads
	mockTx        *sharedmock.MockTx
	mockPurchases *sharedmock.MockPurchaseRepository
	mockGateway   *sharedmock.MockPaymentGateway
	mockDB        *dbmock.MockDBTX
	clk           *clock.MockClock

	useCase    commands.CheckoutCommands
	customerID uuid.UUID
	creatorID  uuid.UUID
}

func (s *CheckoutUseCaseTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUow = sharedmock.NewMockUnitOfWork(s.mockCtrl)
	s.mockReads = sharedmock.NewMockCommandReads(s.mockCtrl)
	s.mockTx = sharedmock.NewMockTx(s.mockCtrl)
	s.mockPurchases = sharedmock.NewMockPurchaseRepository(s.mockCtrl)
	s.mockGateway = sharedmock.NewMockPaymentGateway(s.mockCtrl)
	s.mockDB = dbmock.NewMockDBTX(s.mockCtrl)
	s.clk = clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	s.mockTx.EXPECT().DB().Return(s.mockDB).AnyTimes()
	s.mockTx.EXPECT().Purchases().Return(s.mockPurchases).AnyTimes()

	s.useCase = commands.NewCheckoutUseCase(
		s.mockUow, s.mockGateway,
		config.SettlementConfig{FeePercent: 5, ActivationLimit: 5, MinimumPayoutCents: 1000, Currency: "USD"},
		"sandbox", s.clk,
	)
	s.customerID = uuid.New()
	s.creatorID = uuid.New()
}

func (s *CheckoutUseCaseTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCheckoutUseCaseSuite(t *testing.T) {
	suite.Run(t, new(CheckoutUseCaseTestSuite))
}

// passthroughTx runs every Within callback against the suite's mock Tx.
func (s *CheckoutUseCaseTestSuite) passthroughTx() {
	s.mockUow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.mockTx)
		}).AnyTimes()
}

func (s *CheckoutUseCaseTestSuite) productSnap(priceCents int64) *shared.ProductSnapshot {
	return &shared.ProductSnapshot{
		ID:         uuid.New(),
		CreatorID:  s.creatorID,
		PriceCents: priceCents,
		Currency:   "USD",
		IsActive:   true,
	}
}

func (s *CheckoutUseCaseTestSuite) percentSnap(code string, value int64) *shared.DiscountSnapshot {
	return &shared.DiscountSnapshot{
		ID:        uuid.New(),
		CreatorID: s.creatorID,
		Code:      code,
		Kind:      "percentage",
		Value:     value,
		AppliesTo: "all",
		IsActive:  true,
	}
}

func (s *CheckoutUseCaseTestSuite) TestCheckout() {
	ctx := context.Background()

	s.Run("success: prices a single item and attaches the provider order", func() {
		product := s.productSnap(10000)
		req := reqdto.CheckoutRequest{Items: []reqdto.CheckoutItem{{ProductID: product.ID}}}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), product.ID).Return(product, nil).Times(1)
		s.passthroughTx()
		s.mockPurchases.EXPECT().Create(gomock.Any(), s.mockDB, gomock.Any()).
			Return(uuid.New(), nil).Times(1)
		s.mockGateway.EXPECT().CreateOrder(gomock.Any(), int64(10000), "USD", gomock.Any()).
			Return("order_abc", nil).Times(1)
		s.mockPurchases.EXPECT().AttachProviderOrder(gomock.Any(), s.mockDB, gomock.Any(), "order_abc").
			Return(nil).Times(1)

		result, err := s.useCase.Checkout(ctx, s.customerID, req)

		s.NoError(err)
		s.Equal("order_abc", result.OrderID)
		s.Equal("sandbox", result.Provider)
		s.Equal(int64(10000), result.TotalCents)
		s.Equal(int64(0), result.DiscountCents)
		s.False(result.PaymentPending)
		s.Require().Len(result.Lines, 1)
		s.Equal(product.ID, result.Lines[0].ProductID)
		s.Equal(int64(10000), result.Lines[0].AmountCents)
	})

	s.Run("success: spreads a percentage code across the cart, remainder on the last line", func() {
		first := s.productSnap(10000)
		second := s.productSnap(5000)
		code := "SAVE20"
		disc := s.percentSnap(code, 20)
		req := reqdto.CheckoutRequest{
			Items:        []reqdto.CheckoutItem{{ProductID: first.ID}, {ProductID: second.ID}},
			DiscountCode: &code,
		}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().DiscountByCode(gomock.Any(), code).Return(disc, nil).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), first.ID).Return(first, nil).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), second.ID).Return(second, nil).Times(1)
		s.passthroughTx()
		s.mockPurchases.EXPECT().Create(gomock.Any(), s.mockDB, gomock.Any()).
			Return(uuid.New(), nil).Times(2)
		// 20% of 15000 is 3000: 2000 against the first line, remainder 1000 on the last.
		s.mockGateway.EXPECT().CreateOrder(gomock.Any(), int64(12000), "USD", gomock.Any()).
			Return("order_disc", nil).Times(1)
		s.mockPurchases.EXPECT().AttachProviderOrder(gomock.Any(), s.mockDB, gomock.Any(), "order_disc").
			Return(nil).Times(1)

		result, err := s.useCase.Checkout(ctx, s.customerID, req)

		s.NoError(err)
		s.Equal(int64(12000), result.TotalCents)
		s.Equal(int64(3000), result.DiscountCents)
		s.Require().Len(result.Lines, 2)
		s.Equal(int64(8000), result.Lines[0].AmountCents)
		s.Equal(int64(4000), result.Lines[1].AmountCents)
	})

	s.Run("success: product-scoped code only touches its product", func() {
		eligible := s.productSnap(10000)
		other := s.productSnap(5000)
		code := "LAUNCH50"
		disc := &shared.DiscountSnapshot{
			ID:         uuid.New(),
			CreatorID:  s.creatorID,
			Code:       code,
			Kind:       "percentage",
			Value:      50,
			AppliesTo:  "specific-products",
			ProductIDs: []uuid.UUID{eligible.ID},
			IsActive:   true,
		}
		req := reqdto.CheckoutRequest{
			Items:        []reqdto.CheckoutItem{{ProductID: eligible.ID}, {ProductID: other.ID}},
			DiscountCode: &code,
		}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().DiscountByCode(gomock.Any(), code).Return(disc, nil).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), eligible.ID).Return(eligible, nil).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), other.ID).Return(other, nil).Times(1)
		s.passthroughTx()
		s.mockPurchases.EXPECT().Create(gomock.Any(), s.mockDB, gomock.Any()).
			Return(uuid.New(), nil).Times(2)
		s.mockGateway.EXPECT().CreateOrder(gomock.Any(), int64(10000), "USD", gomock.Any()).
			Return("order_scoped", nil).Times(1)
		s.mockPurchases.EXPECT().AttachProviderOrder(gomock.Any(), s.mockDB, gomock.Any(), "order_scoped").
			Return(nil).Times(1)

		result, err := s.useCase.Checkout(ctx, s.customerID, req)

		s.NoError(err)
		s.Equal(int64(5000), result.DiscountCents)
		s.Equal(int64(5000), result.Lines[0].AmountCents)
		s.Equal(int64(5000), result.Lines[1].AmountCents)
	})

	s.Run("success: uses the variant price when a variant is selected", func() {
		product := s.productSnap(10000)
		variant := &shared.VariantSnapshot{ID: uuid.New(), ProductID: product.ID, PriceCents: 15000}
		req := reqdto.CheckoutRequest{Items: []reqdto.CheckoutItem{{ProductID: product.ID, VariantID: &variant.ID}}}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), product.ID).Return(product, nil).Times(1)
		s.mockReads.EXPECT().VariantByID(gomock.Any(), variant.ID).Return(variant, nil).Times(1)
		s.passthroughTx()
		s.mockPurchases.EXPECT().Create(gomock.Any(), s.mockDB, gomock.Any()).
			Return(uuid.New(), nil).Times(1)
		s.mockGateway.EXPECT().CreateOrder(gomock.Any(), int64(15000), "USD", gomock.Any()).
			Return("order_var", nil).Times(1)
		s.mockPurchases.EXPECT().AttachProviderOrder(gomock.Any(), s.mockDB, gomock.Any(), "order_var").
			Return(nil).Times(1)

		result, err := s.useCase.Checkout(ctx, s.customerID, req)

		s.NoError(err)
		s.Equal(int64(15000), result.TotalCents)
	})

	s.Run("success: gateway timeout leaves the purchases pending", func() {
		product := s.productSnap(10000)
		req := reqdto.CheckoutRequest{Items: []reqdto.CheckoutItem{{ProductID: product.ID}}}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), product.ID).Return(product, nil).Times(1)
		s.passthroughTx()
		s.mockPurchases.EXPECT().Create(gomock.Any(), s.mockDB, gomock.Any()).
			Return(uuid.New(), nil).Times(1)
		s.mockGateway.EXPECT().CreateOrder(gomock.Any(), int64(10000), "USD", gomock.Any()).
			Return("", context.DeadlineExceeded).Times(1)

		result, err := s.useCase.Checkout(ctx, s.customerID, req)

		s.NoError(err)
		s.True(result.PaymentPending)
		s.Empty(result.OrderID)
	})

	s.Run("error: gateway rejection fails the pending purchases", func() {
		product := s.productSnap(10000)
		req := reqdto.CheckoutRequest{Items: []reqdto.CheckoutItem{{ProductID: product.ID}}}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), product.ID).Return(product, nil).Times(1)
		s.passthroughTx()
		s.mockPurchases.EXPECT().Create(gomock.Any(), s.mockDB, gomock.Any()).
			Return(uuid.New(), nil).Times(1)
		s.mockGateway.EXPECT().CreateOrder(gomock.Any(), int64(10000), "USD", gomock.Any()).
			Return("", errs.New("card declined")).Times(1)
		s.mockPurchases.EXPECT().Fail(gomock.Any(), s.mockDB, gomock.Any()).
			Return(true, nil).Times(1)

		result, err := s.useCase.Checkout(ctx, s.customerID, req)

		s.Nil(result)
		s.ErrorIs(err, errs.ErrGatewayFailure)
	})

	s.Run("error: unknown product", func() {
		productID := uuid.New()
		req := reqdto.CheckoutRequest{Items: []reqdto.CheckoutItem{{ProductID: productID}}}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), productID).
			Return(nil, infra.WrapRepoErr("product not found", errs.New("no rows"), infra.KindNotFound)).Times(1)

		result, err := s.useCase.Checkout(ctx, s.customerID, req)

		s.Nil(result)
		s.ErrorIs(err, errs.ErrProductNotFound)
	})

	s.Run("error: inactive product is treated as missing", func() {
		product := s.productSnap(10000)
		product.IsActive = false
		req := reqdto.CheckoutRequest{Items: []reqdto.CheckoutItem{{ProductID: product.ID}}}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), product.ID).Return(product, nil).Times(1)

		_, err := s.useCase.Checkout(ctx, s.customerID, req)

		s.ErrorIs(err, errs.ErrProductNotFound)
	})

	s.Run("error: variant belonging to another product", func() {
		product := s.productSnap(10000)
		variant := &shared.VariantSnapshot{ID: uuid.New(), ProductID: uuid.New(), PriceCents: 5000}
		req := reqdto.CheckoutRequest{Items: []reqdto.CheckoutItem{{ProductID: product.ID, VariantID: &variant.ID}}}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), product.ID).Return(product, nil).Times(1)
		s.mockReads.EXPECT().VariantByID(gomock.Any(), variant.ID).Return(variant, nil).Times(1)

		_, err := s.useCase.Checkout(ctx, s.customerID, req)

		s.ErrorIs(err, errs.ErrVariantNotFound)
	})

	s.Run("error: cart mixing currencies", func() {
		usd := s.productSnap(10000)
		eur := s.productSnap(5000)
		eur.Currency = "EUR"
		req := reqdto.CheckoutRequest{Items: []reqdto.CheckoutItem{{ProductID: usd.ID}, {ProductID: eur.ID}}}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), usd.ID).Return(usd, nil).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), eur.ID).Return(eur, nil).Times(1)

		_, err := s.useCase.Checkout(ctx, s.customerID, req)

		s.ErrorIs(err, errs.ErrDomainValidation)
	})

	s.Run("error: unknown discount code", func() {
		code := "NOSUCH"
		req := reqdto.CheckoutRequest{
			Items:        []reqdto.CheckoutItem{{ProductID: uuid.New()}},
			DiscountCode: &code,
		}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().DiscountByCode(gomock.Any(), code).
			Return(nil, infra.WrapRepoErr("discount code not found", errs.New("no rows"), infra.KindNotFound)).Times(1)

		_, err := s.useCase.Checkout(ctx, s.customerID, req)

		s.ErrorIs(err, errs.ErrDiscountNotFound)
	})

	s.Run("error: exhausted discount code", func() {
		product := s.productSnap(10000)
		code := "SOLDOUT"
		limit := int32(10)
		disc := s.percentSnap(code, 20)
		disc.Code = code
		disc.UsageLimit = &limit
		disc.TimesUsed = 10
		req := reqdto.CheckoutRequest{
			Items:        []reqdto.CheckoutItem{{ProductID: product.ID}},
			DiscountCode: &code,
		}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().DiscountByCode(gomock.Any(), code).Return(disc, nil).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), product.ID).Return(product, nil).Times(1)

		_, err := s.useCase.Checkout(ctx, s.customerID, req)

		s.ErrorIs(err, errs.ErrDiscountExhausted)
	})

	s.Run("error: product-scoped code with no matching item in the cart", func() {
		product := s.productSnap(10000)
		code := "ELSEWHERE"
		disc := &shared.DiscountSnapshot{
			ID:         uuid.New(),
			CreatorID:  s.creatorID,
			Code:       code,
			Kind:       "fixed",
			Value:      500,
			AppliesTo:  "specific-products",
			ProductIDs: []uuid.UUID{uuid.New()},
			IsActive:   true,
		}
		req := reqdto.CheckoutRequest{
			Items:        []reqdto.CheckoutItem{{ProductID: product.ID}},
			DiscountCode: &code,
		}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().DiscountByCode(gomock.Any(), code).Return(disc, nil).Times(1)
		s.mockReads.EXPECT().ProductByID(gomock.Any(), product.ID).Return(product, nil).Times(1)

		_, err := s.useCase.Checkout(ctx, s.customerID, req)

		s.ErrorIs(err, errs.ErrDiscountNotUsable)
	})
}

func (s *CheckoutUseCaseTestSuite) TestValidateDiscount() {
	ctx := context.Background()

	s.Run("success: previews the amount off when a price is supplied", func() {
		price := int64(10000)
		disc := s.percentSnap("SAVE20", 20)
		req := reqdto.ValidateDiscountRequest{Code: "SAVE20", PriceCents: &price}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().DiscountByCode(gomock.Any(), "SAVE20").Return(disc, nil).Times(1)

		preview, err := s.useCase.ValidateDiscount(ctx, req)

		s.NoError(err)
		s.True(preview.Valid)
		s.Equal("percentage", preview.Kind)
		s.Require().NotNil(preview.AmountOffCents)
		s.Equal(int64(2000), *preview.AmountOffCents)
	})

	s.Run("success: expired code answers with a reason instead of an error", func() {
		disc := s.percentSnap("SAVE20", 20)
		expired := s.clk.Now().Add(-time.Hour)
		disc.ExpiresAt = &expired
		req := reqdto.ValidateDiscountRequest{Code: "SAVE20"}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().DiscountByCode(gomock.Any(), "SAVE20").Return(disc, nil).Times(1)

		preview, err := s.useCase.ValidateDiscount(ctx, req)

		s.NoError(err)
		s.False(preview.Valid)
		s.Require().NotNil(preview.Reason)
		s.Contains(*preview.Reason, "expired")
	})

	s.Run("error: malformed code never reaches the store", func() {
		req := reqdto.ValidateDiscountRequest{Code: "no"}

		_, err := s.useCase.ValidateDiscount(ctx, req)

		s.ErrorIs(err, errs.ErrDiscountNotFound)
	})

	s.Run("error: unknown code", func() {
		req := reqdto.ValidateDiscountRequest{Code: "NOSUCH"}

		s.mockUow.EXPECT().CommandReads().Return(s.mockReads).Times(1)
		s.mockReads.EXPECT().DiscountByCode(gomock.Any(), "NOSUCH").
			Return(nil, infra.WrapRepoErr("discount code not found", errs.New("no rows"), infra.KindNotFound)).Times(1)

		_, err := s.useCase.ValidateDiscount(ctx, req)

		s.ErrorIs(err, errs.ErrDiscountNotFound)
	})
}
