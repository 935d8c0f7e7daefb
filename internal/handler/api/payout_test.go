//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"digistore/internal/domain/actor"
	"digistore/internal/handler/api"
	reqdto "digistore/internal/handler/dto/request"
	resdto "digistore/internal/handler/dto/response"
	"digistore/internal/pkg/errs"
	"digistore/internal/usecase/commands"
	"digistore/internal/usecase/queries"
	"digistore/tests/common/httptest"
	commandsmock "digistore/tests/mock/commands"
	queriesmock "digistore/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PayoutHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPayoutCommands
	mockQueries  *queriesmock.MockPayoutQueries
	handler      *api.PayoutHandler
	creatorID    uuid.UUID
}

func (s *PayoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPayoutCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPayoutQueries(s.mockCtrl)
	s.handler = api.NewPayoutHandler(s.mockCommands, s.mockQueries)
	s.creatorID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("actor_id", s.creatorID)
		c.Set("actor_role", actor.RoleCreator)
		c.Next()
	}

	s.router.GET("/creators/balance", authMiddleware, s.handler.GetBalance)
	s.router.GET("/creators/payouts", authMiddleware, s.handler.ListPayouts)
	s.router.POST("/creators/payouts", authMiddleware, s.handler.RequestPayout)
}

func (s *PayoutHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPayoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(PayoutHandlerTestSuite))
}

func (s *PayoutHandlerTestSuite) TestGetBalance() {
	url := "/creators/balance"

	view := &queries.BalanceView{
		Currency:             "USD",
		EarnedCents:          9500,
		CompletedPayoutCents: 2000,
		PendingPayoutCents:   1000,
		AvailableCents:       6500,
		IsEligible:           true,
	}

	s.Run("success: returns 200 OK with BalanceResponse", func() {
		s.mockQueries.EXPECT().Balance(gomock.Any(), s.creatorID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.BalanceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(9500), response.EarnedCents)
		s.Equal(int64(6500), response.AvailableCents)
		s.Equal("USD", response.Currency)
		s.True(response.IsEligible)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: 500 Internal Server Error on query failure", func() {
		s.mockQueries.EXPECT().Balance(gomock.Any(), s.creatorID).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

func (s *PayoutHandlerTestSuite) TestRequestPayout() {
	url := "/creators/payouts"

	amount := int64(5000)
	reqBody := reqdto.RequestPayoutRequest{AmountCents: &amount}

	s.Run("success: returns 201 Created with the new payout", func() {
		result := &commands.PayoutResult{
			PayoutID:       uuid.New(),
			AmountCents:    5000,
			Currency:       "USD",
			Status:         "PENDING",
			AvailableCents: 1500,
		}
		s.mockCommands.EXPECT().RequestPayout(gomock.Any(), s.creatorID, reqBody).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.PayoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(int64(5000), response.AmountCents)
		s.Equal("PENDING", response.Status)
		s.Equal(int64(1500), response.AvailableCents)
	})

	s.Run("success: omitting the amount withdraws the whole balance", func() {
		result := &commands.PayoutResult{
			PayoutID:    uuid.New(),
			AmountCents: 6500,
			Currency:    "USD",
			Status:      "PENDING",
		}
		s.mockCommands.EXPECT().RequestPayout(gomock.Any(), s.creatorID, reqdto.RequestPayoutRequest{}).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "bearer-token")

		var response resdto.PayoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(int64(6500), response.AmountCents)
	})

	s.Run("error: 400 Bad Request for a non-positive amount", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"amount_cents": 0}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "below the payout minimum",
				commandsError:  errs.ErrPayoutBelowMinimum,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "below the payout minimum",
			},
			{
				name:           "exceeds the available balance",
				commandsError:  errs.ErrPayoutExceedsBalance,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "exceeds the available balance",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().RequestPayout(gomock.Any(), s.creatorID, reqBody).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *PayoutHandlerTestSuite) TestListPayouts() {
	url := "/creators/payouts"

	views := []*queries.PayoutView{
		{ID: uuid.New(), AmountCents: 5000, Currency: "USD", Status: "PENDING", CreatedAt: time.Now()},
		{ID: uuid.New(), AmountCents: 2000, Currency: "USD", Status: "COMPLETED", CreatedAt: time.Now()},
	}

	s.Run("success: returns payout history", func() {
		s.mockQueries.EXPECT().ListByCreator(gomock.Any(), s.creatorID, int32(0), int32(0)).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response []resdto.PayoutViewResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal("PENDING", response[0].Status)
	})

	s.Run("success: pagination parameters are forwarded", func() {
		s.mockQueries.EXPECT().ListByCreator(gomock.Any(), s.creatorID, int32(5), int32(10)).
			Return(views[:1], nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?limit=5&offset=10", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: 500 Internal Server Error on query failure", func() {
		s.mockQueries.EXPECT().ListByCreator(gomock.Any(), s.creatorID, int32(0), int32(0)).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
