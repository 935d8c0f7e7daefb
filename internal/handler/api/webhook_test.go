//go:build unit

package api_test

import (
	"bytes"
	"errors"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"

	"digistore/internal/handler/api"
	"digistore/internal/pkg/errs"
	"digistore/tests/common/httptest"
	commandsmock "digistore/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WebhookHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockCtrl       *gomock.Controller
	mockSettlement *commandsmock.MockSettlementCommands
	handler        *api.WebhookHandler
}

func (s *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockSettlement = commandsmock.NewMockSettlementCommands(s.mockCtrl)
	s.handler = api.NewWebhookHandler(s.mockSettlement)

	s.router.POST("/webhooks/payment", s.handler.HandlePaymentWebhook)
}

func (s *WebhookHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWebhookHandlerSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}

func (s *WebhookHandlerTestSuite) postWebhook(payload []byte, signature string) *nethttptest.ResponseRecorder {
	req := nethttptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}
	rec := nethttptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *WebhookHandlerTestSuite) TestHandlePaymentWebhook() {
	payload := []byte(`{"event_type":"payment.captured","payment_id":"pay_1","order_id":"order_1"}`)
	signature := "deadbeef"

	s.Run("success: returns 200 OK with processed status", func() {
		s.mockSettlement.EXPECT().HandleWebhook(gomock.Any(), payload, signature).
			Return(nil).Times(1)

		rec := s.postWebhook(payload, signature)

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("processed", body["status"])
	})

	s.Run("error: 401 Unauthorized when the signature header is missing", func() {
		rec := s.postWebhook(payload, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Missing webhook signature")
	})

	s.Run("error: 401 Unauthorized for a bad signature", func() {
		s.mockSettlement.EXPECT().HandleWebhook(gomock.Any(), payload, signature).
			Return(errs.ErrInvalidSignature).Times(1)

		rec := s.postWebhook(payload, signature)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid webhook signature")
	})

	s.Run("success: acknowledges events for unknown orders", func() {
		s.mockSettlement.EXPECT().HandleWebhook(gomock.Any(), payload, signature).
			Return(errs.ErrOrderNotFound).Times(1)

		rec := s.postWebhook(payload, signature)

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("ignored", body["status"])
	})

	s.Run("success: acknowledges events for unknown purchases", func() {
		s.mockSettlement.EXPECT().HandleWebhook(gomock.Any(), payload, signature).
			Return(errs.ErrPurchaseNotFound).Times(1)

		rec := s.postWebhook(payload, signature)

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("ignored", body["status"])
	})

	s.Run("error: 500 so the provider retries on storage trouble", func() {
		s.mockSettlement.EXPECT().HandleWebhook(gomock.Any(), payload, signature).
			Return(errs.ErrDatabaseOperationFailed).Times(1)

		rec := s.postWebhook(payload, signature)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})

	s.Run("error: 400 Bad Request for an unprocessable payload", func() {
		s.mockSettlement.EXPECT().HandleWebhook(gomock.Any(), payload, signature).
			Return(errors.New("unknown event type")).Times(1)

		rec := s.postWebhook(payload, signature)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Unprocessable webhook payload")
	})
}
