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
	"digistore/tests/common/testutil"
	commandsmock "digistore/tests/mock/commands"
	queriesmock "digistore/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type LicenseHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockLicenseCommands
	mockQueries  *queriesmock.MockLicenseQueries
	handler      *api.LicenseHandler
	actorID      uuid.UUID
}

func (s *LicenseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockLicenseCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockLicenseQueries(s.mockCtrl)
	s.handler = api.NewLicenseHandler(s.mockCommands, s.mockQueries)
	s.actorID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("actor_id", s.actorID)
		c.Set("actor_role", actor.RoleCreator)
		c.Next()
	}

	// Validation, activation and deactivation are called from installed
	// software, not a browser session, so they carry no bearer token.
	s.router.POST("/licenses/validate", s.handler.ValidateLicense)
	s.router.POST("/licenses/activate", s.handler.ActivateLicense)
	s.router.POST("/licenses/deactivate", s.handler.DeactivateLicense)
	s.router.POST("/licenses/:key/revoke", authMiddleware, s.handler.RevokeLicense)
	s.router.GET("/licenses/:key/activations", authMiddleware, s.handler.ListActivations)
}

func (s *LicenseHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestLicenseHandlerSuite(t *testing.T) {
	suite.Run(t, new(LicenseHandlerTestSuite))
}

func (s *LicenseHandlerTestSuite) TestValidateLicense() {
	url := "/licenses/validate"

	reqBody := reqdto.ValidateLicenseRequest{LicenseKey: "TEST-LICENSE-KEY"}

	s.Run("success: returns 200 OK for a valid license", func() {
		purchaseID := uuid.New()
		productID := uuid.New()
		result := &commands.LicenseValidationResult{
			Valid:             true,
			PurchaseID:        &purchaseID,
			ProductID:         &productID,
			Status:            "COMPLETED",
			ActiveActivations: 1,
			ActivationLimit:   3,
		}
		s.mockCommands.EXPECT().Validate(gomock.Any(), reqBody).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.LicenseValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Valid)
		s.Equal(int32(3), response.ActivationLimit)
	})

	s.Run("success: invalid license still answers 200 with a reason", func() {
		result := &commands.LicenseValidationResult{Valid: false, Reason: "refunded"}
		s.mockCommands.EXPECT().Validate(gomock.Any(), reqBody).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.LicenseValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.False(response.Valid)
		s.Equal("refunded", response.Reason)
	})

	s.Run("error: 400 Bad Request when license_key is missing", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("license_key", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 500 Internal Server Error on usecase failure", func() {
		s.mockCommands.EXPECT().Validate(gomock.Any(), reqBody).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

func (s *LicenseHandlerTestSuite) TestActivateLicense() {
	url := "/licenses/activate"

	reqBody := reqdto.ActivateLicenseRequest{
		LicenseKey: "TEST-LICENSE-KEY",
		MachineID:  "machine-01",
	}

	s.Run("success: returns 201 Created for a fresh activation", func() {
		result := &commands.ActivationResult{
			ActivationID: uuid.New(),
			LicenseKey:   reqBody.LicenseKey,
			MachineID:    reqBody.MachineID,
		}
		s.mockCommands.EXPECT().Activate(gomock.Any(), gomock.Any()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.ActivationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(reqBody.MachineID, response.MachineID)
		s.False(response.IsReplayed)
	})

	s.Run("success: returns 200 OK when the machine is already active", func() {
		result := &commands.ActivationResult{
			ActivationID: uuid.New(),
			LicenseKey:   reqBody.LicenseKey,
			MachineID:    reqBody.MachineID,
			IsReplayed:   true,
		}
		s.mockCommands.EXPECT().Activate(gomock.Any(), gomock.Any()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.ActivationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.IsReplayed)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: license_key (required)", mutate: testutil.Field("license_key", nil)},
			{name: "missing field: machine_id (required)", mutate: testutil.Field("machine_id", nil)},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "license not found",
				commandsError:  errs.ErrLicenseNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "License not found",
			},
			{
				name:           "license not valid",
				commandsError:  errs.ErrLicenseNotValid,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "does not grant access",
			},
			{
				name:           "activation limit reached",
				commandsError:  errs.ErrActivationLimitReached,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Activation limit reached",
			},
			{
				name:           "domain validation failed",
				commandsError:  errs.ErrDomainValidation,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Invalid license key or machine ID",
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
				s.mockCommands.EXPECT().Activate(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *LicenseHandlerTestSuite) TestDeactivateLicense() {
	url := "/licenses/deactivate"

	reqBody := reqdto.DeactivateLicenseRequest{
		LicenseKey: "TEST-LICENSE-KEY",
		MachineID:  "machine-01",
	}

	s.Run("success: returns 200 OK with deactivated status", func() {
		s.mockCommands.EXPECT().Deactivate(gomock.Any(), reqBody).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("deactivated", body["status"])
	})

	s.Run("error: 400 Bad Request when machine_id is missing", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("machine_id", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 404 Not Found when no active activation exists", func() {
		s.mockCommands.EXPECT().Deactivate(gomock.Any(), reqBody).
			Return(errs.ErrActivationNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "No active activation")
	})

	s.Run("error: 500 Internal Server Error on usecase failure", func() {
		s.mockCommands.EXPECT().Deactivate(gomock.Any(), reqBody).
			Return(errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

func (s *LicenseHandlerTestSuite) TestRevokeLicense() {
	licenseKey := "TEST-LICENSE-KEY"
	url := "/licenses/" + licenseKey + "/revoke"

	s.Run("success: returns 200 OK with deactivated count", func() {
		s.mockCommands.EXPECT().Revoke(gomock.Any(), s.actorID, actor.RoleCreator, licenseKey).
			Return(&commands.RevokeResult{DeactivatedCount: 2}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response resdto.RevokeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(int64(2), response.DeactivatedCount)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
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
				name:           "license not found",
				commandsError:  errs.ErrLicenseNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "License not found",
			},
			{
				name:           "caller does not own the license",
				commandsError:  errs.ErrNotResourceOwner,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "creator or an admin",
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
				s.mockCommands.EXPECT().Revoke(gomock.Any(), s.actorID, actor.RoleCreator, licenseKey).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *LicenseHandlerTestSuite) TestListActivations() {
	licenseKey := "TEST-LICENSE-KEY"
	url := "/licenses/" + licenseKey + "/activations"

	views := []*queries.ActivationView{
		{ID: uuid.New(), MachineID: "machine-01", IsActive: true, ActivatedAt: time.Now()},
		{ID: uuid.New(), MachineID: "machine-02", IsActive: false, ActivatedAt: time.Now()},
	}

	s.Run("success: returns the device roster", func() {
		s.mockQueries.EXPECT().ListActivations(gomock.Any(), s.actorID, actor.RoleCreator, licenseKey).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response []resdto.ActivationViewResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal("machine-01", response[0].MachineID)
		s.False(response[1].IsActive)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			queriesError   error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "license not found",
				queriesError:   errs.ErrLicenseNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "License not found",
			},
			{
				name:           "caller does not own the license",
				queriesError:   errs.ErrNotResourceOwner,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "creator or an admin",
			},
			{
				name:           "internal server error",
				queriesError:   errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().ListActivations(gomock.Any(), s.actorID, actor.RoleCreator, licenseKey).
					Return(nil, tc.queriesError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
