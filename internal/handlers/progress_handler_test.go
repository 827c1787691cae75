// internal/handlers/progress_handler_test.go
package handlers_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"go_nocontact_keep/internal/model"
	"go_nocontact_keep/internal/service"
	"go_nocontact_keep/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProgressHandler_GetProgress(t *testing.T) {
	mockService := mocks.NewMockReconciliationService(t)
	server := newTestServer(t, mockService)

	st := model.NewProgressionState(testNow.AddDate(0, 0, -5))
	st.ExPartnerName = "Sam"
	mockService.On("Snapshot").Return(st).Once()

	body := sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/progress"},
		httpResponseExpectations{ExpectedCode: http.StatusOK})

	resp := decodeProgress(t, body)
	assert.Equal(t, "Sam", resp.ExPartnerName)
	assert.Equal(t, "withdrawal", resp.CurrentLevel)
	assert.Equal(t, 5, resp.Metrics.DaysSinceProgramStart)
	assert.True(t, resp.Persisted)
	assert.Empty(t, resp.Warning)
}

func TestProgressHandler_PostRelapse(t *testing.T) {
	storageErr := model.NewStorageError(model.ErrSaveFailed, "ReconciliationService.RecordRelapse", errors.New("disk full"))
	relapsed := model.NewProgressionState(testNow)
	relapsed.RelapseCount = 1

	tests := []struct {
		name              string
		body              interface{}
		setupMock         func(m *mocks.MockReconciliationService)
		expectedCode      int
		expectedErrorCode string
		expectPersisted   bool
	}{
		{
			name: "Success - empty body uses today",
			body: nil,
			setupMock: func(m *mocks.MockReconciliationService) {
				m.On("RecordRelapse", mock.Anything, testNow).Return(relapsed, nil).Once()
			},
			expectedCode:    http.StatusOK,
			expectPersisted: true,
		},
		{
			name: "Success - explicit date",
			body: map[string]string{"date": "2025-03-18"},
			setupMock: func(m *mocks.MockReconciliationService) {
				m.On("RecordRelapse", mock.Anything, time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)).Return(relapsed, nil).Once()
			},
			expectedCode:    http.StatusOK,
			expectPersisted: true,
		},
		{
			name: "Storage failure keeps the in-memory change",
			body: nil,
			setupMock: func(m *mocks.MockReconciliationService) {
				m.On("RecordRelapse", mock.Anything, testNow).Return(relapsed, storageErr).Once()
			},
			expectedCode:    http.StatusOK,
			expectPersisted: false,
		},
		{
			name:              "Invalid date format",
			body:              map[string]string{"date": "18/03/2025"},
			setupMock:         func(m *mocks.MockReconciliationService) {},
			expectedCode:      http.StatusBadRequest,
			expectedErrorCode: "VALIDATION_ERROR",
		},
		{
			name:              "Unknown field",
			body:              map[string]string{"when": "2025-03-18"},
			setupMock:         func(m *mocks.MockReconciliationService) {},
			expectedCode:      http.StatusBadRequest,
			expectedErrorCode: "INVALID_JSON",
		},
		{
			name: "Unexpected error",
			body: nil,
			setupMock: func(m *mocks.MockReconciliationService) {
				m.On("RecordRelapse", mock.Anything, testNow).Return(model.ProgressionState{}, errors.New("boom")).Once()
			},
			expectedCode:      http.StatusInternalServerError,
			expectedErrorCode: "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := mocks.NewMockReconciliationService(t)
			tc.setupMock(mockService)
			server := newTestServer(t, mockService)

			body := sendRequest(t, server,
				httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/relapses", Body: tc.body},
				httpResponseExpectations{ExpectedCode: tc.expectedCode, ExpectedErrorCode: tc.expectedErrorCode})

			if tc.expectedErrorCode != "" {
				return
			}
			resp := decodeProgress(t, body)
			assert.Equal(t, 1, resp.RelapseCount)
			assert.Equal(t, tc.expectPersisted, resp.Persisted)
			if !tc.expectPersisted {
				assert.NotEmpty(t, resp.Warning)
			}
		})
	}
}

func TestProgressHandler_PostPowerAction(t *testing.T) {
	tests := []struct {
		name              string
		body              interface{}
		setupMock         func(m *mocks.MockReconciliationService)
		expectedCode      int
		expectedErrorCode string
	}{
		{
			name: "Success",
			body: map[string]string{"type": "Delete_Number", "note": "done"},
			setupMock: func(m *mocks.MockReconciliationService) {
				st := model.NewProgressionState(testNow)
				st.BonusDays = 1
				m.On("RecordPowerAction", mock.Anything, model.ActionDeleteNumber, testNow, "done").Return(st, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:              "Unknown type",
			body:              map[string]string{"type": "call_them"},
			setupMock:         func(m *mocks.MockReconciliationService) {},
			expectedCode:      http.StatusBadRequest,
			expectedErrorCode: "VALIDATION_ERROR",
		},
		{
			name:              "Missing type",
			body:              map[string]string{},
			setupMock:         func(m *mocks.MockReconciliationService) {},
			expectedCode:      http.StatusBadRequest,
			expectedErrorCode: "VALIDATION_ERROR",
		},
		{
			name:              "Empty body",
			body:              nil,
			setupMock:         func(m *mocks.MockReconciliationService) {},
			expectedCode:      http.StatusBadRequest,
			expectedErrorCode: "INVALID_JSON",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := mocks.NewMockReconciliationService(t)
			tc.setupMock(mockService)
			server := newTestServer(t, mockService)

			sendRequest(t, server,
				httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/power-actions", Body: tc.body},
				httpResponseExpectations{ExpectedCode: tc.expectedCode, ExpectedErrorCode: tc.expectedErrorCode})
		})
	}
}

func TestProgressHandler_PostCheckIn(t *testing.T) {
	t.Run("Out of range values are passed through", func(t *testing.T) {
		mockService := mocks.NewMockReconciliationService(t)
		server := newTestServer(t, mockService)
		mockService.On("RecordCheckIn", mock.Anything, 9, -1, "", testNow).Return(model.NewProgressionState(testNow), nil).Once()

		sendRequest(t, server,
			httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/check-ins", Body: map[string]int{"mood": 9, "urge": -1}},
			httpResponseExpectations{ExpectedCode: http.StatusOK})
	})

	t.Run("Missing mood", func(t *testing.T) {
		mockService := mocks.NewMockReconciliationService(t)
		server := newTestServer(t, mockService)

		sendRequest(t, server,
			httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/check-ins", Body: map[string]int{"urge": 2}},
			httpResponseExpectations{ExpectedCode: http.StatusBadRequest, ExpectedErrorCode: "VALIDATION_ERROR"})
	})
}

func TestProgressHandler_PostIntegrityCheck(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMockReconciliationService(t)
		server := newTestServer(t, mockService)
		mockService.On("IntegrityCheck", mock.Anything).Return(&service.IntegrityReport{RecordsRemoved: 1}, nil).Once()

		body := sendRequest(t, server,
			httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/integrity-check"},
			httpResponseExpectations{ExpectedCode: http.StatusOK})
		assert.Contains(t, string(body), `"records_removed":1`)
	})

	t.Run("Storage unavailable", func(t *testing.T) {
		mockService := mocks.NewMockReconciliationService(t)
		server := newTestServer(t, mockService)
		storageErr := model.NewStorageError(model.ErrFetchFailed, "ReconciliationService.IntegrityCheck", errors.New("connection refused"))
		mockService.On("IntegrityCheck", mock.Anything).Return(nil, storageErr).Once()

		sendRequest(t, server,
			httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/integrity-check"},
			httpResponseExpectations{ExpectedCode: http.StatusServiceUnavailable, ExpectedErrorCode: "STORAGE_UNAVAILABLE"})
	})
}

func TestProgressHandler_DeleteProgress(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMockReconciliationService(t)
		server := newTestServer(t, mockService)
		mockService.On("EraseAll", mock.Anything).Return(nil).Once()
		mockService.On("Save", mock.Anything).Return(nil).Once()
		mockService.On("Snapshot").Return(model.NewProgressionState(testNow)).Once()

		body := sendRequest(t, server,
			httpRequestDetails{Method: http.MethodDelete, Path: "/api/v1/progress"},
			httpResponseExpectations{ExpectedCode: http.StatusOK})
		assert.Equal(t, 0, decodeProgress(t, body).RelapseCount)
	})

	t.Run("Erase failure", func(t *testing.T) {
		mockService := mocks.NewMockReconciliationService(t)
		server := newTestServer(t, mockService)
		mockService.On("EraseAll", mock.Anything).
			Return(model.NewStorageError(model.ErrSaveFailed, "ReconciliationService.EraseAll", errors.New("locked"))).Once()

		sendRequest(t, server,
			httpRequestDetails{Method: http.MethodDelete, Path: "/api/v1/progress"},
			httpResponseExpectations{ExpectedCode: http.StatusServiceUnavailable, ExpectedErrorCode: "STORAGE_UNAVAILABLE"})
	})
}
