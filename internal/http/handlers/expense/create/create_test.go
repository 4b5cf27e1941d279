package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/smartcomptable/smartcomptable/internal/models"
	"github.com/smartcomptable/smartcomptable/internal/services/expense"
)

// MockService implements the create.Service interface.
type MockService struct {
	mock.Mock
}

func (m *MockService) Add(ctx context.Context, req models.DummyExpense) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{"date":"2024-03-01","amount":42.5,"supplier":"EDF","category":"Électricité","description":"facture mars"}`

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful creation",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Add", mock.Anything, mock.AnythingOfType("models.DummyExpense")).
					Return("a1b2c3d4", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"a1b2c3d4"`,
		},
		{
			name:           "broken json",
			body:           `{"date":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "missing supplier",
			body:           `{"date":"2024-03-01","amount":42.5,"category":"Autre"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Supplier is a required field`,
		},
		{
			name:           "non positive amount",
			body:           `{"date":"2024-03-01","amount":0,"supplier":"EDF","category":"Autre"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Amount`,
		},
		{
			name:           "malformed date",
			body:           `{"date":"01/03/2024","amount":42.5,"supplier":"EDF","category":"Autre"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Date must be a date in format 2006-01-02`,
		},
		{
			name: "unknown category rejected by service",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Add", mock.Anything, mock.AnythingOfType("models.DummyExpense")).
					Return("", expense.ErrUnknownCategory)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `unknown category`,
		},
		{
			name: "storage failure",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Add", mock.Anything, mock.AnythingOfType("models.DummyExpense")).
					Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to save expense"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
