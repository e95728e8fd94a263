package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/course-catalog/internal/models"
	"github.com/magabrotheeeer/course-catalog/internal/storage/repository"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, id string) (*models.CourseInfo, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.CourseInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

const courseID = "5f6d7a3e-9a1b-4c2d-8e3f-0a1b2c3d4e5f"

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное чтение курса",
			id:   courseID,
			setupMock: func(m *MockService) {
				info := &models.CourseInfo{
					Course: models.Course{
						ID:    courseID,
						Title: "Go Basics",
					},
					OwnerName:  "Alice",
					OwnerEmail: "alice@example.com",
				}
				m.On("Read", mock.Anything, courseID).Return(info, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Go Basics"`,
		},
		{
			name:           "некорректный id в URL",
			id:             "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid course id"`,
		},
		{
			name: "курс не найден",
			id:   courseID,
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, courseID).Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"course not found"`,
		},
		{
			name: "ошибка сервиса чтения",
			id:   courseID,
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, courseID).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not read course"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/courses/"+tt.id, nil)
			// Устанавливаем URL params с помощью роутера chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
