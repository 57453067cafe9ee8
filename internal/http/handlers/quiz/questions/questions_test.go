package questions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/quiz-platform/internal/apperr"
	"github.com/magabrotheeeer/quiz-platform/internal/models"
)

type QuizServiceMock struct {
	mock.Mock
}

func (m *QuizServiceMock) GetQuestions(ctx context.Context, username, course string, requested int) ([]models.Question, int, error) {
	args := m.Called(ctx, username, course, requested)
	questions, _ := args.Get(0).([]models.Question)
	return questions, args.Int(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func sampleQuestions(n int) []models.Question {
	res := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, models.Question{
			Question: "sample prompt",
			Options:  []string{"a", "b", "c"},
			Correct:  "a",
		})
	}
	return res
}

func TestQuestionsHandler_ServeHTTP(t *testing.T) {
	quizMock := new(QuizServiceMock)
	logger := newNoopLogger()

	handler := New(logger, quizMock)

	tests := []struct {
		name           string
		target         string
		mockQuestions  []models.Question
		mockMax        int
		mockErr        error
		mockCall       bool
		mockRequested  int
		wantStatusCode int
		wantServed     int
		wantMax        float64
		wantError      string
		wantStatus     string
	}{
		{
			name:           "unsubscribed user gets the floor",
			target:         "/questions?username=alice&course=golang&count=100",
			mockQuestions:  sampleQuestions(15),
			mockMax:        15,
			mockCall:       true,
			mockRequested:  100,
			wantStatusCode: http.StatusOK,
			wantServed:     15,
			wantMax:        15,
			wantStatus:     "OK",
		},
		{
			name:           "subscribed user gets the requested count",
			target:         "/questions?username=bob&course=golang&count=50",
			mockQuestions:  sampleQuestions(50),
			mockMax:        50,
			mockCall:       true,
			mockRequested:  50,
			wantStatusCode: http.StatusOK,
			wantServed:     50,
			wantMax:        50,
			wantStatus:     "OK",
		},
		{
			name:           "missing count parameter",
			target:         "/questions?username=alice&course=golang",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "username, course and count are required",
			wantStatus:     "Error",
		},
		{
			name:           "malformed count parameter",
			target:         "/questions?username=alice&course=golang&count=many",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "count must be an integer",
			wantStatus:     "Error",
		},
		{
			name:           "unknown user",
			target:         "/questions?username=ghost&course=golang&count=25",
			mockErr:        apperr.ErrUserNotFound,
			mockCall:       true,
			mockRequested:  25,
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
			wantStatus:     "Error",
		},
		{
			name:           "unknown course",
			target:         "/questions?username=alice&course=cooking&count=25",
			mockErr:        apperr.ErrCourseNotFound,
			mockCall:       true,
			mockRequested:  25,
			wantStatusCode: http.StatusNotFound,
			wantError:      "no questions available",
			wantStatus:     "Error",
		},
		{
			name:           "storage failure",
			target:         "/questions?username=alice&course=golang&count=25",
			mockErr:        errors.New("connection refused"),
			mockCall:       true,
			mockRequested:  25,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal error",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quizMock.ExpectedCalls = nil
			quizMock.Calls = nil

			if tt.mockCall {
				quizMock.On("GetQuestions", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string"), tt.mockRequested).
					Return(tt.mockQuestions, tt.mockMax, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
				return
			}

			data, ok := got["data"].(map[string]any)
			assert.True(t, ok)
			assert.Equal(t, tt.wantMax, data["max_questions"])

			questions, ok := data["questions"].([]any)
			assert.True(t, ok)
			assert.Len(t, questions, tt.wantServed)

			if tt.mockCall {
				quizMock.AssertExpectations(t)
			}
		})
	}
}
