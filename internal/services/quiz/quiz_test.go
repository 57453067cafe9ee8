package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/quiz-platform/internal/apperr"
	"github.com/magabrotheeeer/quiz-platform/internal/catalog"
	"github.com/magabrotheeeer/quiz-platform/internal/models"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Мок для Cache
type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

// missCache — кэш, который всегда промахивается и молча принимает записи
type missCache struct{}

func (missCache) Get(string, any) (bool, error) { return false, nil }
func (missCache) Set(string, any, time.Duration) error { return nil }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func makeQuestions(n int) []models.Question {
	questions := make([]models.Question, n)
	for i := range questions {
		questions[i] = models.Question{
			Question: "q",
			Options:  []string{"a", "b", "c"},
			Correct:  "a",
		}
	}
	return questions
}

func newTestCatalog() catalog.Catalog {
	return catalog.NewFromMap(map[string][]models.Question{
		"golang":    makeQuestions(120),
		"databases": makeQuestions(3),
		"empty":     {},
	})
}

func TestQuizService_GetQuestions(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	active := now.Add(24 * time.Hour)
	expired := now.Add(-24 * time.Hour)

	tests := []struct {
		name             string
		course           string
		requested        int
		user             *models.User
		userErr          error
		wantCount        int
		wantMaxQuestions int
		wantErr          error
	}{
		{
			name:      "user not found",
			course:    "golang",
			requested: 25,
			userErr:   apperr.ErrUserNotFound,
			wantErr:   apperr.ErrUserNotFound,
		},
		{
			name:             "unsubscribed gets floor regardless of request",
			course:           "golang",
			requested:        100,
			user:             &models.User{Username: "alice"},
			wantCount:        15,
			wantMaxQuestions: 15,
		},
		{
			name:             "expired subscription gets floor",
			course:           "golang",
			requested:        50,
			user:             &models.User{Username: "alice", SubscriptionEnd: &expired},
			wantCount:        15,
			wantMaxQuestions: 15,
		},
		{
			name:             "subscribed allowed count",
			course:           "golang",
			requested:        100,
			user:             &models.User{Username: "alice", SubscriptionEnd: &active},
			wantCount:        100,
			wantMaxQuestions: 100,
		},
		{
			name:             "subscribed out-of-set count falls back to floor",
			course:           "golang",
			requested:        30,
			user:             &models.User{Username: "alice", SubscriptionEnd: &active},
			wantCount:        15,
			wantMaxQuestions: 15,
		},
		{
			name:             "small course truncates without error",
			course:           "databases",
			requested:        25,
			user:             &models.User{Username: "alice", SubscriptionEnd: &active},
			wantCount:        3,
			wantMaxQuestions: 25,
		},
		{
			name:      "unknown course",
			course:    "philosophy",
			requested: 25,
			user:      &models.User{Username: "alice"},
			wantErr:   apperr.ErrCourseNotFound,
		},
		{
			name:      "course without questions",
			course:    "empty",
			requested: 25,
			user:      &models.User{Username: "alice"},
			wantErr:   apperr.ErrCourseNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			if tt.userErr != nil {
				repo.On("GetUserByUsername", mock.Anything, "alice").
					Return(nil, tt.userErr).Once()
			} else {
				repo.On("GetUserByUsername", mock.Anything, "alice").
					Return(tt.user, nil).Once()
			}

			svc := New(repo, newTestCatalog(), missCache{}, newNoopLogger())
			svc.now = func() time.Time { return now }

			questions, maxQuestions, err := svc.GetQuestions(context.Background(), "alice", tt.course, tt.requested)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, questions, tt.wantCount)
			assert.Equal(t, tt.wantMaxQuestions, maxQuestions)
			repo.AssertExpectations(t)
		})
	}
}

func TestQuizService_GetQuestions_CacheHitSkipsStorage(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	active := now.Add(24 * time.Hour)

	repo := new(UserRepoMock)
	cache := new(CacheMock)
	cache.On("Get", "subscription:alice", mock.Anything).
		Run(func(args mock.Arguments) {
			snapshot := args.Get(1).(*subscriptionSnapshot)
			snapshot.End = &active
		}).Return(true, nil).Once()

	svc := New(repo, newTestCatalog(), cache, newNoopLogger())
	svc.now = func() time.Time { return now }

	questions, maxQuestions, err := svc.GetQuestions(context.Background(), "alice", "golang", 50)
	require.NoError(t, err)
	assert.Len(t, questions, 50)
	assert.Equal(t, 50, maxQuestions)

	// Хранилище не трогали: снимок пришёл из кэша
	repo.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestQuizService_GetQuestions_CacheFailureFallsBackToStorage(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	repo := new(UserRepoMock)
	repo.On("GetUserByUsername", mock.Anything, "alice").
		Return(&models.User{Username: "alice"}, nil).Once()

	cache := new(CacheMock)
	cache.On("Get", "subscription:alice", mock.Anything).
		Return(false, errors.New("redis down")).Once()
	cache.On("Set", "subscription:alice", mock.Anything, time.Hour).
		Return(errors.New("redis down")).Once()

	svc := New(repo, newTestCatalog(), cache, newNoopLogger())
	svc.now = func() time.Time { return now }

	questions, maxQuestions, err := svc.GetQuestions(context.Background(), "alice", "golang", 25)
	require.NoError(t, err)
	assert.Len(t, questions, 15)
	assert.Equal(t, 15, maxQuestions)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
