// Package services содержит бизнес-логику выдачи вопросов викторины
// с учётом подписки пользователя.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/quiz-platform/internal/apperr"
	"github.com/magabrotheeeer/quiz-platform/internal/catalog"
	"github.com/magabrotheeeer/quiz-platform/internal/lib/entitlement"
	"github.com/magabrotheeeer/quiz-platform/internal/lib/sl"
	"github.com/magabrotheeeer/quiz-platform/internal/models"
)

// UserRepository определяет чтение пользователей из хранилища.
type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
}

// QuizService выдаёт вопросы курса, ограничивая их количество
// по состоянию подписки пользователя.
type QuizService struct {
	users   UserRepository
	catalog catalog.Catalog
	cache   Cache
	log     *slog.Logger
	now     func() time.Time
}

// subscriptionSnapshot — кэшируемый снимок состояния подписки.
type subscriptionSnapshot struct {
	End *time.Time `json:"end"`
}

// New создает новый экземпляр QuizService.
func New(users UserRepository, cat catalog.Catalog, cache Cache, log *slog.Logger) *QuizService {
	return &QuizService{
		users:   users,
		catalog: cat,
		cache:   cache,
		log:     log,
		now:     time.Now,
	}
}

// GetQuestions возвращает первые N вопросов курса и само значение N.
//
// N вычисляется чистой функцией entitlement.Resolve по снимку подписки
// пользователя; вопросы выдаются префиксом каталога, без перемешивания
// и без учёта ранее выданных. Если в курсе меньше N вопросов,
// возвращаются все имеющиеся — усечение не ошибка. Курс без единого
// вопроса или отсутствующий в каталоге — apperr.ErrCourseNotFound.
func (s *QuizService) GetQuestions(ctx context.Context, username, course string, requested int) ([]models.Question, int, error) {
	subscriptionEnd, err := s.subscriptionEnd(ctx, username)
	if err != nil {
		return nil, 0, err
	}

	maxQuestions := entitlement.Resolve(subscriptionEnd, requested, s.now())

	questions, ok := s.catalog.Questions(course)
	if !ok || len(questions) == 0 {
		return nil, 0, fmt.Errorf("course %q: %w", course, apperr.ErrCourseNotFound)
	}
	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}
	return questions, maxQuestions, nil
}

// subscriptionEnd возвращает момент окончания подписки пользователя,
// используя кэш и обращаясь к хранилищу при промахе. Ошибки кэша
// не фатальны: хранилище остаётся источником истины.
func (s *QuizService) subscriptionEnd(ctx context.Context, username string) (*time.Time, error) {
	cacheKey := fmt.Sprintf("subscription:%s", username)

	var snapshot subscriptionSnapshot
	found, err := s.cache.Get(cacheKey, &snapshot)
	if err != nil {
		s.log.Warn("failed to read subscription cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && err == nil {
		return snapshot.End, nil
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	snapshot = subscriptionSnapshot{End: user.SubscriptionEnd}
	if err := s.cache.Set(cacheKey, snapshot, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), sl.Err(err))
	}
	return user.SubscriptionEnd, nil
}
