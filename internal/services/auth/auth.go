// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/magabrotheeeer/quiz-platform/internal/apperr"
	"github.com/magabrotheeeer/quiz-platform/internal/lib/password"
	"github.com/magabrotheeeer/quiz-platform/internal/lib/session"
	"github.com/magabrotheeeer/quiz-platform/internal/models"
)

// usernameRe — допустимый формат имени: буква, затем буквы, цифры
// или подчёркивание.
var usernameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateSession перезаписывает сессию пользователя новым токеном.
	UpdateSession(ctx context.Context, username, token string, issuedAt time.Time) error

	// ClearSession очищает сессию пользователя.
	ClearSession(ctx context.Context, username string) error
}

// Clock возвращает текущее время. Подменяется в тестах.
type Clock func() time.Time

// AuthService отвечает за регистрацию, вход и выход пользователей.
type AuthService struct {
	users    UserRepository
	sessions session.Maker
	now      Clock
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, sessions session.Maker) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}
}

// Register создает нового пользователя с хэшированным паролем,
// пустой подпиской и пустой сессией.
//
// Формат имени и минимальная длина пароля проверяются здесь, а не только
// на границе HTTP: хранилище не должно видеть невалидные учётные данные.
func (s *AuthService) Register(ctx context.Context, username, rawPassword string) error {
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%w: username must start with a letter and contain only letters, digits or underscore", apperr.ErrValidation)
	}
	if len(rawPassword) < password.MinLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperr.ErrValidation, password.MinLength)
	}

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return err
	}
	user := models.User{
		Username:     username,
		PasswordHash: hashed,
	}
	if _, err := s.users.CreateUser(ctx, user); err != nil {
		return err
	}
	return nil
}

// Login проверяет пароль пользователя и выпускает новую сессию.
//
// Неизвестное имя и неверный пароль схлопываются в одну ошибку
// apperr.ErrInvalidCredentials: по ответу нельзя перечислять имена.
// Выпуск нового токена перезаписывает предыдущий.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token string, isSubscribed bool, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			return "", false, apperr.ErrInvalidCredentials
		}
		return "", false, err
	}
	if err := password.Compare(user.PasswordHash, rawPassword); err != nil {
		return "", false, apperr.ErrInvalidCredentials
	}

	token, issuedAt := s.sessions.Issue()
	if err := s.users.UpdateSession(ctx, username, token, issuedAt); err != nil {
		return "", false, err
	}
	return token, user.IsSubscribed(s.now()), nil
}

// Logout очищает сессию пользователя. Идемпотентен: повторный выход
// или выход без входа не являются ошибкой.
func (s *AuthService) Logout(ctx context.Context, username string) error {
	return s.users.ClearSession(ctx, username)
}
