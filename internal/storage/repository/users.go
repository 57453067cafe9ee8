package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/quiz-platform/internal/apperr"
	"github.com/magabrotheeeer/quiz-platform/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его UID.
// Повторный username не изменяет состояние и возвращает apperr.ErrUserExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, password_hash)
			  VALUES ($1, $2)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("%s: %w", op, apperr.ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
// Если пользователя нет, возвращает apperr.ErrUserNotFound.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, password_hash, subscription_end,
			      subscription_months, session_token, session_issued_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)

	var subscriptionEnd, sessionIssuedAt sql.NullTime
	var subscriptionMonths sql.NullInt64
	var sessionToken sql.NullString
	if err := row.Scan(&u.UID, &u.Username, &u.PasswordHash,
		&subscriptionEnd, &subscriptionMonths, &sessionToken, &sessionIssuedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if subscriptionEnd.Valid {
		u.SubscriptionEnd = &subscriptionEnd.Time
	}
	if subscriptionMonths.Valid {
		months := int(subscriptionMonths.Int64)
		u.SubscriptionMonths = &months
	}
	if sessionToken.Valid {
		u.SessionToken = &sessionToken.String
	}
	if sessionIssuedAt.Valid {
		u.SessionIssuedAt = &sessionIssuedAt.Time
	}
	return u, nil
}

// UpdateSession перезаписывает сессию пользователя новым токеном.
// Предыдущий токен при этом перестаёт существовать.
func (s *Storage) UpdateSession(ctx context.Context, username, token string, issuedAt time.Time) error {
	const op = "storage.UpdateSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET session_token = $1,
			      session_issued_at = $2
			  WHERE username = $3`
	res, err := s.DB.ExecContext(ctx, query, token, issuedAt, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrUserNotFound)
	}
	return nil
}

// ClearSession очищает поля сессии пользователя. Идемпотентна:
// уже отсутствующая сессия или неизвестный username не считаются ошибкой.
func (s *Storage) ClearSession(ctx context.Context, username string) error {
	const op = "storage.ClearSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET session_token = NULL,
			      session_issued_at = NULL
			  WHERE username = $1`
	if _, err := s.DB.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubscription перезаписывает подписку пользователя новым окном.
// Остаток предыдущего срока не прибавляется.
func (s *Storage) UpdateSubscription(ctx context.Context, username string, end time.Time, months int) error {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscription_end = $1,
			      subscription_months = $2
			  WHERE username = $3`
	res, err := s.DB.ExecContext(ctx, query, end, months, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrUserNotFound)
	}
	return nil
}
