// Package services реализует логику покупки подписки через внешнего
// платёжного провайдера: инициализацию транзакции и её верификацию.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/magabrotheeeer/quiz-platform/internal/apperr"
	"github.com/magabrotheeeer/quiz-platform/internal/lib/billing"
	"github.com/magabrotheeeer/quiz-platform/internal/lib/sl"
	"github.com/magabrotheeeer/quiz-platform/internal/models"
	"github.com/magabrotheeeer/quiz-platform/internal/paymentprovider"
)

// UserRepository описывает работу с пользователями в хранилище.
type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// UpdateSubscription перезаписывает окно подписки пользователя.
	UpdateSubscription(ctx context.Context, username string, end time.Time, months int) error
}

// Gateway описывает операции внешнего платёжного провайдера.
type Gateway interface {
	InitializeTransaction(ctx context.Context, req paymentprovider.InitializeRequest) (*paymentprovider.InitializeData, error)
	VerifyTransaction(ctx context.Context, reference string) (*paymentprovider.VerifyData, error)
}

// Cache описывает инвалидацию кэша снимков подписки.
type Cache interface {
	Invalidate(key string) error
}

// PaymentService связывает запись о подписке пользователя с провайдером.
type PaymentService struct {
	users       UserRepository
	gateway     Gateway
	cache       Cache
	log         *slog.Logger
	callbackURL string
	now         func() time.Time
}

// InitiateResult — результат инициализации платежа.
type InitiateResult struct {
	AuthorizationURL string // Страница оплаты у провайдера
	Reference        string // Ссылка для последующей верификации
}

// New создает новый экземпляр PaymentService.
func New(users UserRepository, gateway Gateway, cache Cache, log *slog.Logger, callbackURL string) *PaymentService {
	return &PaymentService{
		users:       users,
		gateway:     gateway,
		cache:       cache,
		log:         log,
		callbackURL: callbackURL,
		now:         time.Now,
	}
}

// Initiate создаёт у провайдера транзакцию на оплату плана months.
//
// Размер плана сверяется с тарифной таблицей и отклоняется, если его
// там нет. Подписка пользователя на этом шаге не изменяется: запись
// появится только после верификации.
func (s *PaymentService) Initiate(ctx context.Context, username string, months int) (*InitiateResult, error) {
	const op = "services.payment.Initiate"

	price, err := billing.PriceFor(months)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	initReq := paymentprovider.InitializeRequest{
		// Своей электронной почты у учётной записи нет, а провайдер
		// требует адрес: выводим служебный из имени пользователя.
		Email:       fmt.Sprintf("%s@users.quiz-platform.local", user.Username),
		Amount:      price,
		CallbackURL: s.callbackURL,
		Metadata: map[string]any{
			"username": user.Username,
			"months":   months,
		},
	}
	data, err := s.gateway.InitializeTransaction(ctx, initReq)
	if err != nil {
		s.log.Error("gateway initialize failed", sl.Err(err))
		return nil, fmt.Errorf("%w: %v", apperr.ErrGateway, err)
	}

	s.log.Info("payment initiated",
		slog.String("username", username),
		slog.Int("months", months),
		slog.String("reference", data.Reference))
	return &InitiateResult{
		AuthorizationURL: data.AuthorizationURL,
		Reference:        data.Reference,
	}, nil
}

// Verify сверяет транзакцию у провайдера и записывает подписку.
//
// Отклоняется, если провайдер не подтвердил успех или если username
// в метаданных транзакции не совпал с аргументом — это защита от
// повторного использования чужого reference. При успехе окно подписки
// перезаписывается: now плюс оплаченные месяцы, остаток прежнего
// срока не переносится.
func (s *PaymentService) Verify(ctx context.Context, reference, username string) (isSubscribed bool, err error) {
	const op = "services.payment.Verify"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return false, err
	}

	data, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		s.log.Error("gateway verify failed", sl.Err(err))
		return false, fmt.Errorf("%w: %v", apperr.ErrGateway, err)
	}

	if data.Status != paymentprovider.TransactionSuccess {
		return false, fmt.Errorf("%w: transaction status %q", apperr.ErrVerification, data.Status)
	}
	metaUsername, _ := data.Metadata["username"].(string)
	if metaUsername != user.Username {
		return false, fmt.Errorf("%w: transaction does not belong to user", apperr.ErrVerification)
	}
	months, err := metadataMonths(data.Metadata)
	if err != nil {
		return false, fmt.Errorf("%w: %v", apperr.ErrVerification, err)
	}
	if _, err := billing.PriceFor(months); err != nil {
		return false, fmt.Errorf("%w: unknown plan in transaction metadata", apperr.ErrVerification)
	}

	end := billing.Expiry(s.now().UTC(), months)
	if err := s.users.UpdateSubscription(ctx, username, end, months); err != nil {
		return false, err
	}

	cacheKey := fmt.Sprintf("subscription:%s", username)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate subscription cache", slog.String("key", cacheKey), sl.Err(err))
	}

	s.log.Info("subscription updated",
		slog.String("username", username),
		slog.Int("months", months),
		slog.Time("end", end))
	return true, nil
}

// metadataMonths достаёт размер плана из метаданных транзакции.
// После прохода через провайдера число может вернуться как json-число
// или как строка.
func metadataMonths(metadata map[string]any) (int, error) {
	switch v := metadata["months"].(type) {
	case float64:
		return int(v), nil
	case string:
		months, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("malformed months in metadata: %q", v)
		}
		return months, nil
	default:
		return 0, fmt.Errorf("months missing in metadata")
	}
}
