// Package verify обрабатывает подтверждение оплаты подписки.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/quiz-platform/internal/apperr"
	"github.com/magabrotheeeer/quiz-platform/internal/http/response"
	"github.com/magabrotheeeer/quiz-platform/internal/lib/sl"
)

// Request — входные данные для верификации платежа.
type Request struct {
	Reference string `json:"reference" validate:"required"`
	Username  string `json:"username" validate:"required"`
}

// Service определяет интерфейс платёжной бизнес-логики.
type Service interface {
	Verify(ctx context.Context, reference, username string) (isSubscribed bool, err error)
}

// Handler обрабатывает запросы на верификацию платежа.
type Handler struct {
	log      *slog.Logger
	payments Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, payments Service) *Handler {
	return &Handler{
		log:      log,
		payments: payments,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтвердить оплату подписки
// @Description Сверяет транзакцию у провайдера и при успехе записывает новое окно подписки.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Reference транзакции и пользователь"
// @Success 200 {object} map[string]any "Подписка активирована"
// @Failure 400 {object} response.ErrorResponse "Транзакция не подтверждена"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /verify-payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	isSubscribed, err := h.payments.Verify(r.Context(), req.Reference, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrUserNotFound):
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, apperr.ErrVerification):
			log.Error("verification rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("payment verification failed"))
		case errors.Is(err, apperr.ErrGateway):
			log.Error("gateway failure", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("payment provider error"))
		default:
			log.Error("verify payment failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("payment verified", slog.String("username", req.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message":       "subscription activated",
		"is_subscribed": isSubscribed,
	}))
}
