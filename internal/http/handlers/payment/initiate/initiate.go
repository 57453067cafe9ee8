// Package initiate обрабатывает запросы на инициализацию оплаты подписки.
package initiate

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
	paymentservice "github.com/magabrotheeeer/quiz-platform/internal/services/payment"
)

// Request — входные данные для инициализации платежа.
type Request struct {
	Username           string `json:"username" validate:"required"`
	SubscriptionMonths int    `json:"subscription_months" validate:"required,gt=0"`
}

// Service определяет интерфейс платёжной бизнес-логики.
type Service interface {
	Initiate(ctx context.Context, username string, months int) (*paymentservice.InitiateResult, error)
}

// Handler обрабатывает запросы на инициализацию платежа.
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
// @Summary Инициализировать оплату подписки
// @Description Создаёт транзакцию у платёжного провайдера и возвращает URL страницы оплаты.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Пользователь и размер плана"
// @Success 200 {object} map[string]any "Ссылка на оплату"
// @Failure 400 {object} response.ErrorResponse "Неизвестный план"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжного провайдера"
// @Router /initiate-payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.initiate"

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

	result, err := h.payments.Initiate(r.Context(), req.Username, req.SubscriptionMonths)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrUnknownPlan):
			log.Error("unknown plan requested", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown subscription plan"))
		case errors.Is(err, apperr.ErrUserNotFound):
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, apperr.ErrGateway):
			log.Error("gateway failure", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("payment provider error"))
		default:
			log.Error("initiate payment failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("payment initiated",
		slog.String("username", req.Username),
		slog.String("reference", result.Reference))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"authorization_url": result.AuthorizationURL,
		"reference":         result.Reference,
	}))
}
