// Package questions обрабатывает выдачу вопросов викторины по курсу.
package questions

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/quiz-platform/internal/apperr"
	"github.com/magabrotheeeer/quiz-platform/internal/http/response"
	"github.com/magabrotheeeer/quiz-platform/internal/lib/sl"
	"github.com/magabrotheeeer/quiz-platform/internal/models"
)

// Service определяет интерфейс бизнес-логики выдачи вопросов.
type Service interface {
	GetQuestions(ctx context.Context, username, course string, requested int) ([]models.Question, int, error)
}

// Handler обрабатывает запросы на получение вопросов курса.
type Handler struct {
	log  *slog.Logger
	quiz Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, quiz Service) *Handler {
	return &Handler{
		log:  log,
		quiz: quiz,
	}
}

// ServeHTTP godoc
// @Summary Получить вопросы курса
// @Description Возвращает первые N вопросов курса; N определяется подпиской пользователя.
// @Tags Quiz
// @Produce  json
// @Param username query string true "Имя пользователя"
// @Param course query string true "Имя курса"
// @Param count query int true "Запрошенное количество вопросов"
// @Success 200 {object} map[string]any "Вопросы и выданный лимит"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры запроса"
// @Failure 404 {object} response.ErrorResponse "Пользователь или курс не найден"
// @Router /questions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.quiz.questions"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := r.URL.Query().Get("username")
	course := r.URL.Query().Get("course")
	countStr := r.URL.Query().Get("count")
	if username == "" || course == "" || countStr == "" {
		log.Error("missing query parameters")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("username, course and count are required"))
		return
	}

	count, err := strconv.Atoi(countStr)
	if err != nil {
		log.Error("malformed count parameter", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("count must be an integer"))
		return
	}

	questions, maxQuestions, err := h.quiz.GetQuestions(r.Context(), username, course, count)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrUserNotFound):
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, apperr.ErrCourseNotFound):
			log.Error("course not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no questions available"))
		default:
			log.Error("get questions failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("questions served",
		slog.String("username", username),
		slog.String("course", course),
		slog.Int("served", len(questions)),
		slog.Int("max_questions", maxQuestions))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"questions":     questions,
		"max_questions": maxQuestions,
	}))
}
