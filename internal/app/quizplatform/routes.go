// Package quizplatform предоставляет маршруты для основного приложения.
package quizplatform

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/quiz-platform/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/quiz-platform/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/quiz-platform/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/quiz-platform/internal/http/handlers/payment/initiate"
	"github.com/magabrotheeeer/quiz-platform/internal/http/handlers/payment/verify"
	"github.com/magabrotheeeer/quiz-platform/internal/http/handlers/quiz/health"
	"github.com/magabrotheeeer/quiz-platform/internal/http/handlers/quiz/questions"
	"github.com/magabrotheeeer/quiz-platform/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/quiz-platform/internal/services/auth"
	paymentservice "github.com/magabrotheeeer/quiz-platform/internal/services/payment"
	quizservice "github.com/magabrotheeeer/quiz-platform/internal/services/quiz"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	paymentService *paymentservice.PaymentService,
	quizService *quizservice.QuizService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.New(logger).ServeHTTP)

		// Учётные записи и сессии
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/logout", logout.New(logger, authService).ServeHTTP)

		// Оплата подписки
		r.Post("/initiate-payment", initiate.New(logger, paymentService).ServeHTTP)
		r.Post("/verify-payment", verify.New(logger, paymentService).ServeHTTP)

		// Выдача вопросов
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/questions", questions.New(logger, quizService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
