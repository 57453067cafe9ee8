package quizplatform

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/quiz-platform/internal/cache"
	"github.com/magabrotheeeer/quiz-platform/internal/catalog"
	"github.com/magabrotheeeer/quiz-platform/internal/config"
	"github.com/magabrotheeeer/quiz-platform/internal/lib/session"
	"github.com/magabrotheeeer/quiz-platform/internal/migrations"
	"github.com/magabrotheeeer/quiz-platform/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/quiz-platform/internal/services/auth"
	paymentservice "github.com/magabrotheeeer/quiz-platform/internal/services/payment"
	quizservice "github.com/magabrotheeeer/quiz-platform/internal/services/quiz"
	"github.com/magabrotheeeer/quiz-platform/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	questionCatalog, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	logger.Info("question catalog loaded", slog.Int("courses", len(questionCatalog.Courses())))

	providerClient := paymentprovider.NewClient(cfg.Paystack.SecretKey, cfg.Paystack.APIURL)

	authService := authservice.NewAuthService(db, session.NewMaker())
	paymentService := paymentservice.New(db, providerClient, cacheRedis, logger, cfg.Paystack.CallbackURL)
	quizService := quizservice.New(db, questionCatalog, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, paymentService, quizService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
