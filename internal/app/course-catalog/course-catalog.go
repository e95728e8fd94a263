package coursecatalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/course-catalog/internal/cache"
	"github.com/magabrotheeeer/course-catalog/internal/config"
	"github.com/magabrotheeeer/course-catalog/internal/lib/jwt"
	"github.com/magabrotheeeer/course-catalog/internal/media"
	"github.com/magabrotheeeer/course-catalog/internal/migrations"
	authservice "github.com/magabrotheeeer/course-catalog/internal/services/auth"
	courseservice "github.com/magabrotheeeer/course-catalog/internal/services/course"
	"github.com/magabrotheeeer/course-catalog/internal/storage/repository"
)

// App приложение каталога курсов.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New инициализирует все зависимости приложения и собирает HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	mediaStorage, err := media.New(cfg.S3Storage)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, mediaStorage, jwtMaker, logger)
	courseService := courseservice.NewCourseService(db, cacheRedis, mediaStorage, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, courseService, mediaStorage,
		int(cfg.TokenTTL/time.Second))

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

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
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
		_ = a.db.DB.Close()
		return err
	}
}
