// Package coursecatalog предоставляет маршруты для основного приложения.
package coursecatalog

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	coursecreate "github.com/magabrotheeeer/course-catalog/internal/http/handlers/course/create"
	courselist "github.com/magabrotheeeer/course-catalog/internal/http/handlers/course/list"
	courseread "github.com/magabrotheeeer/course-catalog/internal/http/handlers/course/read"
	courseremove "github.com/magabrotheeeer/course-catalog/internal/http/handlers/course/remove"
	courseupdate "github.com/magabrotheeeer/course-catalog/internal/http/handlers/course/update"
	userlist "github.com/magabrotheeeer/course-catalog/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/course-catalog/internal/http/handlers/user/login"
	"github.com/magabrotheeeer/course-catalog/internal/http/handlers/user/logout"
	"github.com/magabrotheeeer/course-catalog/internal/http/handlers/user/profile"
	"github.com/magabrotheeeer/course-catalog/internal/http/handlers/user/register"
	userremove "github.com/magabrotheeeer/course-catalog/internal/http/handlers/user/remove"
	userupdate "github.com/magabrotheeeer/course-catalog/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/course-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-catalog/internal/media"
	authservice "github.com/magabrotheeeer/course-catalog/internal/services/auth"
	courseservice "github.com/magabrotheeeer/course-catalog/internal/services/course"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService,
	courseService *courseservice.CourseService, mediaStorage *media.Storage, cookieMaxAge int) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/users/register", register.New(logger, authService).ServeHTTP)
		r.Post("/users/login", login.New(logger, authService, cookieMaxAge).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))

			r.Get("/users", userlist.New(logger, authService).ServeHTTP)
			r.Post("/users/logout", logout.New(logger).ServeHTTP)
			r.Get("/users/profile", profile.New(logger, authService).ServeHTTP)
			r.Put("/users/profile", userupdate.New(logger, authService).ServeHTTP)
			r.Delete("/users/profile", userremove.New(logger, authService).ServeHTTP)

			r.Post("/courses", coursecreate.New(logger, courseService, mediaStorage).ServeHTTP)
			r.Get("/courses", courselist.New(logger, courseService).ServeHTTP)
			r.Get("/courses/{id}", courseread.New(logger, courseService).ServeHTTP)
			r.Put("/courses/{id}", courseupdate.New(logger, courseService, mediaStorage).ServeHTTP)
			r.Delete("/courses/{id}", courseremove.New(logger, courseService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
