// Package logout реализует HTTP-обработчик выхода из учетной записи.
// Токен не отзывается и остается действительным до истечения срока,
// удаляется только cookie.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-catalog/internal/http/response"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	middlewarectx.ClearAuthCookie(w)

	uid, _ := r.Context().Value(middlewarectx.UserUID).(string)
	log.Info("user logged out", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "logged out successfully",
	}))
}
