package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vibestack/backend/internal/core/ports"
)

// NewHandler wires the full HTTP surface. Panics anywhere in the stack
// are caught by the recoverer and answered with a bare 500.
func NewHandler(
	authService ports.AuthService,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	healthHandler *HealthHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler.Check)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/register", authHandler.Register)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(Authenticator(authService))

			r.Get("/me", userHandler.GetMe)
			r.Patch("/me", userHandler.UpdateMe)
			r.Post("/me/password", userHandler.ChangePassword)

			r.Group(func(r chi.Router) {
				r.Use(RequireSuperuser)
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.GetByID)
				r.Delete("/{id}", userHandler.Delete)
			})
		})
	})

	return r
}
