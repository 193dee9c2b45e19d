package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/0xteamMuffin/Hireability/internal/handlers"
)

func AuthRoutes(router *chi.Mux, authHandler *handlers.AuthHandler) {
	router.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", authHandler.RegisterHandler)
		r.Post("/login", authHandler.LoginHandler)
		r.Post("/logout", authHandler.LogoutHandler)
	})
}
