package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/accounts/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app. Auth endpoints sit
// at the root; /me and /verify require a bearer token.
func Register(app *fiber.App, auth *handlers.AuthHandler, user *handlers.UserHandler, health *handlers.HealthHandler, authMW fiber.Handler) {
	// Health and readiness endpoints for probes/monitoring
	app.Get("/health", health.Health)
	app.Get("/ready", health.Ready)

	app.Post("/register", auth.Register)
	app.Post("/login", auth.Login)

	app.Get("/me", authMW, user.Me)
	app.Post("/verify", authMW, user.Verify)
}
