package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/venturelink-api/internal/application/auth"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ResetUC        *auth.ResetUseCase
	CookieMaxAge   time.Duration
	GuardPrefixes  []string
	GuardEntryPath string
}

// Router registra el edge guard y las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Guard de borde: corre antes que cualquier handler, solo presencia de
	// cookie sobre los prefijos protegidos.
	app.Use(EdgeGuard(deps.GuardPrefixes, deps.GuardEntryPath))

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.ResetUC, deps.CookieMaxAge)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/verify-reset-code", authHandler.VerifyResetCode)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Identidad (requiere sesión resuelta)
	authGroup.Get("/me", AuthMiddleware(deps.AuthUC), authHandler.Me)

	// Administración (sesión + allowlist de administradores)
	admin := api.Group("/admin", AuthMiddleware(deps.AuthUC), RequireAdministrator())
	adminHandler := NewAdminHandler(deps.AuthUC)
	admin.Get("/users", adminHandler.ListUsers)
}
