package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/venturelink-api/internal/application/auth"
	"github.com/tu-usuario/venturelink-api/internal/application/dto"
	"github.com/tu-usuario/venturelink-api/internal/domain"
	"github.com/tu-usuario/venturelink-api/internal/domain/entity"
)

// Locals keys para el usuario resuelto y su flag de administrador.
const (
	LocalUser    = "auth_user"
	LocalIsAdmin = "auth_is_admin"
)

// AuthMiddleware resuelve la sesión completa: extrae el token (cookie o
// Bearer), lo verifica y carga el usuario VIVO del store vía
// auth.Resolve. Todo fallo responde 401 sin distinguir la causa. A
// diferencia del edge guard, este es el chequeo autoritativo.
func AuthMiddleware(uc *auth.AuthUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "sesión requerida"})
		}
		user, isAdmin, err := uc.Resolve(tokenString)
		if err != nil {
			// Solo los fallos de autenticación responden 401; un fallo del
			// store es transitorio y se responde 500 sin desloguear a nadie.
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
			}
			return internalError(c, err)
		}
		c.Locals(LocalUser, user)
		c.Locals(LocalIsAdmin, isAdmin)
		return c.Next()
	}
}

// RequireAdministrator autoriza solo a administradores. Debe usarse DESPUÉS
// de AuthMiddleware (necesita LocalIsAdmin).
func RequireAdministrator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUser(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
		}
		if !IsAdministrator(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "requiere permisos de administrador"})
		}
		return c.Next()
	}
}

// extractToken busca el token de sesión primero en la cookie y después en
// el header Authorization (Bearer). Ambos portan el mismo token firmado.
func extractToken(c *fiber.Ctx) string {
	if v := c.Cookies(CookieName); v != "" {
		return v
	}
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetUser devuelve el usuario resuelto del contexto (después del middleware
// de auth); nil si no hay sesión.
func GetUser(c *fiber.Ctx) *entity.User {
	v := c.Locals(LocalUser)
	if v == nil {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

// IsAdministrator devuelve el flag de administrador del contexto.
func IsAdministrator(c *fiber.Ctx) bool {
	v := c.Locals(LocalIsAdmin)
	if v == nil {
		return false
	}
	b, _ := v.(bool)
	return b
}
