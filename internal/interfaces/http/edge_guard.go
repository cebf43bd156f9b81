package http

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// EdgeGuard es el chequeo barato que corre antes de cualquier handler sobre
// los prefijos protegidos. Solo prueba la PRESENCIA de la cookie de sesión,
// nunca su validez: corre en el borde, sin acceso al store de credenciales.
// Sin cookie redirige al punto de entrada con la ruta original en
// callbackUrl; con cookie (aunque sea basura) deja pasar — el chequeo
// autoritativo es AuthMiddleware dentro del handler.
func EdgeGuard(prefixes []string, entryPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if !isProtected(path, prefixes) {
			return c.Next()
		}
		if c.Cookies(CookieName) == "" {
			target := entryPath + "?callbackUrl=" + url.QueryEscape(path)
			return c.Redirect(target, fiber.StatusFound)
		}
		return c.Next()
	}
}

// isProtected comprueba si la ruta cae bajo alguno de los prefijos
// protegidos (el prefijo exacto o cualquier ruta anidada bajo él).
func isProtected(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
