package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/venturelink-api/internal/application/auth"
	"github.com/tu-usuario/venturelink-api/internal/application/dto"
)

// AdminHandler operaciones restringidas a administradores.
type AdminHandler struct {
	uc *auth.AuthUseCase
}

// NewAdminHandler construye el handler de administración.
func NewAdminHandler(uc *auth.AuthUseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// ListUsers godoc
// @Summary      Listar usuarios (solo administradores)
// @Tags         admin
// @Produce      json
// @Param        limit   query  int  false  "máximo de resultados"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}   dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()
	users, err := h.uc.ListUsers(page.Limit, page.Offset)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(users)
}
