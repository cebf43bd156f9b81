package entity

import "time"

// Roles válidos para User. El rol se fija en el registro y no cambia.
// "administrator" NO es un rol persistido: se deriva en tiempo de request
// contra la lista de administradores (ver domain.AdminPolicy).
const (
	RoleFounder  = "founder"
	RoleInvestor = "investor"
)

// User representa una cuenta de la plataforma (founder o investor).
type User struct {
	ID           string
	Email        string // único, normalizado (lowercase + trim) en cada escritura y búsqueda
	PasswordHash string // bcrypt hash, nunca plano después de persistir
	Role         string // founder | investor

	// Campos del flujo de recuperación de contraseña. Invariante: ambos
	// presentes o ambos ausentes, nunca uno sin el otro.
	ResetCode        string
	ResetCodeExpires time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasResetAttempt indica si hay un intento de recuperación vigente o vencido
// sin limpiar. Como máximo existe un intento por usuario: un Start nuevo
// sobreescribe el anterior.
func (u *User) HasResetAttempt() bool {
	return u.ResetCode != "" && !u.ResetCodeExpires.IsZero()
}

// ClearResetAttempt limpia código y expiración juntos.
func (u *User) ClearResetAttempt() {
	u.ResetCode = ""
	u.ResetCodeExpires = time.Time{}
}
