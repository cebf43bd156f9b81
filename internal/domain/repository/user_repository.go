package repository

import "github.com/tu-usuario/venturelink-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Find* devuelven (nil, nil) cuando no hay registro; la
// unicidad de email la garantiza el adaptador (índice único) devolviendo
// domain.ErrEmailAlreadyExists en Create.
type UserRepository interface {
	Create(user *entity.User) error
	FindByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	// Save persiste el estado completo del usuario (password_hash y campos
	// de recuperación incluidos) en una sola escritura del documento.
	Save(user *entity.User) error
	List(limit, offset int) ([]*entity.User, error)
}
