package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/venturelink-api/internal/domain"
	"github.com/tu-usuario/venturelink-api/internal/domain/entity"
	"github.com/tu-usuario/venturelink-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL
// (driver alternativo al document store; mismo contrato).
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create persiste un nuevo usuario. La unicidad de email la garantiza el
// constraint único de la tabla.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, reset_code, reset_code_expires, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(context.Background(), query,
		user.ID, user.Email, user.PasswordHash, user.Role,
		nullString(user.ResetCode), nullTime(user.ResetCodeExpires),
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) FindByID(id string) (*entity.User, error) {
	return r.findOne(`WHERE id = $1`, id)
}

// FindByEmail obtiene un usuario por email; (nil, nil) si no existe.
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	return r.findOne(`WHERE email = $1`, email)
}

// Save actualiza el registro completo del usuario en un solo UPDATE.
func (r *UserRepo) Save(user *entity.User) error {
	query := `
		UPDATE users SET email = $2, password_hash = $3, role = $4,
			reset_code = $5, reset_code_expires = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.pool.Exec(context.Background(), query,
		user.ID, user.Email, user.PasswordHash, user.Role,
		nullString(user.ResetCode), nullTime(user.ResetCodeExpires),
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List lista usuarios con paginación, más recientes primero.
func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT id, email, password_hash, role, reset_code, reset_code_expires, created_at, updated_at
		FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepo) findOne(where string, arg any) (*entity.User, error) {
	query := `
		SELECT id, email, password_hash, role, reset_code, reset_code_expires, created_at, updated_at
		FROM users ` + where
	row := r.pool.QueryRow(context.Background(), query, arg)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var resetCode *string
	var resetExpires *time.Time
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role,
		&resetCode, &resetExpires, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if resetCode != nil {
		u.ResetCode = *resetCode
	}
	if resetExpires != nil {
		u.ResetCodeExpires = *resetExpires
	}
	return &u, nil
}

// isUniqueViolation detecta la violación del índice único de email
// (unique_violation, SQLSTATE 23505) para mapearla al error de dominio.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
