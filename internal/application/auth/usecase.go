package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/venturelink-api/internal/application/dto"
	"github.com/tu-usuario/venturelink-api/internal/domain"
	"github.com/tu-usuario/venturelink-api/internal/domain/entity"
	"github.com/tu-usuario/venturelink-api/internal/domain/repository"
	"github.com/tu-usuario/venturelink-api/pkg/jwt"
	"github.com/tu-usuario/venturelink-api/pkg/password"
)

// JWTConfig configuración para generación de tokens de sesión.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y resolución
// de sesión. Es el único punto por el que pasa toda operación que necesita
// saber "quién llama".
type AuthUseCase struct {
	userRepo repository.UserRepository
	admins   *domain.AdminPolicy
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, admins *domain.AdminPolicy, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, admins: admins, jwtCfg: jwtCfg}
}

// NormalizeEmail aplica la normalización canónica de email: trim + lowercase.
// Toda escritura y búsqueda pasa por aquí.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register crea un usuario: hashea password con bcrypt, persiste y emite un
// token de sesión. Devuelve domain.ErrEmailAlreadyExists si el email ya
// existe.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.SessionResponse, error) {
	email := NormalizeEmail(in.Email)
	existing, err := uc.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleFounder
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return uc.session(user)
}

// Login verifica email/password y emite un token de sesión. Credenciales
// incorrectas (usuario inexistente o password que no verifica) devuelven
// el mismo domain.ErrUnauthorized.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.SessionResponse, error) {
	user, err := uc.userRepo.FindByEmail(NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !password.Verify(in.Password, user.PasswordHash) {
		return nil, domain.ErrUnauthorized
	}
	return uc.session(user)
}

// Resolve verifica un token de sesión y devuelve el usuario VIVO del store
// más el flag de administrador. Cualquier fallo (token malformado, firma
// incorrecta, expirado, o sujeto inexistente) colapsa en
// domain.ErrUnauthorized sin distinguir la causa.
//
// El flag de administrador se calcula contra el email almacenado, no contra
// el claim del token: un cambio de email o una de-adminización surten efecto
// de inmediato, sin esperar a que el token expire.
func (uc *AuthUseCase) Resolve(tokenString string) (*entity.User, bool, error) {
	userID, _, err := jwt.Parse(uc.jwtCfg.Secret, tokenString)
	if err != nil {
		return nil, false, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.FindByID(userID)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		// Token sintácticamente válido para un sujeto borrado: no se confía.
		return nil, false, domain.ErrUnauthorized
	}
	return user, uc.admins.IsAdministrator(user.Email), nil
}

// ListUsers listado paginado para la vista de administración.
func (uc *AuthUseCase) ListUsers(limit, offset int) ([]dto.UserResponse, error) {
	users, err := uc.userRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *uc.ToUserResponse(u))
	}
	return out, nil
}

// ToUserResponse proyecta la entidad a DTO, derivando is_administrator de la
// política (nunca del rol persistido).
func (uc *AuthUseCase) ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Role:            u.Role,
		IsAdministrator: uc.admins.IsAdministrator(u.Email),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (uc *AuthUseCase) session(user *entity.User) (*dto.SessionResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{
		Token: token,
		User:  *uc.ToUserResponse(user),
	}, nil
}
