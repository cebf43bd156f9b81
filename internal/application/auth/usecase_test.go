package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/venturelink-api/internal/application/auth"
	"github.com/tu-usuario/venturelink-api/internal/application/dto"
	"github.com/tu-usuario/venturelink-api/internal/domain"
	"github.com/tu-usuario/venturelink-api/internal/domain/entity"
	"github.com/tu-usuario/venturelink-api/pkg/jwt"
	"github.com/tu-usuario/venturelink-api/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "venturelink-test"
	testExpMin = 60
)

var testJWT = auth.JWTConfig{Secret: testSecret, ExpMinutes: testExpMin, Issuer: testIssuer}

// memRepo implementación en memoria del puerto UserRepository. Guarda copias
// para que los tests puedan comprobar que un fallo no toca el estado
// persistido.
type memRepo struct {
	byID map[string]entity.User
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[string]entity.User)}
}

func (r *memRepo) Create(user *entity.User) error {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.byID[user.ID] = *user
	return nil
}

func (r *memRepo) FindByID(id string) (*entity.User, error) {
	if u, ok := r.byID[id]; ok {
		clone := u
		return &clone, nil
	}
	return nil, nil
}

func (r *memRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memRepo) Save(user *entity.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.byID[user.ID] = *user
	return nil
}

func (r *memRepo) List(limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.byID {
		clone := u
		out = append(out, &clone)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newUseCase(repo *memRepo, adminEmails ...string) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, domain.NewAdminPolicy(adminEmails), testJWT)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_NormalizaEmailYHasheaPassword(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(repo)

	out, err := uc.Register(dto.RegisterRequest{Email: "  Founder@X.com ", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	assert.Equal(t, "founder@x.com", out.User.Email, "el email debe normalizarse en la escritura")
	assert.Equal(t, entity.RoleFounder, out.User.Role, "sin rol explícito el default es founder")
	assert.False(t, out.User.IsAdministrator)

	stored, err := repo.FindByEmail("founder@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret123", stored.PasswordHash, "nunca se persiste la contraseña en plano")
	assert.True(t, password.Verify("secret123", stored.PasswordHash))

	// El token emitido debe verificar inmediatamente después de la emisión.
	userID, email, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, userID)
	assert.Equal(t, "founder@x.com", email)
}

func TestRegister_EmailDuplicadoRetornaConflicto(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(repo)

	_, err := uc.Register(dto.RegisterRequest{Email: "founder@x.com", Password: "secret123"})
	require.NoError(t, err)

	// Mismo email con otra capitalización: la normalización lo detecta.
	_, err = uc.Register(dto.RegisterRequest{Email: "FOUNDER@x.com", Password: "otraclave1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_RolInvestorSePersiste(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(repo)

	out, err := uc.Register(dto.RegisterRequest{Email: "inv@x.com", Password: "secret123", Role: entity.RoleInvestor})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleInvestor, out.User.Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesValidas(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(repo)
	_, err := uc.Register(dto.RegisterRequest{Email: "founder@x.com", Password: "secret123"})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "Founder@X.com", Password: "secret123"})
	require.NoError(t, err, "el login debe normalizar el email en la búsqueda")
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "founder@x.com", out.User.Email)
}

func TestLogin_PasswordIncorrectaYUsuarioInexistente(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(repo)
	_, err := uc.Register(dto.RegisterRequest{Email: "founder@x.com", Password: "secret123"})
	require.NoError(t, err)

	// Ambos fallos colapsan en el mismo error para no filtrar cuál falló.
	_, err = uc.Login(dto.LoginRequest{Email: "founder@x.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@x.com", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Resolve (resolución de sesión)
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_TokenValidoDevuelveUsuarioVivo(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(repo, "admin@x.com")
	out, err := uc.Register(dto.RegisterRequest{Email: "founder@x.com", Password: "secret123"})
	require.NoError(t, err)

	user, isAdmin, err := uc.Resolve(out.Token)
	require.NoError(t, err)
	assert.Equal(t, "founder@x.com", user.Email)
	assert.Equal(t, entity.RoleFounder, user.Role)
	assert.False(t, isAdmin, "founder@x.com no está en la lista de administradores")
}

func TestResolve_FlagAdminSegunAllowlist(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(repo, "admin@x.com")
	out, err := uc.Register(dto.RegisterRequest{Email: "admin@x.com", Password: "secret123"})
	require.NoError(t, err)

	_, isAdmin, err := uc.Resolve(out.Token)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestResolve_UsaEmailVivoNoElDelToken(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(repo, "admin@x.com")
	out, err := uc.Register(dto.RegisterRequest{Email: "founder@x.com", Password: "secret123"})
	require.NoError(t, err)

	// El token sigue portando founder@x.com, pero el registro vivo cambia.
	stored, err := repo.FindByEmail("founder@x.com")
	require.NoError(t, err)
	stored.Email = "admin@x.com"
	require.NoError(t, repo.Save(stored))

	user, isAdmin, err := uc.Resolve(out.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@x.com", user.Email, "se devuelve el registro re-consultado")
	assert.True(t, isAdmin, "la autorización se decide con el email almacenado, no con el claim")
}

func TestResolve_SujetoBorradoNoSeConfia(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(repo)

	// Token sintácticamente válido para un usuario que no existe en el store.
	token, err := jwt.Generate(testSecret, "id-inexistente", "fantasma@x.com", testIssuer, testExpMin)
	require.NoError(t, err)

	_, _, err = uc.Resolve(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolve_TokenInvalidoEsIdempotente(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(repo)

	// Verificar un token basura repetidamente siempre devuelve el mismo
	// resultado, nunca un panic.
	for i := 0; i < 3; i++ {
		_, _, err := uc.Resolve("token.basura.aqui")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
}

func TestResolve_TokenExpirado(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(repo)
	_, err := uc.Register(dto.RegisterRequest{Email: "founder@x.com", Password: "secret123"})
	require.NoError(t, err)

	stored, err := repo.FindByEmail("founder@x.com")
	require.NoError(t, err)

	// Token con expiración en el pasado para el mismo usuario.
	expired, err := jwt.Generate(testSecret, stored.ID, stored.Email, testIssuer, -1)
	require.NoError(t, err)

	_, _, err = uc.Resolve(expired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "expirado colapsa en el mismo error que malformado")
}
