package auth_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/venturelink-api/internal/application/auth"
	"github.com/tu-usuario/venturelink-api/internal/application/dto"
	"github.com/tu-usuario/venturelink-api/internal/domain"
	"github.com/tu-usuario/venturelink-api/pkg/password"
)

// captureMailer captura los envíos por canal: el despacho es en goroutine y
// el test debe esperar sin dormir a ciegas.
type captureMailer struct {
	sent chan string
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{sent: make(chan string, 4)}
}

func (m *captureMailer) Send(to, subject, body string) error {
	m.sent <- body
	return nil
}

func (m *captureMailer) wait(t *testing.T) string {
	t.Helper()
	select {
	case body := <-m.sent:
		return body
	case <-time.After(2 * time.Second):
		t.Fatal("no se despachó ningún email")
		return ""
	}
}

// setupReset registra founder@x.com/secret123 y devuelve los casos de uso
// compartidos por los tests del flujo.
func setupReset(t *testing.T) (*memRepo, *auth.ResetUseCase, *captureMailer) {
	t.Helper()
	repo := newMemRepo()
	uc := newUseCase(repo)
	_, err := uc.Register(dto.RegisterRequest{Email: "founder@x.com", Password: "secret123"})
	require.NoError(t, err)
	mailer := newCaptureMailer()
	reset := auth.NewResetUseCase(repo, mailer, 15*time.Minute)
	return repo, reset, mailer
}

func storedCode(t *testing.T, repo *memRepo, email string) string {
	t.Helper()
	u, err := repo.FindByEmail(email)
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NotEmpty(t, u.ResetCode, "debe haber un intento de recuperación vigente")
	return u.ResetCode
}

func TestStart_PersisteCodigoYDespachaEmail(t *testing.T) {
	repo, reset, mailer := setupReset(t)

	require.NoError(t, reset.Start("Founder@X.com"))

	u, err := repo.FindByEmail("founder@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), u.ResetCode,
		"el código es de 6 caracteres alfanuméricos")
	assert.False(t, u.ResetCodeExpires.IsZero(), "código y expiración se guardan juntos")
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), u.ResetCodeExpires, 5*time.Second)

	body := mailer.wait(t)
	assert.Contains(t, body, u.ResetCode, "el código despachado es el persistido")
}

func TestStart_EmailDesconocidoRespondeIgual(t *testing.T) {
	_, reset, mailer := setupReset(t)

	// Sin error y sin email: no se revela si la cuenta existe.
	require.NoError(t, reset.Start("nadie@x.com"))
	select {
	case <-mailer.sent:
		t.Fatal("no debe despacharse email para cuentas inexistentes")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStart_SobrescribeIntentoAnterior(t *testing.T) {
	repo, reset, mailer := setupReset(t)

	require.NoError(t, reset.Start("founder@x.com"))
	mailer.wait(t)
	first := storedCode(t, repo, "founder@x.com")

	require.NoError(t, reset.Start("founder@x.com"))
	mailer.wait(t)
	second := storedCode(t, repo, "founder@x.com")

	require.NotEqual(t, first, second)
	assert.ErrorIs(t, reset.Verify("founder@x.com", first), domain.ErrResetCodeInvalid,
		"un Start nuevo invalida el código anterior")
	assert.NoError(t, reset.Verify("founder@x.com", second))
}

func TestVerify_NoConsumeElCodigo(t *testing.T) {
	repo, reset, mailer := setupReset(t)
	require.NoError(t, reset.Start("founder@x.com"))
	mailer.wait(t)
	code := storedCode(t, repo, "founder@x.com")

	// La UI comprueba el código antes de pedir la contraseña nueva: el
	// mismo código debe verificar varias veces dentro de su ventana.
	for i := 0; i < 3; i++ {
		assert.NoError(t, reset.Verify("founder@x.com", code))
	}
}

func TestVerify_SinIntentoPendienteEsInvalido(t *testing.T) {
	// Usuario registrado sin ningún Start previo: no hay intento que
	// verificar, cualquier código se rechaza.
	_, reset, _ := setupReset(t)

	assert.ErrorIs(t, reset.Verify("founder@x.com", "ABC123"), domain.ErrResetCodeInvalid)
	assert.ErrorIs(t, reset.Verify("founder@x.com", ""), domain.ErrResetCodeInvalid)
}

func TestVerify_CodigoIncorrectoYUsuarioInexistente(t *testing.T) {
	repo, reset, mailer := setupReset(t)
	require.NoError(t, reset.Start("founder@x.com"))
	mailer.wait(t)
	code := storedCode(t, repo, "founder@x.com")

	assert.ErrorIs(t, reset.Verify("founder@x.com", "XXXXXX"), domain.ErrResetCodeInvalid)
	assert.ErrorIs(t, reset.Verify("nadie@x.com", code), domain.ErrResetCodeInvalid)
	// Match exacto, sin normalizar el código.
	assert.ErrorIs(t, reset.Verify("founder@x.com", code+" "), domain.ErrResetCodeInvalid)
}

func TestVerify_CodigoExpirado(t *testing.T) {
	repo, reset, mailer := setupReset(t)
	require.NoError(t, reset.Start("founder@x.com"))
	mailer.wait(t)
	code := storedCode(t, repo, "founder@x.com")

	// Simular el paso del tiempo venciendo el intento almacenado.
	u, err := repo.FindByEmail("founder@x.com")
	require.NoError(t, err)
	u.ResetCodeExpires = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Save(u))

	assert.ErrorIs(t, reset.Verify("founder@x.com", code), domain.ErrResetCodeExpired)
	assert.ErrorIs(t, reset.Complete("founder@x.com", code, "nuevaclave1"), domain.ErrResetCodeExpired)
}

func TestComplete_CambiaPasswordYLimpiaElIntento(t *testing.T) {
	repo, reset, mailer := setupReset(t)
	require.NoError(t, reset.Start("founder@x.com"))
	mailer.wait(t)
	code := storedCode(t, repo, "founder@x.com")

	require.NoError(t, reset.Complete("founder@x.com", code, "nuevaclave1"))

	u, err := repo.FindByEmail("founder@x.com")
	require.NoError(t, err)
	assert.False(t, password.Verify("secret123", u.PasswordHash), "la contraseña vieja deja de verificar")
	assert.True(t, password.Verify("nuevaclave1", u.PasswordHash))
	assert.Empty(t, u.ResetCode, "código y expiración se limpian juntos")
	assert.True(t, u.ResetCodeExpires.IsZero())

	// El código consumido ya no verifica.
	assert.ErrorIs(t, reset.Verify("founder@x.com", code), domain.ErrResetCodeInvalid)
}

func TestComplete_FalloDejaElIntentoIntacto(t *testing.T) {
	repo, reset, mailer := setupReset(t)
	require.NoError(t, reset.Start("founder@x.com"))
	mailer.wait(t)
	code := storedCode(t, repo, "founder@x.com")

	require.ErrorIs(t, reset.Complete("founder@x.com", "XXXXXX", "nuevaclave1"), domain.ErrResetCodeInvalid)

	u, err := repo.FindByEmail("founder@x.com")
	require.NoError(t, err)
	assert.Equal(t, code, u.ResetCode, "un intento fallido no toca el código almacenado")
	assert.True(t, password.Verify("secret123", u.PasswordHash), "ni la contraseña")
}
