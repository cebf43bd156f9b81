package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tu-usuario/venturelink-api/internal/domain"
	"github.com/tu-usuario/venturelink-api/internal/domain/entity"
	"github.com/tu-usuario/venturelink-api/internal/domain/repository"
	"github.com/tu-usuario/venturelink-api/pkg/password"
)

// resetCodeLength caracteres del código de un solo uso. Con 36 símbolos da
// ~31 bits de entropía, suficiente para una ventana de 15 minutos sin
// limitación de intentos por diseño.
const (
	resetCodeLength   = 6
	resetCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Mailer es el colaborador de salida de email. Los envíos son best-effort:
// un fallo se loguea y nunca bloquea ni revierte al que llama.
type Mailer interface {
	Send(to, subject, body string) error
}

// ResetUseCase flujo de recuperación de contraseña con códigos de un solo
// uso acotados en el tiempo. Estados por usuario:
//
//	sin intento -> código emitido -> (verificado, no consumido) -> sin intento
//
// Verify NO consume el código (la UI comprueba el código antes de pedir la
// contraseña nueva); solo Complete lo limpia. Un Start nuevo sobreescribe
// cualquier intento anterior.
type ResetUseCase struct {
	userRepo repository.UserRepository
	mailer   Mailer
	ttl      time.Duration
}

// NewResetUseCase construye el flujo de recuperación. ttl es la ventana de
// validez del código (típicamente 15 minutos).
func NewResetUseCase(userRepo repository.UserRepository, mailer Mailer, ttl time.Duration) *ResetUseCase {
	return &ResetUseCase{userRepo: userRepo, mailer: mailer, ttl: ttl}
}

// Start genera un código nuevo, lo persiste con su expiración y lo despacha
// por email. Si el email no existe devuelve nil igualmente para no revelar
// qué cuentas existen; el miss solo se loguea. El intento existe desde que
// se persiste: un fallo de envío posterior no lo revierte.
//
// Dos Start concurrentes para el mismo email compiten de forma benigna:
// gana la última escritura y el código anterior queda invalidado.
func (uc *ResetUseCase) Start(email string) error {
	user, err := uc.userRepo.FindByEmail(NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		log.Debug().Str("email", email).Msg("recuperación solicitada para email desconocido")
		return nil
	}

	code, err := generateResetCode()
	if err != nil {
		return err
	}
	user.ResetCode = code
	user.ResetCodeExpires = time.Now().Add(uc.ttl)
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Save(user); err != nil {
		return err
	}

	// Despacho fuera de banda: sin timeout y sin bloquear la emisión.
	go func(to, code string) {
		body := fmt.Sprintf("Tu código de recuperación es %s. Expira en %d minutos.", code, int(uc.ttl.Minutes()))
		if err := uc.mailer.Send(to, "Recuperación de contraseña", body); err != nil {
			log.Warn().Err(err).Str("email", to).Msg("envío de código de recuperación falló")
		}
	}(user.Email, code)

	return nil
}

// Verify comprueba código y expiración sin consumir el código: el mismo
// código puede verificarse varias veces dentro de su ventana. Devuelve
// domain.ErrResetCodeInvalid (usuario inexistente o código distinto, match
// exacto sin normalizar) o domain.ErrResetCodeExpired.
func (uc *ResetUseCase) Verify(email, code string) error {
	_, err := uc.lookup(email, code)
	return err
}

// Complete revalida código y expiración igual que Verify y, si pasa, fija
// password_hash = hash(new_password) y limpia código y expiración juntos en
// una sola escritura. Cualquier fallo deja el intento almacenado intacto.
func (uc *ResetUseCase) Complete(email, code, newPassword string) error {
	user, err := uc.lookup(email, code)
	if err != nil {
		return err
	}
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ClearResetAttempt()
	user.UpdatedAt = time.Now()
	return uc.userRepo.Save(user)
}

func (uc *ResetUseCase) lookup(email, code string) (*entity.User, error) {
	user, err := uc.userRepo.FindByEmail(NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasResetAttempt() {
		return nil, domain.ErrResetCodeInvalid
	}
	if subtle.ConstantTimeCompare([]byte(user.ResetCode), []byte(code)) != 1 {
		return nil, domain.ErrResetCodeInvalid
	}
	if time.Now().After(user.ResetCodeExpires) {
		return nil, domain.ErrResetCodeExpired
	}
	return user, nil
}

// generateResetCode produce resetCodeLength caracteres alfanuméricos con
// crypto/rand, descartando bytes fuera de rango para no sesgar el alfabeto.
func generateResetCode() (string, error) {
	out := make([]byte, 0, resetCodeLength)
	buf := make([]byte, resetCodeLength*2)
	max := byte(256 - 256%len(resetCodeAlphabet))
	for len(out) < resetCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generar código: %w", err)
		}
		for _, b := range buf {
			if b >= max {
				continue
			}
			out = append(out, resetCodeAlphabet[int(b)%len(resetCodeAlphabet)])
			if len(out) == resetCodeLength {
				break
			}
		}
	}
	return string(out), nil
}
