// Package password encapsula el hashing de contraseñas con bcrypt.
package password

import "golang.org/x/crypto/bcrypt"

// Hash genera un hash bcrypt con salt fresco por llamada (dos llamadas con
// el mismo plaintext producen digests distintos). El costo por defecto de
// bcrypt apunta a decenas de milisegundos por verificación.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify recalcula con el salt embebido en el digest y compara en tiempo
// constante. Nunca falla: un digest malformado o una contraseña incorrecta
// devuelven false.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
