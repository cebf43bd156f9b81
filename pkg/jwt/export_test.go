package jwt

import "time"

// SetTimeNow fija el reloj del paquete y devuelve una función que lo
// restaura.
func SetTimeNow(fn func() time.Time) (restore func()) {
	prev := timeNow
	timeNow = fn
	return func() { timeNow = prev }
}
