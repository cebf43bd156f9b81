package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/venturelink-api/pkg/password"
)

func TestHashYVerify_RoundTrip(t *testing.T) {
	digest, err := password.Hash("secret123")
	require.NoError(t, err)
	require.NotEmpty(t, digest)

	assert.True(t, password.Verify("secret123", digest))
	assert.False(t, password.Verify("secret124", digest), "otra contraseña no debe verificar")
	assert.False(t, password.Verify("", digest))
}

func TestHash_SaltFrescoPorLlamada(t *testing.T) {
	a, err := password.Hash("secret123")
	require.NoError(t, err)
	b, err := password.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "cada llamada embebe un salt distinto")
	assert.True(t, password.Verify("secret123", a))
	assert.True(t, password.Verify("secret123", b))
}

func TestVerify_DigestMalformadoDevuelveFalse(t *testing.T) {
	// Verify es total: nunca entra en pánico ni devuelve error.
	assert.False(t, password.Verify("secret123", ""))
	assert.False(t, password.Verify("secret123", "no-es-un-hash-bcrypt"))
	assert.False(t, password.Verify("secret123", "$2a$corrupto"))
}
