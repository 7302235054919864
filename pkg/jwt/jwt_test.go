package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/PyKydo/LevelUpGamer/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "ana@duoc.cl", "Cliente", "levelup-test", 5)
	require.NoError(t, err)

	id, email, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", id)
	assert.Equal(t, "ana@duoc.cl", email)
	assert.Equal(t, "Cliente", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "a@b.cl", "Cliente", "x", 5)
	require.NoError(t, err)
	_, _, _, err = pkgjwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "a@b.cl", "Cliente", "x", -1)
	require.NoError(t, err)
	_, _, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u", "e", "r", "i", 1)
	assert.Error(t, err)
	_, _, _, err = pkgjwt.Parse("", "x")
	assert.Error(t, err)
}
