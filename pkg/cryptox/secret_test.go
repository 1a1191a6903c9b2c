package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox-test")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestHashSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"simple secret", "s3cr3t"},
		{"complex secret", "P@ssw0rd!#$%^&*()"},
		{"long secret", strings.Repeat("a", 100)},
		{"empty secret", ""},
		{"unicode secret", "пароль🔒密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashSecret(tt.secret)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"), "hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.Equal(t, "m=19456,t=2,p=1", parts[3])
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")

			require.NoError(t, VerifySecret(tt.secret, hash))
		})
	}
}

func TestHashSecret_UniqueSalts(t *testing.T) {
	hash1, err := HashSecret("same-secret")
	require.NoError(t, err)
	hash2, err := HashSecret("same-secret")
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.NoError(t, VerifySecret("same-secret", hash1))
	require.NoError(t, VerifySecret("same-secret", hash2))
}

func TestVerifySecret_Mismatch(t *testing.T) {
	hash, err := HashSecret("correct-secret")
	require.NoError(t, err)

	for _, wrong := range []string{
		"wrong-secret",
		"Correct-Secret",
		"correct-secret ",
		"",
		strings.Repeat("x", 10000),
	} {
		require.ErrorIs(t, VerifySecret(wrong, hash), ErrSecretMismatch)
	}
}

func TestVerifySecret_InvalidHashFormat(t *testing.T) {
	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"plaintext", "s3cr3t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, VerifySecret("s3cr3t", tt.invalidHash), ErrMalformedHash)
		})
	}
}

func TestDummyHash(t *testing.T) {
	h := DummyHash()
	require.Equal(t, h, DummyHash(), "dummy hash is computed once")
	require.ErrorIs(t, VerifySecret("anything", h), ErrSecretMismatch)
}

func TestPepperPersists(t *testing.T) {
	p1, err := Pepper()
	require.NoError(t, err)
	require.NotEmpty(t, p1)

	p2, err := Pepper()
	require.NoError(t, err)
	require.Equal(t, p1, p2)
}
