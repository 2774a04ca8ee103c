// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/clarashop/clara-backend/internal/config"
)

func TestStaticVerifierPlaintext(t *testing.T) {
	verifier := NewStaticVerifier(config.AdminConfig{
		Username: "admin",
		Password: "secret",
	})

	assert.NoError(t, verifier.Verify("admin", "secret"))
	assert.ErrorIs(t, verifier.Verify("admin", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, verifier.Verify("other", "secret"), ErrInvalidCredentials)
}

func TestStaticVerifierBcryptHashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-secret"), bcrypt.MinCost)
	assert.NoError(t, err)

	verifier := NewStaticVerifier(config.AdminConfig{
		Username:     "admin",
		Password:     "plaintext-ignored",
		PasswordHash: string(hash),
	})

	assert.NoError(t, verifier.Verify("admin", "hashed-secret"))
	assert.ErrorIs(t, verifier.Verify("admin", "plaintext-ignored"), ErrInvalidCredentials)
}

func TestStaticVerifierRejectsEmptyConfiguration(t *testing.T) {
	verifier := NewStaticVerifier(config.AdminConfig{Username: "admin"})

	// No password configured means nothing can authenticate, not even an
	// empty password.
	assert.ErrorIs(t, verifier.Verify("admin", ""), ErrInvalidCredentials)
}
