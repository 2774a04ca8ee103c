// internal/services/auth_service.go
package services

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/clarashop/clara-backend/internal/config"
	"github.com/clarashop/clara-backend/internal/utils"
)

// CredentialVerifier checks a username/password pair. The back office ships
// with a single built-in account, but route protection only depends on this
// interface, so an alternate identity provider can be plugged in without
// touching the handlers.
type CredentialVerifier interface {
	Verify(username, password string) error
}

var ErrInvalidCredentials = errors.New("invalid credentials")

// StaticVerifier verifies against the single admin account from the
// configuration. A bcrypt hash takes precedence over the plaintext password
// when both are configured.
type StaticVerifier struct {
	username     string
	password     string
	passwordHash string
}

func NewStaticVerifier(cfg config.AdminConfig) *StaticVerifier {
	return &StaticVerifier{
		username:     cfg.Username,
		password:     cfg.Password,
		passwordHash: cfg.PasswordHash,
	}
}

func (v *StaticVerifier) Verify(username, password string) error {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.username)) == 1

	var passwordOK bool
	if v.passwordHash != "" {
		passwordOK = bcrypt.CompareHashAndPassword([]byte(v.passwordHash), []byte(password)) == nil
	} else if v.password != "" {
		passwordOK = subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) == 1
	}

	if !usernameOK || !passwordOK {
		return ErrInvalidCredentials
	}
	return nil
}

type AuthService struct {
	verifier CredentialVerifier
	cfg      *config.Config
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Username    string `json:"username"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // in seconds
}

func NewAuthService(verifier CredentialVerifier, cfg *config.Config) *AuthService {
	return &AuthService{
		verifier: verifier,
		cfg:      cfg,
	}
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.verifier.Verify(req.Username, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := utils.GenerateJWT(req.Username, utils.RoleAdmin, s.cfg.JWT.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		Username:    req.Username,
		Role:        utils.RoleAdmin,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.TokenTTL * 3600,
	}, nil
}
