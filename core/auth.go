package core

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/margdarshak/margdarshak/config"
	"github.com/margdarshak/margdarshak/crypto"
	"github.com/margdarshak/margdarshak/db"
)

// Authenticator defines the interface for authentication operations
type Authenticator interface {
	Authenticate(r *http.Request) (*db.User, error, jsonResponse)
}

// DefaultAuthenticator implements Authenticator using the standard authentication flow
type DefaultAuthenticator struct {
	dbAuth         db.DbAuth
	logger         *slog.Logger
	configProvider *config.Provider
}

// NewDefaultAuthenticator creates a new DefaultAuthenticator instance
func NewDefaultAuthenticator(dbAuth db.DbAuth, logger *slog.Logger, configProvider *config.Provider) *DefaultAuthenticator {
	return &DefaultAuthenticator{
		dbAuth:         dbAuth,
		logger:         logger,
		configProvider: configProvider,
	}
}

// Authenticate implements the Authenticator interface.
//
// The signing key is derived from the user's own credentials, so the user
// row must be loaded before the signature can be checked. The unverified
// parse only extracts the user id claim; nothing from it is trusted until
// ParseJwt succeeds with the derived key.
func (a *DefaultAuthenticator) Authenticate(r *http.Request) (*db.User, error, jsonResponse) {
	errAuth := errors.New("auth error")

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errAuth, errorNoAuthHeader
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, errAuth, errorInvalidTokenFormat
	}

	claims, err := crypto.ParseJwtUnverified(tokenString)
	if err != nil {
		return nil, errAuth, errorJwtInvalidToken
	}

	userID, ok := claims[crypto.ClaimUserID].(string)
	if !ok || userID == "" {
		return nil, errAuth, errorJwtInvalidToken
	}

	user, err := a.dbAuth.GetUserById(userID)
	if err != nil {
		return nil, errAuth, errorAuthDatabaseError
	}
	if user == nil {
		return nil, errAuth, errorJwtInvalidToken
	}

	// Email and password hash are confirmed to belong to userID, so a
	// password change invalidates every outstanding token.
	cfg := a.configProvider.Get()
	signingKey, err := crypto.NewJwtSigningKeyWithCredentials(user.Email, user.Password, cfg.Jwt.AuthSecret)
	if err != nil {
		return nil, errAuth, errorTokenGeneration
	}

	if _, err := crypto.ParseJwt(tokenString, signingKey); err != nil {
		switch {
		case errors.Is(err, crypto.ErrJwtTokenExpired):
			return nil, errAuth, errorJwtTokenExpired
		case errors.Is(err, crypto.ErrJwtInvalidSigningMethod):
			return nil, errAuth, errorJwtInvalidSignMethod
		default:
			return nil, errAuth, errorJwtInvalidToken
		}
	}

	return user, nil, jsonResponse{}
}
