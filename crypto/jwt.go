package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// MinKeyLength is the minimum required length for JWT signing keys.
	// 32 bytes (256 bits) is the minimum recommended length for HMAC-SHA256 keys.
	MinKeyLength = 32

	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
	ClaimUserID    = "user_id"
)

var (
	// ErrJwtTokenExpired is returned when the token has expired
	ErrJwtTokenExpired = errors.New("token expired")
	// ErrJwtInvalidToken is returned when the token is invalid
	ErrJwtInvalidToken = errors.New("invalid token")
	// ErrJwtInvalidSigningMethod is returned when the signing method is not HS256
	ErrJwtInvalidSigningMethod = errors.New("unexpected signing method")
	// ErrJwtInvalidSecretLength is returned for invalid secret lengths
	ErrJwtInvalidSecretLength = errors.New("invalid secret length")
	// ErrInvalidSigningKeyParts is returned when signing key derivation inputs are missing
	ErrInvalidSigningKeyParts = errors.New("invalid signing key parts")
)

// ParseJwt verifies and parses a JWT and returns its claims.
// The result is a map[string]any; numeric claims come back as float64:
//
//	exp := claims["exp"].(float64)
func ParseJwt(token string, verificationKey []byte) (jwt.MapClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	parsedToken, err := parser.Parse(token, func(t *jwt.Token) (any, error) {
		return verificationKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrJwtTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrJwtInvalidSigningMethod
		}
		return nil, fmt.Errorf("%w: %w", ErrJwtInvalidToken, err)
	}

	if claims, ok := parsedToken.Claims.(jwt.MapClaims); ok && parsedToken.Valid {
		return claims, nil
	}

	return nil, ErrJwtInvalidToken
}

// ParseJwtUnverified extracts claims without verifying the signature.
// Only useful for reading the user_id before the per-user signing key
// can be derived; callers must follow up with ParseJwt.
func ParseJwtUnverified(token string) (jwt.MapClaims, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// NewJwt generates a new JWT with the provided claims.
// payload is jwt.MapClaims, which is just map[string]any.
func NewJwt(payload jwt.MapClaims, signingKey []byte, duration time.Duration) (string, error) {
	if len(signingKey) < MinKeyLength {
		return "", ErrJwtInvalidSecretLength
	}

	now := time.Now()
	payload[ClaimIssuedAt] = now.Unix()
	payload[ClaimExpiresAt] = now.Add(duration).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	tokenString, err := token.SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// NewJwtSigningKeyWithCredentials creates a JWT signing key using HMAC-SHA256.
//
// It derives a unique key by combining user-specific data (email, passwordHash)
// with the server secret. Tokens are invalidated when the user's email or
// password changes, or globally by rotating the secret.
//
// A null byte delimits the email and passwordHash inputs to prevent
// collisions between them.
func NewJwtSigningKeyWithCredentials(email, passwordHash string, secret []byte) ([]byte, error) {
	if email == "" {
		return nil, ErrInvalidSigningKeyParts
	}
	if len(secret) < MinKeyLength {
		return nil, ErrJwtInvalidSecretLength
	}

	h := hmac.New(sha256.New, secret)
	h.Write([]byte(email))
	h.Write([]byte{0})
	h.Write([]byte(passwordHash))

	return h.Sum(nil), nil
}

// NewJwtSessionToken creates a session token for the given user, signed
// with a key derived from the user's credentials.
func NewJwtSessionToken(userID, email, passwordHash string, secret []byte, duration time.Duration) (string, error) {
	signingKey, err := NewJwtSigningKeyWithCredentials(email, passwordHash, secret)
	if err != nil {
		return "", err
	}
	return NewJwt(jwt.MapClaims{ClaimUserID: userID}, signingKey, duration)
}
