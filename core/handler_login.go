package core

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/margdarshak/margdarshak/crypto"
)

// LoginHandler authenticates email and password and issues a session token.
// Endpoint: POST /api/auth/login
// Authenticated: No
// Allowed Mimetype: application/json
func (a *App) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("failed to get user for login", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	if user == nil {
		writeJsonError(w, errorInvalidCredentials)
		return
	}

	// The unverified answer comes before the password comparison, so the
	// client can route to the verification flow regardless of what was
	// typed into the password field.
	if !user.Verified {
		writeJsonError(w, errorNotVerified)
		return
	}

	if !crypto.CheckPassword(req.Password, user.Password) {
		writeJsonError(w, errorInvalidCredentials)
		return
	}

	cfg := a.Config()
	token, err := crypto.NewJwtSessionToken(user.ID, user.Email, user.Password, cfg.Jwt.AuthSecret, cfg.Jwt.AuthTokenDuration.Duration)
	if err != nil {
		a.Logger().Error("failed to generate session token", "error", err)
		writeJsonError(w, errorTokenGeneration)
		return
	}

	writeAuthResponse(w, token, cfg.Jwt.AuthTokenDuration.Duration, user)
}
