package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/margdarshak/margdarshak/db"
)

// VerifyOtpHandler confirms an email address with the 6-digit code.
// Endpoint: POST /api/auth/verify-otp
// Authenticated: No
// Allowed Mimetype: application/json
//
// All failure branches answer 400 with a distinct code, so a caller cannot
// probe which addresses hold accounts via status codes alone.
func (a *App) VerifyOtpHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email"`
		Otp   string `json:"otp"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Otp = strings.TrimSpace(req.Otp)
	if req.Email == "" || req.Otp == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	cfg := a.Config()

	// Attempt counting lives in the process cache, not the database: an
	// expired entry simply resets the budget alongside the challenge TTL.
	attemptsKey := "otp_attempts:" + req.Email
	attempts := 0
	if v, ok := a.Cache().Get(attemptsKey); ok {
		if n, ok := v.(int); ok {
			attempts = n
		}
	}
	if attempts >= cfg.Otp.MaxAttempts {
		writeJsonError(w, errorTooManyRequests)
		return
	}
	a.Cache().SetWithTTL(attemptsKey, attempts+1, 1, cfg.Otp.Ttl.Duration)

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("failed to get user for otp verification", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	if user == nil {
		writeJsonError(w, errorUserNotFound)
		return
	}

	if user.Verified {
		writeJsonError(w, errorAlreadyVerified)
		return
	}

	// The store compares code and expiry in one guarded statement; a miss
	// for either reason looks the same here.
	if err := a.DbAuth().MarkVerified(user.ID, req.Otp, time.Now()); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			writeJsonError(w, errorOtpInvalid)
			return
		}
		a.Logger().Error("failed to mark user verified", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	writeJsonOk(w, okOtpVerified)
}
