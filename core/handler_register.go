package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/margdarshak/margdarshak/crypto"
	"github.com/margdarshak/margdarshak/db"
	"github.com/margdarshak/margdarshak/queue"
)

// RegisterHandler creates an unverified account and queues the OTP email.
// Endpoint: POST /api/auth/register
// Authenticated: No
// Allowed Mimetype: multipart/form-data
func (a *App) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if err, resp := a.Validator().ContentType(r, MimeTypeMultipart); err != nil {
		writeJsonError(w, resp)
		return
	}

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if name == "" || email == "" || password == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	if err := ValidateEmail(email); err != nil {
		writeJsonError(w, errorInvalidEmail)
		return
	}

	if len(password) < 8 {
		writeJsonError(w, errorPasswordComplexity)
		return
	}

	// The header comes from the parsed form directly; FormFile would open
	// the part and leak the handle.
	avatar := ""
	if files := r.MultipartForm.File["profilePic"]; len(files) > 0 {
		stored, err, resp := a.saveAvatar(files[0])
		if err != nil {
			writeJsonError(w, resp)
			return
		}
		avatar = stored
	}

	hashedPassword, err := crypto.GenerateHash(password)
	if err != nil {
		writeJsonError(w, errorTokenGeneration)
		return
	}

	otp, err := crypto.NewOtp()
	if err != nil {
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	cfg := a.Config()
	now := time.Now()

	newUser := db.User{
		Email:      email,
		Name:       name,
		Password:   hashedPassword,
		Avatar:     avatar,
		Otp:        otp,
		OtpExpires: now.Add(cfg.Otp.Ttl.Duration),
		Verified:   false,
	}

	user, err := a.DbAuth().CreateUserWithOtp(newUser)
	if err != nil {
		if errors.Is(err, db.ErrConstraintUnique) {
			writeJsonError(w, errorEmailConflict)
			return
		}
		a.Logger().Error("failed to create user", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	// The cooldown bucket makes the payload collide with a still-pending
	// email job for the same address inside the window; the unique index
	// rejects the duplicate and the pending job covers this registration.
	payload, _ := json.Marshal(queue.PayloadOtpEmail{
		Email:          user.Email,
		CooldownBucket: queue.CoolDownBucket(cfg.RateLimits.OtpEmailCooldown.Duration, now),
	})
	job := db.Job{
		JobType: queue.JobTypeOtpEmail,
		Payload: payload,
	}

	if err := a.DbQueue().InsertJob(job); err != nil && !errors.Is(err, db.ErrConstraintUnique) {
		a.Logger().Error("failed to insert otp email job", "error", err, "email", user.Email)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	writeJsonOk(w, okRegistered)
}
