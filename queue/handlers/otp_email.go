package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/margdarshak/margdarshak/db"
	"github.com/margdarshak/margdarshak/queue"
)

// OtpMailer is the slice of the mailer the handler needs.
type OtpMailer interface {
	SendOtpEmail(ctx context.Context, email, name, otp string) error
}

// OtpEmailHandler delivers the verification code issued at registration.
type OtpEmailHandler struct {
	db     db.DbAuth
	mailer OtpMailer
	logger *slog.Logger
}

// NewOtpEmailHandler creates a new OtpEmailHandler
func NewOtpEmailHandler(dbAuth db.DbAuth, mailer OtpMailer, logger *slog.Logger) *OtpEmailHandler {
	return &OtpEmailHandler{
		db:     dbAuth,
		mailer: mailer,
		logger: logger,
	}
}

// Handle implements the executor.JobHandler interface.
// The code is read from the user row rather than the job payload, so a
// challenge replaced between enqueue and delivery is never sent stale.
func (h *OtpEmailHandler) Handle(ctx context.Context, job db.Job) error {
	var payload queue.PayloadOtpEmail
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse otp email payload: %w", err)
	}

	user, err := h.db.GetUserByEmail(payload.Email)
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user not found for email: %s", payload.Email)
	}

	// The account may have been verified or its challenge purged while the
	// job waited; there is nothing left to deliver.
	if user.Verified || user.Otp == "" {
		h.logger.Info("skipping otp email, no pending challenge", "email", user.Email)
		return nil
	}
	if user.OtpExpired(time.Now()) {
		h.logger.Info("skipping otp email, challenge already expired", "email", user.Email)
		return nil
	}

	if err := h.mailer.SendOtpEmail(ctx, user.Email, user.Name, user.Otp); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	h.logger.Info("sent otp email", "email", user.Email)
	return nil
}
