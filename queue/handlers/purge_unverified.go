package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/margdarshak/margdarshak/config"
	"github.com/margdarshak/margdarshak/db"
)

// PurgeUnverifiedHandler removes unverified accounts whose challenge expired
// longer ago than the retention window. It runs as a recurrent job.
type PurgeUnverifiedHandler struct {
	db             db.DbAuth
	configProvider *config.Provider
	logger         *slog.Logger
}

// NewPurgeUnverifiedHandler creates a new PurgeUnverifiedHandler
func NewPurgeUnverifiedHandler(dbAuth db.DbAuth, provider *config.Provider, logger *slog.Logger) *PurgeUnverifiedHandler {
	return &PurgeUnverifiedHandler{
		db:             dbAuth,
		configProvider: provider,
		logger:         logger,
	}
}

// Handle implements the executor.JobHandler interface.
func (h *PurgeUnverifiedHandler) Handle(ctx context.Context, _ db.Job) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	retention := h.configProvider.Get().Otp.PurgeRetention.Duration
	cutoff := time.Now().Add(-retention)

	removed, err := h.db.PurgeUnverified(cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge unverified users: %w", err)
	}

	if removed > 0 {
		h.logger.Info("purged unverified users", "count", removed, "cutoff", cutoff)
	}
	return nil
}
