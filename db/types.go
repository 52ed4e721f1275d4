package db

import (
	"encoding/json"
	"time"
)

// User represents an account row.
// Timestamps (Created and Updated) use RFC3339 format in UTC timezone.
// Example: "2024-03-07T15:04:05Z"
type User struct {
	ID    string
	Email string
	Name  string
	// Password holds the bcrypt hash; the plaintext never reaches this layer.
	Password string
	Avatar   string
	// Otp is the pending 6-digit challenge, empty once verified or cleared.
	Otp string
	// OtpExpires is the absolute expiry of the pending challenge; zero when
	// no challenge is outstanding.
	OtpExpires time.Time
	Verified   bool
	Created    time.Time
	Updated    time.Time
}

// OtpExpired reports whether the pending challenge has passed its expiry.
// A user without a challenge counts as expired.
func (u *User) OtpExpired(now time.Time) bool {
	return u.Otp == "" || u.OtpExpires.IsZero() || now.After(u.OtpExpires)
}

// ParcelOrder is a logistics booking owned by a user. The parcel details
// are kept as an opaque JSON blob; the backend never interprets them.
type ParcelOrder struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	Courier           string          `json:"courier"`
	AmountPaise       int64           `json:"amount_paise"`
	EstimatedDelivery string          `json:"estimated_delivery"`
	PickupAddress     string          `json:"pickup_address"`
	DeliveryAddress   string          `json:"delivery_address"`
	Parcel            json.RawMessage `json:"parcel,omitempty"`
	Status            string          `json:"status"`
	Created           time.Time       `json:"created"`
	Updated           time.Time       `json:"updated"`
}

// Job represents a job in the processing queue
type Job struct {
	ID           int64           `json:"id"`
	JobType      string          `json:"job_type"`
	Payload      json.RawMessage `json:"payload"`       // Unique payload part
	PayloadExtra json.RawMessage `json:"payload_extra"` // Non-unique payload part
	Status       string          `json:"status"`
	Attempts     int             `json:"attempts"`
	MaxAttempts  int             `json:"max_attempts"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	ScheduledFor time.Time       `json:"scheduled_for"`
	LockedAt     time.Time       `json:"locked_at,omitempty"`
	CompletedAt  time.Time       `json:"completed_at,omitempty"`
	LastError    string          `json:"last_error,omitempty"`
	Recurrent    bool            `json:"recurrent"`
	Interval     time.Duration   `json:"interval"`
}
