package queue

import (
	"time"
)

// Job types
const (
	JobTypeOtpEmail        = "job_type_otp_email"
	JobTypePurgeUnverified = "job_type_purge_unverified"
)

// Job statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// PayloadOtpEmail identifies one OTP delivery. The code itself is not part
// of the payload; the handler reads it from the user row at delivery time,
// so the email always carries the currently valid challenge.
//
// CooldownBucket is the time bucket number calculated from the current time
// divided by the cooldown duration. Only one OTP email per address is allowed
// per bucket: the queue's unique constraint on (job_type, payload) for pending
// jobs rejects a second insert with the same bucket number.
type PayloadOtpEmail struct {
	Email          string `json:"email"`
	CooldownBucket int    `json:"cooldown_bucket"`
}

// CoolDownBucket calculates which time bucket t falls into for the given
// duration. It returns the number of complete duration periods since the
// Unix epoch, so all times within the same window map to the same value.
// Panics if duration is not positive.
func CoolDownBucket(duration time.Duration, t time.Time) int {
	if duration <= 0 {
		panic("duration must be positive")
	}

	return int(t.Unix() / int64(duration.Seconds()))
}
