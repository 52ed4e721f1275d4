package db

import (
	"errors"
	"time"
)

// Sentinel errors returned by the storage implementations. Handlers map
// these to responses at the boundary; nothing else inspects driver errors.
var (
	ErrConstraintUnique = errors.New("unique constraint violation")
	ErrUserNotFound     = errors.New("user not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrMissingFields    = errors.New("missing required fields")
)

// DbAuth defines the user storage operations required by the auth handlers.
type DbAuth interface {
	GetUserByEmail(email string) (*User, error)
	GetUserById(id string) (*User, error)

	// CreateUserWithOtp inserts an unverified user carrying a pending OTP
	// challenge. An existing row with the same email only loses to the new
	// one when it is unverified and its challenge has expired; otherwise
	// ErrConstraintUnique is returned. The uniqueness decision is made by
	// the store in a single statement, not by a prior read.
	CreateUserWithOtp(user User) (*User, error)

	// MarkVerified sets the verified flag and clears the OTP challenge in
	// one statement guarded by the submitted code and expiry, so a matched
	// code cannot be replayed. Returns ErrUserNotFound when the guard did
	// not match any row.
	MarkVerified(userID, otp string, now time.Time) error

	// UpdateProfile applies the allow-listed mutable fields. Empty avatar
	// means "keep current".
	UpdateProfile(userID, name, avatar string) (*User, error)

	// PurgeUnverified deletes unverified users whose OTP expired before
	// the cutoff. Returns the number of rows removed.
	PurgeUnverified(cutoff time.Time) (int64, error)
}

// DbQueue defines the job queue operations used by handlers and scheduler.
type DbQueue interface {
	InsertJob(job Job) error
	Claim(limit int) ([]*Job, error)
	MarkCompleted(jobID int64) error
	MarkFailed(jobID int64, errMsg string) error
	// MarkRecurrentCompleted completes a recurrent job and inserts its next
	// occurrence in the same transaction.
	MarkRecurrentCompleted(completedJobID int64, next Job) error
}

// DbOrders defines the parcel order history operations.
type DbOrders interface {
	InsertOrder(order ParcelOrder) (*ParcelOrder, error)
	GetOrdersByUser(userID string, limit int) ([]*ParcelOrder, error)
}

// DbApp combines the DB roles the application requires. The concrete
// implementation (*zombiezen.Db) must satisfy this interface.
type DbApp interface {
	DbAuth
	DbQueue
	DbOrders
}

// TimeFormat renders a time as RFC3339 in UTC, the only format stored in
// the database.
func TimeFormat(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// TimeParse parses an RFC3339 timestamp as stored in the database. An
// empty string parses to the zero time without error, matching nullable
// text columns.
func TimeParse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
