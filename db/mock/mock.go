package mock

import (
	"time"

	"github.com/margdarshak/margdarshak/db"
)

// Compile-time check to ensure Db implements the DbApp interface
var _ db.DbApp = (*Db)(nil)

// Db implements db.DbApp for testing purposes.
// Use function fields to allow overriding behavior in specific tests.
type Db struct {
	// --- Mock DbAuth Methods ---
	GetUserByEmailFunc    func(email string) (*db.User, error)
	GetUserByIdFunc       func(id string) (*db.User, error)
	CreateUserWithOtpFunc func(user db.User) (*db.User, error)
	MarkVerifiedFunc      func(userID, otp string, now time.Time) error
	UpdateProfileFunc     func(userID, name, avatar string) (*db.User, error)
	PurgeUnverifiedFunc   func(cutoff time.Time) (int64, error)

	// --- Mock DbQueue Methods ---
	InsertJobFunc              func(job db.Job) error
	ClaimFunc                  func(limit int) ([]*db.Job, error)
	MarkCompletedFunc          func(jobID int64) error
	MarkFailedFunc             func(jobID int64, errMsg string) error
	MarkRecurrentCompletedFunc func(completedJobID int64, next db.Job) error

	// --- Mock DbOrders Methods ---
	InsertOrderFunc     func(order db.ParcelOrder) (*db.ParcelOrder, error)
	GetOrdersByUserFunc func(userID string, limit int) ([]*db.ParcelOrder, error)
}

// --- Implement DbAuth ---

func (m *Db) GetUserByEmail(email string) (*db.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, nil // Default: Not found
}

func (m *Db) GetUserById(id string) (*db.User, error) {
	if m.GetUserByIdFunc != nil {
		return m.GetUserByIdFunc(id)
	}
	return nil, nil // Default: Not found
}

func (m *Db) CreateUserWithOtp(user db.User) (*db.User, error) {
	if m.CreateUserWithOtpFunc != nil {
		return m.CreateUserWithOtpFunc(user)
	}
	// Default: Return the user passed in, assuming success
	user.ID = "mock-user-id"
	return &user, nil
}

func (m *Db) MarkVerified(userID, otp string, now time.Time) error {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(userID, otp, now)
	}
	return nil // Default: Success
}

func (m *Db) UpdateProfile(userID, name, avatar string) (*db.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(userID, name, avatar)
	}
	return &db.User{ID: userID, Name: name, Avatar: avatar}, nil
}

func (m *Db) PurgeUnverified(cutoff time.Time) (int64, error) {
	if m.PurgeUnverifiedFunc != nil {
		return m.PurgeUnverifiedFunc(cutoff)
	}
	return 0, nil
}

// --- Implement DbQueue ---

func (m *Db) InsertJob(job db.Job) error {
	if m.InsertJobFunc != nil {
		return m.InsertJobFunc(job)
	}
	return nil // Default: Success
}

func (m *Db) Claim(limit int) ([]*db.Job, error) {
	if m.ClaimFunc != nil {
		return m.ClaimFunc(limit)
	}
	return []*db.Job{}, nil
}

func (m *Db) MarkCompleted(jobID int64) error {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(jobID)
	}
	return nil
}

func (m *Db) MarkFailed(jobID int64, errMsg string) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(jobID, errMsg)
	}
	return nil
}

func (m *Db) MarkRecurrentCompleted(completedJobID int64, next db.Job) error {
	if m.MarkRecurrentCompletedFunc != nil {
		return m.MarkRecurrentCompletedFunc(completedJobID, next)
	}
	return nil
}

// --- Implement DbOrders ---

func (m *Db) InsertOrder(order db.ParcelOrder) (*db.ParcelOrder, error) {
	if m.InsertOrderFunc != nil {
		return m.InsertOrderFunc(order)
	}
	order.ID = "mock-order-id"
	return &order, nil
}

func (m *Db) GetOrdersByUser(userID string, limit int) ([]*db.ParcelOrder, error) {
	if m.GetOrdersByUserFunc != nil {
		return m.GetOrdersByUserFunc(userID, limit)
	}
	return []*db.ParcelOrder{}, nil
}
