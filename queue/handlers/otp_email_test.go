package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/margdarshak/margdarshak/db"
	"github.com/margdarshak/margdarshak/db/mock"
	"github.com/margdarshak/margdarshak/queue"
)

type mailerMock struct {
	SendOtpEmailFunc func(ctx context.Context, email, name, otp string) error
}

func (m *mailerMock) SendOtpEmail(ctx context.Context, email, name, otp string) error {
	if m.SendOtpEmailFunc != nil {
		return m.SendOtpEmailFunc(ctx, email, name, otp)
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func otpJob(t *testing.T, email string) db.Job {
	t.Helper()
	payloadBytes, err := json.Marshal(queue.PayloadOtpEmail{Email: email, CooldownBucket: 1})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return db.Job{JobType: queue.JobTypeOtpEmail, Payload: payloadBytes}
}

func TestOtpEmailHandlerSuccess(t *testing.T) {
	var sentEmail, sentName, sentOtp string

	mockDb := &mock.Db{
		GetUserByEmailFunc: func(email string) (*db.User, error) {
			return &db.User{
				ID:         "user-123",
				Email:      email,
				Name:       "Asha",
				Otp:        "482913",
				OtpExpires: time.Now().Add(5 * time.Minute),
			}, nil
		},
	}
	mockMailer := &mailerMock{
		SendOtpEmailFunc: func(ctx context.Context, email, name, otp string) error {
			sentEmail, sentName, sentOtp = email, name, otp
			return nil
		},
	}

	handler := NewOtpEmailHandler(mockDb, mockMailer, testLogger())

	if err := handler.Handle(context.Background(), otpJob(t, "test@example.com")); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}

	if sentEmail != "test@example.com" {
		t.Errorf("sent to %q, want test@example.com", sentEmail)
	}
	if sentName != "Asha" {
		t.Errorf("sent name %q, want Asha", sentName)
	}
	if sentOtp != "482913" {
		t.Errorf("sent otp %q, want the code from the user row", sentOtp)
	}
}

func TestOtpEmailHandlerSkips(t *testing.T) {
	testCases := []struct {
		name string
		user *db.User
	}{
		{
			name: "already verified",
			user: &db.User{ID: "u1", Email: "v@example.com", Verified: true},
		},
		{
			name: "no pending challenge",
			user: &db.User{ID: "u2", Email: "n@example.com"},
		},
		{
			name: "challenge expired",
			user: &db.User{
				ID:         "u3",
				Email:      "e@example.com",
				Otp:        "123456",
				OtpExpires: time.Now().Add(-time.Minute),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mailerCalled := false
			mockDb := &mock.Db{
				GetUserByEmailFunc: func(email string) (*db.User, error) {
					return tc.user, nil
				},
			}
			mockMailer := &mailerMock{
				SendOtpEmailFunc: func(ctx context.Context, email, name, otp string) error {
					mailerCalled = true
					return nil
				},
			}

			handler := NewOtpEmailHandler(mockDb, mockMailer, testLogger())

			if err := handler.Handle(context.Background(), otpJob(t, tc.user.Email)); err != nil {
				t.Fatalf("Handle() error = %v, want nil", err)
			}
			if mailerCalled {
				t.Error("mailer should not have been called")
			}
		})
	}
}

func TestOtpEmailHandlerErrors(t *testing.T) {
	dbErr := errors.New("db down")
	mailErr := errors.New("smtp down")

	testCases := []struct {
		name    string
		db      *mock.Db
		mailer  *mailerMock
		job     db.Job
		wantErr error
	}{
		{
			name:   "malformed payload",
			db:     &mock.Db{},
			mailer: &mailerMock{},
			job:    db.Job{JobType: queue.JobTypeOtpEmail, Payload: []byte("{not json")},
		},
		{
			name: "db error",
			db: &mock.Db{
				GetUserByEmailFunc: func(email string) (*db.User, error) {
					return nil, dbErr
				},
			},
			mailer:  &mailerMock{},
			wantErr: dbErr,
		},
		{
			name:   "user not found",
			db:     &mock.Db{}, // default: not found
			mailer: &mailerMock{},
		},
		{
			name: "mailer error",
			db: &mock.Db{
				GetUserByEmailFunc: func(email string) (*db.User, error) {
					return &db.User{
						ID:         "u1",
						Email:      email,
						Otp:        "123456",
						OtpExpires: time.Now().Add(5 * time.Minute),
					}, nil
				},
			},
			mailer: &mailerMock{
				SendOtpEmailFunc: func(ctx context.Context, email, name, otp string) error {
					return mailErr
				},
			},
			wantErr: mailErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewOtpEmailHandler(tc.db, tc.mailer, testLogger())

			job := tc.job
			if job.JobType == "" {
				job = otpJob(t, "test@example.com")
			}

			err := handler.Handle(context.Background(), job)
			if err == nil {
				t.Fatal("Handle() error = nil, want error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("Handle() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
