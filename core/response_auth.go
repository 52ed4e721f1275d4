package core

import (
	"net/http"
	"time"

	"github.com/margdarshak/margdarshak/db"
)

// AuthRecord is the public view of a user row included in auth responses.
// The password hash and OTP challenge never leave the storage layer.
type AuthRecord struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Verified bool   `json:"verified"`
}

// AuthData is the standard payload for successful authentication responses
type AuthData struct {
	TokenType   string     `json:"token_type"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int        `json:"expires_in"`
	Record      AuthRecord `json:"record"`
}

// NewAuthRecord maps a user row to its public auth representation.
func NewAuthRecord(user *db.User) AuthRecord {
	return AuthRecord{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Verified: user.Verified,
	}
}

// writeAuthResponse writes a 200 response carrying a session token and the
// user record.
func writeAuthResponse(w http.ResponseWriter, token string, expiresIn time.Duration, user *db.User) {
	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkAuthentication,
			Message: "Authentication successful",
		},
		Data: AuthData{
			TokenType:   "Bearer",
			AccessToken: token,
			ExpiresIn:   int(expiresIn.Seconds()),
			Record:      NewAuthRecord(user),
		},
	})
}
