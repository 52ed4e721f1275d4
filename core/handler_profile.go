package core

import (
	"net/http"
	"strings"
)

// GetProfileHandler returns the authenticated user's profile.
// Endpoint: GET /api/auth/profile (alias GET /api/auth/me)
// Authenticated: Yes
func (a *App) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJsonError(w, errorNotFound)
		return
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkProfile,
			Message: "Profile retrieved",
		},
		Data: NewAuthRecord(user),
	})
}

// UpdateProfileHandler updates the allow-listed profile fields: name and
// profile picture. Email, password and verification state are not mutable
// through this endpoint.
// Endpoint: PUT /api/auth/profile
// Authenticated: Yes
// Allowed Mimetype: multipart/form-data
func (a *App) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJsonError(w, errorNotFound)
		return
	}

	if err, resp := a.Validator().ContentType(r, MimeTypeMultipart); err != nil {
		writeJsonError(w, resp)
		return
	}

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = user.Name
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

	updated, err := a.DbAuth().UpdateProfile(user.ID, name, avatar)
	if err != nil {
		a.Logger().Error("failed to update profile", "error", err, "user_id", user.ID)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkProfile,
			Message: "Profile updated",
		},
		Data: NewAuthRecord(updated),
	})
}
