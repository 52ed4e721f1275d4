package core

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowedAvatarExts is the extension allow-list for profile pictures.
// Anything else is rejected regardless of the declared content type.
var allowedAvatarExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// saveAvatar stores an uploaded profile picture under the uploads directory
// with a uuid-based filename and returns the stored name. The returned
// jsonResponse is only meaningful when err is non-nil.
func (a *App) saveAvatar(fh *multipart.FileHeader) (string, error, jsonResponse) {
	cfg := a.Config()

	if fh.Size > cfg.Uploads.MaxBytes {
		return "", errors.New("avatar exceeds size limit"), errorFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedAvatarExts[ext] {
		return "", errors.New("avatar extension not allowed"), errorInvalidFileType
	}

	src, err := fh.Open()
	if err != nil {
		return "", err, errorInvalidRequest
	}
	defer src.Close()

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		return "", err, errorServiceUnavailable
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(cfg.Uploads.Dir, name))
	if err != nil {
		return "", err, errorServiceUnavailable
	}
	defer dst.Close()

	// MaxBytes+1 so a file growing past the header's declared size still
	// gets caught.
	written, err := io.Copy(dst, io.LimitReader(src, cfg.Uploads.MaxBytes+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", err, errorServiceUnavailable
	}
	if written > cfg.Uploads.MaxBytes {
		os.Remove(dst.Name())
		return "", errors.New("avatar exceeds size limit"), errorFileTooLarge
	}

	return name, nil, jsonResponse{}
}
