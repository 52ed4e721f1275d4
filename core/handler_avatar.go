package core

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// ServeAvatarHandler serves stored profile pictures.
// Endpoint: GET /uploads/:filename
// Authenticated: No, filenames are unguessable uuids
func (a *App) ServeAvatarHandler(w http.ResponseWriter, r *http.Request) {
	// Base strips any traversal attempt; stored names never contain
	// separators.
	name := path.Base(r.URL.Path)
	if name == "." || name == "/" {
		writeJsonError(w, errorNotFound)
		return
	}

	file := filepath.Join(a.Config().Uploads.Dir, name)
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		writeJsonError(w, errorNotFound)
		return
	}

	setHeaders(w, HeadersAvatar)
	http.ServeFile(w, r, file)
}
