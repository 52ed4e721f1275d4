package prerouter

import (
	"net/http"

	"github.com/margdarshak/margdarshak/core"
)

// BlockRequestBody handles limiting the size of request bodies.
type BlockRequestBody struct {
	app *core.App
}

// NewBlockRequestBody creates a new request body size limiter middleware instance.
func NewBlockRequestBody(app *core.App) *BlockRequestBody {
	return &BlockRequestBody{
		app: app,
	}
}

// Execute wraps the next handler with request body size limiting logic.
// The limit sits above the avatar upload bound so oversized uploads get
// the specific file-too-large answer from the handler, not a connection
// reset here.
func (l *BlockRequestBody) Execute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := l.app.Config().BlockRequestBody

		if !cfg.Activated {
			next.ServeHTTP(w, r)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, cfg.Limit)

		next.ServeHTTP(w, r)
	})
}
