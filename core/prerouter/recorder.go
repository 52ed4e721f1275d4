package prerouter

import (
	"net/http"
	"time"

	"github.com/margdarshak/margdarshak/core"
)

type Recorder struct {
	app *core.App
}

func NewRecorder(app *core.App) *Recorder {
	return &Recorder{
		app: app,
	}
}

// Execute installs the shared response recorder at the head of the chain.
// Later middlewares read status and timing from it after the handler runs.
func (rc *Recorder) Execute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &core.ResponseRecorder{
			ResponseWriter: w,
			Status:         http.StatusOK,
			StartTime:      time.Now(),
		}

		next.ServeHTTP(recorder, r)
	})
}
