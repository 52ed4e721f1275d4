package prerouter

import (
	"net/http"

	"github.com/margdarshak/margdarshak/core"
)

// Metrics feeds the endpoint top-k sketch served by the metrics handler.
type Metrics struct {
	app *core.App
}

func NewMetrics(app *core.App) *Metrics {
	return &Metrics{
		app: app,
	}
}

// Execute counts one hit per request keyed by method and path. Query
// strings are deliberately excluded to keep the key space small.
func (m *Metrics) Execute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.app.Config().Metrics.Activated && m.app.MetricsSketch() != nil {
			m.app.MetricsSketch().Incr(r.Method + " " + r.URL.Path)
		}

		next.ServeHTTP(w, r)
	})
}
