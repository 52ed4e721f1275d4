// Package proxy wraps the application's router with the pre-router
// middleware chain: everything here runs before routing happens.
package proxy

import (
	"net/http"

	"github.com/margdarshak/margdarshak/core"
	"github.com/margdarshak/margdarshak/core/prerouter"
	"github.com/margdarshak/margdarshak/router"
)

type Proxy struct {
	app     *core.App
	handler http.Handler
}

// NewProxy builds the pre-router chain in front of the app's router. The
// recorder must run first; request log and metrics read from it after the
// inner handler returns.
func NewProxy(app *core.App) *Proxy {
	chain := router.NewChain(app.Router()).WithMiddleware(
		prerouter.NewRecorder(app).Execute,
		prerouter.NewRequestLog(app).Execute,
		prerouter.NewBlockRequestBody(app).Execute,
		prerouter.NewMetrics(app).Execute,
	)

	return &Proxy{
		app:     app,
		handler: chain.Handler(),
	}
}

func (px *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	px.handler.ServeHTTP(w, r)
}
