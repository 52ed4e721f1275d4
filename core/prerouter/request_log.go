package prerouter

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/margdarshak/margdarshak/core"
)

const logMessage = "http_request"

var logType = slog.String("type", "request")

// RemoteIP returns the normalized IP address from the request
func RemoteIP(r *http.Request) string {
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	parsed, err := netip.ParseAddr(ip)
	if err != nil {
		return ip
	}
	return parsed.StringExpanded()
}

// cutStr limits string length by adding ellipsis if needed
func cutStr(str string, max int) string {
	if max > 0 && len(str) > max {
		return str[:max] + "..."
	}
	return str
}

// RequestLog is middleware that logs HTTP request details
type RequestLog struct {
	app *core.App
}

// NewRequestLog creates a new request logging middleware instance
func NewRequestLog(app *core.App) *RequestLog {
	return &RequestLog{
		app: app,
	}
}

// Execute wraps the next handler with request logging. It expects the
// recorder middleware to have run first; without it the logged status
// stays at the default.
func (rl *RequestLog) Execute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !rl.app.Config().Log.Request.Activated {
			next.ServeHTTP(w, req)
			return
		}

		next.ServeHTTP(w, req)

		status := http.StatusOK
		duration := "unknown"
		if rec, ok := w.(*core.ResponseRecorder); ok {
			status = rec.Status
			duration = rec.Duration().String()
		}

		limits := rl.app.Config().Log.Request
		attrs := make([]any, 0, 8)
		attrs = append(attrs, logType)
		attrs = append(attrs, slog.String("method", strings.ToUpper(req.Method)))
		attrs = append(attrs, slog.String("uri", cutStr(req.URL.RequestURI(), limits.URILength)))
		attrs = append(attrs, slog.Int("status", status))
		attrs = append(attrs, slog.String("duration", duration))
		attrs = append(attrs, slog.String("remote_ip", cutStr(RemoteIP(req), limits.RemoteIPLength)))
		attrs = append(attrs, slog.String("user_agent", cutStr(req.UserAgent(), limits.UserAgentLength)))
		attrs = append(attrs, slog.Int64("content_length", req.ContentLength))

		rl.app.Logger().Info(logMessage, attrs...)
	})
}
