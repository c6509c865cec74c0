package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const runningText = "FunPay Steam Bot is running!"

var startTime = time.Now()

// statusProvider feeds extra fields into the health report; set from main.go.
var statusProvider func() interface{}

// SetStatusProvider registers the source of the "monitor" health field.
func SetStatusProvider(p func() interface{}) {
	statusProvider = p
}

// HomeHandler serves GET / for uptime checks.
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundHandler(w, r)
		return
	}
	writeText(w, runningText)
}

// PingHandler serves GET /ping.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	writeText(w, "pong")
}

// HealthHandler returns uptime and, when registered, the monitor status.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(startTime)
	body := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int(uptime.Seconds()),
		"uptime_human":   formatDuration(uptime),
	}
	if statusProvider != nil {
		body["monitor"] = statusProvider()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(body)
}

// NotFoundHandler answers unknown paths.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "not found", http.StatusNotFound)
}

func writeText(w http.ResponseWriter, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(s))
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// NewRouter serves / and /ping unconditionally and passes /api/ through limit.
func NewRouter(limit func(http.Handler) http.Handler) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/api/health", HealthHandler)
	api.HandleFunc("/api/", NotFoundHandler)

	mux := http.NewServeMux()
	mux.HandleFunc("/", HomeHandler)
	mux.HandleFunc("/ping", PingHandler)
	mux.Handle("/api/", limit(api))
	return mux
}
