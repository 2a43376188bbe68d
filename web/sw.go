// Package web embeds the static client assets the backend serves
// directly, currently just the push service worker.
package web

import (
	_ "embed"
	"net/http"
)

//go:embed sw.js
var serviceWorker []byte

// ServiceWorkerHandler serves the push service worker. The
// Service-Worker-Allowed header lets a worker served from /sw.js
// control the whole origin.
func ServiceWorkerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Service-Worker-Allowed", "/")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(serviceWorker)
	}
}
