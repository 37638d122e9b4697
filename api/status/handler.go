// Package status exposes monitored queue state over HTTP.
package status

import (
	"encoding/json"
	"net/http"
	"strings"

	corestatus "github.com/gpv-monitor/gpv/core/status"
)

// Store provides queue snapshots to the handlers. The app's monitor set
// implements it.
type Store interface {
	Queues() []string
	Snapshot(queue string) (corestatus.Snapshot, bool)
}

// NewHandler returns an HTTP handler exposing queue status:
//
//	GET /api/queues                       all queues
//	GET /api/queues/{queue}               one queue
//	GET /api/queues/{queue}/timeline.svg  vector timeline
//	GET /api/queues/{queue}/timeline.txt  character timeline
func NewHandler(store Store) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/queues", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snaps := make([]corestatus.Snapshot, 0)
		for _, q := range store.Queues() {
			if snap, ok := store.Snapshot(q); ok {
				snaps = append(snaps, snap)
			}
		}
		writeJSON(w, snaps)
	})
	mux.HandleFunc("/api/queues/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, "/api/queues/")
		queue, sub := rest, ""
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			queue, sub = rest[:i], rest[i+1:]
		}
		snap, ok := store.Snapshot(queue)
		if !ok {
			http.Error(w, "unknown queue", http.StatusNotFound)
			return
		}
		switch sub {
		case "":
			writeJSON(w, snap)
		case "timeline.svg":
			w.Header().Set("Content-Type", "image/svg+xml")
			if _, err := w.Write([]byte(snap.TimelineSVG)); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		case "timeline.txt":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			if _, err := w.Write([]byte(snap.TimelineASCII)); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		default:
			http.NotFound(w, r)
		}
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
