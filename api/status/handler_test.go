package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	corestatus "github.com/gpv-monitor/gpv/core/status"
)

type fakeStore map[string]corestatus.Snapshot

func (f fakeStore) Queues() []string {
	qs := make([]string, 0, len(f))
	for q := range f {
		qs = append(qs, q)
	}
	return qs
}

func (f fakeStore) Snapshot(queue string) (corestatus.Snapshot, bool) {
	s, ok := f[queue]
	return s, ok
}

func testStore() fakeStore {
	return fakeStore{
		"6.2": {
			Queue:         "6.2",
			State:         "fresh",
			ScheduleText:  "06:00 до 09:30",
			TimeRanges:    []string{"06:00 до 09:30"},
			OutagePercent: 14.6,
			TimelineSVG:   `<svg xmlns="http://www.w3.org/2000/svg"></svg>`,
			TimelineASCII: "00    06\n░░██",
		},
	}
}

func TestListQueues(t *testing.T) {
	h := NewHandler(testStore())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/queues", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var snaps []corestatus.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snaps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snaps) != 1 || snaps[0].Queue != "6.2" {
		t.Fatalf("bad body %s", rec.Body.String())
	}
}

func TestGetQueue(t *testing.T) {
	h := NewHandler(testStore())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/queues/6.2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var snap corestatus.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.OutagePercent != 14.6 {
		t.Fatalf("bad snapshot %+v", snap)
	}
}

func TestGetQueueNotFound(t *testing.T) {
	h := NewHandler(testStore())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/queues/9.9", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetTimelineSVG(t *testing.T) {
	h := NewHandler(testStore())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/queues/6.2/timeline.svg", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("content type %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Fatalf("not svg: %s", rec.Body.String())
	}
}

func TestGetTimelineText(t *testing.T) {
	h := NewHandler(testStore())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/queues/6.2/timeline.txt", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "░░██") {
		t.Fatalf("missing grid: %s", rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewHandler(testStore())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/queues", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
