package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// recordingUI captures everything a session asks the UI to do
type recordingUI struct {
	mu                  sync.Mutex
	messages            []string
	durations           []time.Duration
	dialogs             int
	projectsPlaceholder string
	sprintsPlaceholder  string
	busy                []bool
}

func (u *recordingUI) ShowMessage(text string, duration time.Duration) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.messages = append(u.messages, text)
	u.durations = append(u.durations, duration)
}

func (u *recordingUI) OpenConfigurationDialog() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.dialogs++
}

func (u *recordingUI) SetProjectsPlaceholder(text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.projectsPlaceholder = text
}

func (u *recordingUI) SetSprintsPlaceholder(text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sprintsPlaceholder = text
}

func (u *recordingUI) SetBusy(active bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.busy = append(u.busy, active)
}

func (u *recordingUI) Messages() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.messages...)
}

// fakeTracker serves canned bodies by path and counts the hits per path
type fakeTracker struct {
	*httptest.Server

	mu      sync.Mutex
	delay   time.Duration
	bodies  map[string]string
	hits    map[string]int
	queries []string
}

func newFakeTracker(bodies map[string]string) *fakeTracker {
	t := &fakeTracker{bodies: bodies, hits: make(map[string]int)}
	t.Server = httptest.NewServer(http.HandlerFunc(t.serve))
	return t
}

func (t *fakeTracker) serve(w http.ResponseWriter, r *http.Request) {
	t.mu.Lock()
	t.hits[r.URL.Path]++
	t.queries = append(t.queries, r.URL.RawQuery)
	body, ok := t.bodies[r.URL.Path]
	delay := t.delay
	t.mu.Unlock()

	time.Sleep(delay)

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (t *fakeTracker) Hits(path string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hits[path]
}

func (t *fakeTracker) TotalHits() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0
	for _, n := range t.hits {
		total += n
	}
	return total
}

func (t *fakeTracker) QueryContaining(part string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, q := range t.queries {
		if strings.Contains(q, part) {
			return true
		}
	}
	return false
}
