// Package uitest provides a recording front end for controller tests.
package uitest

import (
	"context"
	"sync"
	"time"

	"github.com/niazbuoy08/chat-app/internal/feed"
	"github.com/niazbuoy08/chat-app/internal/ui"
)

// Recorder implements ui.Navigator, ui.Notifier, ui.Confirmer and
// feed.Renderer, keeping every call.
type Recorder struct {
	// Answer is returned by Confirm.
	Answer bool

	mu      sync.Mutex
	routes  []ui.Route
	notices []ui.Notice
	offers  []ui.Offer
	renders [][]feed.Item
	scrolls int
	changed chan struct{}
}

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{changed: make(chan struct{})}
}

func (r *Recorder) record(fn func()) {
	r.mu.Lock()
	fn()
	close(r.changed)
	r.changed = make(chan struct{})
	r.mu.Unlock()
}

func (r *Recorder) Navigate(route ui.Route) {
	r.record(func() { r.routes = append(r.routes, route) })
}

func (r *Recorder) Notify(n ui.Notice) {
	r.record(func() { r.notices = append(r.notices, n) })
}

func (r *Recorder) Confirm(ctx context.Context, o ui.Offer) bool {
	r.record(func() { r.offers = append(r.offers, o) })
	if ctx.Err() != nil {
		return false
	}
	return r.Answer
}

func (r *Recorder) Render(items []feed.Item) {
	cp := make([]feed.Item, len(items))
	copy(cp, items)
	r.record(func() { r.renders = append(r.renders, cp) })
}

func (r *Recorder) ScrollToEnd() {
	r.record(func() { r.scrolls++ })
}

// Routes returns the navigation requests so far.
func (r *Recorder) Routes() []ui.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ui.Route(nil), r.routes...)
}

// Notices returns the alerts shown so far.
func (r *Recorder) Notices() []ui.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ui.Notice(nil), r.notices...)
}

// Offers returns the dialogs shown so far.
func (r *Recorder) Offers() []ui.Offer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ui.Offer(nil), r.offers...)
}

// Renders returns every rendered item list in order.
func (r *Recorder) Renders() [][]feed.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]feed.Item(nil), r.renders...)
}

// Scrolls returns how many times ScrollToEnd was called.
func (r *Recorder) Scrolls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scrolls
}

// WaitFor blocks until cond holds or timeout passes, and reports whether it
// held.
func (r *Recorder) WaitFor(timeout time.Duration, cond func(r *Recorder) bool) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		r.mu.Lock()
		changed := r.changed
		r.mu.Unlock()

		if cond(r) {
			return true
		}
		select {
		case <-changed:
		case <-deadline.C:
			return cond(r)
		}
	}
}
