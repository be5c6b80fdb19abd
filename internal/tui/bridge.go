package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/niazbuoy08/chat-app/internal/feed"
	"github.com/niazbuoy08/chat-app/internal/ui"
)

type navigateMsg struct{ route ui.Route }

type noticeMsg struct{ notice ui.Notice }

type offerMsg struct {
	gen   int
	ctx   context.Context
	offer ui.Offer
	reply chan bool
}

type renderMsg struct {
	gen   int
	items []feed.Item
}

type scrollMsg struct{ gen int }

// bridge turns controller callbacks, which arrive on arbitrary goroutines,
// into messages for the program's update loop.
type bridge struct {
	send func(tea.Msg)
}

func (b *bridge) Navigate(route ui.Route) {
	b.send(navigateMsg{route: route})
}

func (b *bridge) Notify(n ui.Notice) {
	b.send(noticeMsg{notice: n})
}

// confirmer asks on behalf of one screen. Offers from a screen that has
// since been replaced are declined by the app.
type confirmer struct {
	b   *bridge
	gen int
}

// Confirm shows the offer as a dialog and waits for the answer.
func (c confirmer) Confirm(ctx context.Context, o ui.Offer) bool {
	reply := make(chan bool, 1)
	c.b.send(offerMsg{gen: c.gen, ctx: ctx, offer: o, reply: reply})
	select {
	case ok := <-reply:
		return ok
	case <-ctx.Done():
		return false
	}
}

// renderer feeds one feed screen. Messages from a screen that has since been
// replaced carry a stale gen and are dropped by the app.
type renderer struct {
	b   *bridge
	gen int
}

func (r renderer) Render(items []feed.Item) {
	r.b.send(renderMsg{gen: r.gen, items: items})
}

func (r renderer) ScrollToEnd() {
	r.b.send(scrollMsg{gen: r.gen})
}
