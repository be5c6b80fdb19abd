// Package console is a line-oriented front end for the screen controllers,
// used by the non-interactive chat subcommands.
package console

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/niazbuoy08/chat-app/internal/feed"
	"github.com/niazbuoy08/chat-app/internal/ui"
)

// Console writes notices to out and remembers where the controllers asked
// to go. Offers are answered with a fixed choice.
type Console struct {
	out    io.Writer
	accept bool

	mu     sync.Mutex
	route  ui.Route
	routes chan ui.Route
}

// New creates a console that declines every offer unless accept is set.
func New(out io.Writer, accept bool) *Console {
	return &Console{out: out, accept: accept, routes: make(chan ui.Route, 8)}
}

// Navigate implements ui.Navigator.
func (c *Console) Navigate(route ui.Route) {
	c.mu.Lock()
	c.route = route
	c.mu.Unlock()

	select {
	case c.routes <- route:
	default:
	}
}

// Route returns the last requested route, or "" if none.
func (c *Console) Route() ui.Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.route
}

// Routes delivers navigation requests. Requests are dropped when nobody
// reads them.
func (c *Console) Routes() <-chan ui.Route {
	return c.routes
}

// Notify implements ui.Notifier.
func (c *Console) Notify(n ui.Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s: %s\n", n.Title, n.Body)
}

// Confirm implements ui.Confirmer.
func (c *Console) Confirm(ctx context.Context, o ui.Offer) bool {
	if ctx.Err() != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	choice := o.Decline
	if c.accept {
		choice = o.Accept
	}
	fmt.Fprintf(c.out, "%s: %s [%s]\n", o.Title, o.Body, choice)
	return c.accept
}

// Printer renders a feed as an append-only log. Each message is printed
// once, the first time a snapshot contains it.
type Printer struct {
	out io.Writer
	now func() time.Time

	mu   sync.Mutex
	seen map[string]bool
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, now: time.Now, seen: make(map[string]bool)}
}

// Render implements feed.Renderer.
func (p *Printer) Render(items []feed.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.now()
	for _, it := range items {
		if p.seen[it.ID] {
			continue
		}
		p.seen[it.ID] = true
		fmt.Fprintln(p.out, FormatLine(it, now))
	}
}

// ScrollToEnd implements feed.Renderer. Output is already at the end.
func (p *Printer) ScrollToEnd() {}

// FormatLine renders one message as "HH:MM author: text (age)". Own messages
// are attributed to "me".
func FormatLine(it feed.Item, now time.Time) string {
	author := it.AuthorEmail
	if it.Own {
		author = "me"
	}
	return fmt.Sprintf("%s %s: %s (%s)",
		it.CreatedAt.Local().Format("15:04"),
		author,
		it.Text,
		humanize.RelTime(it.CreatedAt, now, "ago", "from now"),
	)
}
