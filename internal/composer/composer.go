// Package composer holds the outgoing message draft and sends it.
package composer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/flight"
	"github.com/niazbuoy08/chat-app/internal/session"
	"github.com/niazbuoy08/chat-app/internal/ui"
)

// MaxLength is the draft limit in runes.
const MaxLength = domain.MaxMessageLength

const msgSendFailed = "Failed to send message"

// Outcome is the result of Send.
type Outcome int

const (
	// Skipped means there was nothing to send or nobody to send as.
	Skipped Outcome = iota
	// InFlight means an earlier send has not finished.
	InFlight
	// Sent means the collection confirmed the append.
	Sent
	// Failed means the append was rejected; the draft is kept.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case InFlight:
		return "in-flight"
	case Sent:
		return "sent"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Composer owns the draft for one feed screen.
type Composer struct {
	session  *session.Session
	messages domain.MessageCollection
	notifier ui.Notifier
	logger   *slog.Logger

	send flight.Guard

	mu    sync.Mutex
	draft string
}

// New creates a composer with an empty draft.
func New(sess *session.Session, messages domain.MessageCollection, notifier ui.Notifier, logger *slog.Logger) *Composer {
	return &Composer{
		session:  sess,
		messages: messages,
		notifier: notifier,
		logger:   logger,
	}
}

// SetDraft replaces the draft, cutting it to MaxLength runes.
func (c *Composer) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = Truncate(text)
}

// Draft returns the current draft.
func (c *Composer) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// CanSend reports whether the send control should be enabled.
func (c *Composer) CanSend() bool {
	return strings.TrimSpace(c.Draft()) != "" && !c.send.Busy()
}

// Busy reports whether an append is outstanding.
func (c *Composer) Busy() bool {
	return c.send.Busy()
}

// Send appends the trimmed draft as a message from the active identity. The
// draft is cleared only after the collection confirms; on failure it is kept
// and the user is told once.
func (c *Composer) Send(ctx context.Context) Outcome {
	text := strings.TrimSpace(c.Draft())
	id := c.session.Current()
	if text == "" || id == nil {
		return Skipped
	}

	outcome := Failed
	err := c.send.Do(func() error {
		msgID, err := c.messages.AppendMessage(ctx, domain.NewMessage{
			Text:        text,
			AuthorID:    id.UID,
			AuthorEmail: id.Email,
		})
		if err != nil {
			return err
		}

		c.mu.Lock()
		c.draft = ""
		c.mu.Unlock()

		c.logger.Debug("message sent", "id", msgID)
		outcome = Sent
		return nil
	})
	switch {
	case errors.Is(err, flight.ErrInFlight):
		return InFlight
	case err != nil:
		c.logger.Error("send message failed", "error", err)
		c.notifier.Notify(ui.Notice{Title: "Error", Body: msgSendFailed})
	}
	return outcome
}

// Truncate cuts s to MaxLength runes.
func Truncate(s string) string {
	if len(s) <= MaxLength {
		return s
	}
	r := []rune(s)
	if len(r) <= MaxLength {
		return s
	}
	return string(r[:MaxLength])
}
