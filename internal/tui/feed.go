package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/niazbuoy08/chat-app/internal/composer"
	"github.com/niazbuoy08/chat-app/internal/feed"
)

type feedActivatedMsg struct{ err error }

type sendDoneMsg struct{ outcome composer.Outcome }

type signOutDoneMsg struct{ err error }

type feedScreen struct {
	ctx      context.Context
	ctrl     *feed.View
	composer *composer.Composer
	email    string
	logger   *slog.Logger

	viewport viewport.Model
	input    textinput.Model
	items    []feed.Item
	width    int

	sending    bool
	signingOut bool
}

func newFeedScreen(ctx context.Context, deps Deps, b *bridge, gen int) *feedScreen {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.CharLimit = composer.MaxLength

	var email string
	if id := deps.Session.Current(); id != nil {
		email = id.Email
	}

	return &feedScreen{
		ctx:      ctx,
		ctrl:     feed.NewView(deps.Session, deps.Messages, renderer{b: b, gen: gen}, b, b, deps.Logger),
		composer: composer.New(deps.Session, deps.Messages, b, deps.Logger),
		email:    email,
		logger:   deps.Logger,
		viewport: viewport.New(80, 20),
		input:    input,
		width:    80,
	}
}

func (s *feedScreen) init() tea.Cmd {
	activate := func() tea.Msg {
		return feedActivatedMsg{err: s.ctrl.Activate(s.ctx)}
	}
	return tea.Batch(activate, s.input.Focus(), textinput.Blink)
}

func (s *feedScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case feedActivatedMsg:
		// ErrNoIdentity has already sent the user back to login.
		if msg.err != nil && !errors.Is(msg.err, feed.ErrNoIdentity) {
			s.logger.Error("activate feed", "error", msg.err)
		}
		return nil

	case renderMsg:
		s.items = msg.items
		s.viewport.SetContent(s.renderItems())
		return nil

	case scrollMsg:
		s.viewport.GotoBottom()
		return nil

	case sendDoneMsg:
		s.sending = false
		if msg.outcome == composer.Sent {
			s.input.SetValue(s.composer.Draft())
		}
		return nil

	case signOutDoneMsg:
		s.signingOut = false
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s.send()
		case "ctrl+o":
			return s.signOut()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			s.viewport, cmd = s.viewport.Update(msg)
			return cmd
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.composer.SetDraft(s.input.Value())
	return cmd
}

func (s *feedScreen) send() tea.Cmd {
	s.composer.SetDraft(s.input.Value())
	if !s.composer.CanSend() {
		return nil
	}
	s.sending = true
	return func() tea.Msg {
		return sendDoneMsg{outcome: s.composer.Send(s.ctx)}
	}
}

func (s *feedScreen) signOut() tea.Cmd {
	if s.signingOut {
		return nil
	}
	s.signingOut = true
	return func() tea.Msg {
		return signOutDoneMsg{err: s.ctrl.SignOut(s.ctx)}
	}
}

func (s *feedScreen) renderItems() string {
	if len(s.items) == 0 {
		return helpStyle.Render("No messages yet. Say hello!")
	}

	maxBubble := s.width * 3 / 4
	if maxBubble < 10 {
		maxBubble = 10
	}

	blocks := make([]string, 0, len(s.items))
	for _, it := range s.items {
		blocks = append(blocks, renderBubble(it, s.width, maxBubble))
	}
	return strings.Join(blocks, "\n\n")
}

// renderBubble draws one message: own messages on the right in the accent
// colour, others on the left under their author.
func renderBubble(it feed.Item, width, maxBubble int) string {
	stamp := timeStyle.Render(it.CreatedAt.Local().Format("15:04"))

	if it.Own {
		bubble := ownBubbleStyle.MaxWidth(maxBubble).Render(it.Text)
		block := lipgloss.JoinVertical(lipgloss.Right, bubble, stamp)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}

	bubble := otherBubbleStyle.MaxWidth(maxBubble).Render(it.Text)
	return lipgloss.JoinVertical(lipgloss.Left, authorStyle.Render(it.AuthorEmail), bubble, stamp)
}

func (s *feedScreen) view() string {
	header := headerStyle.Width(s.width).Render("Chat  " + helpStyle.Render(s.email))

	button := buttonStyle.Render("Send")
	if !s.composer.CanSend() {
		button = disabledButtonStyle.Render("Send")
	}
	if s.sending {
		button = disabledButtonStyle.Render("Sending")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		s.viewport.View(),
		lipgloss.JoinHorizontal(lipgloss.Center, s.input.View(), " ", button),
		helpStyle.Render("enter: send   pgup/pgdown: scroll   ctrl+o: logout   ctrl+c: quit"),
	)
}

func (s *feedScreen) resize(width, height int) {
	s.width = width
	s.viewport.Width = width
	h := height - 6
	if h < 3 {
		h = 3
	}
	s.viewport.Height = h
	s.input.Width = width - 14
	s.viewport.SetContent(s.renderItems())
}

func (s *feedScreen) close() tea.Cmd {
	return func() tea.Msg {
		s.ctrl.Teardown()
		return nil
	}
}
