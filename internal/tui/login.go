package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/niazbuoy08/chat-app/internal/auth"
	"github.com/niazbuoy08/chat-app/internal/ui"
)

type loginDoneMsg struct{ err error }

type loginScreen struct {
	ctx    context.Context
	ctrl   *auth.Login
	nav    ui.Navigator
	form   form
	reveal bool

	spinner spinner.Model
	busy    bool
}

func newLoginScreen(ctx context.Context, deps Deps, b *bridge, gen int) *loginScreen {
	email := newInput("Email", false)
	password := newInput("Password", true)

	return &loginScreen{
		ctx: ctx,
		ctrl: auth.NewLogin(auth.Screen{
			Provider:  deps.Provider,
			Session:   deps.Session,
			Navigator: b,
			Notifier:  b,
			Confirmer: confirmer{b: b, gen: gen},
			Logger:    deps.Logger,
		}),
		nav:     b,
		form:    newForm(email, password),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *loginScreen) init() tea.Cmd {
	s.ctrl.Mount(s.ctx)
	return tea.Batch(s.form.focusFirst(), textinput.Blink)
}

func (s *loginScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginDoneMsg:
		s.busy = false
		return nil

	case spinner.TickMsg:
		if !s.busy {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s.submit()
		case "ctrl+t":
			s.reveal = !s.reveal
			s.form.inputs[1].EchoMode = echoMode(!s.reveal)
			return nil
		case "ctrl+r":
			if s.busy {
				return nil
			}
			s.nav.Navigate(ui.RouteRegister)
			return nil
		}
		if s.busy {
			return nil
		}
	}
	return s.form.update(msg)
}

func (s *loginScreen) submit() tea.Cmd {
	if s.busy || s.ctrl.Busy() {
		return nil
	}
	s.busy = true

	email, password := s.form.value(0), s.form.value(1)
	submit := func() tea.Msg {
		return loginDoneMsg{err: s.ctrl.Submit(s.ctx, email, password)}
	}
	return tea.Batch(submit, s.spinner.Tick)
}

func (s *loginScreen) view() string {
	button := buttonStyle.Render("Login")
	if s.busy {
		button = disabledButtonStyle.Render(s.spinner.View() + " Logging in")
	}

	toggle := "show"
	if s.reveal {
		toggle = "hide"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Welcome Back"),
		s.form.view(),
		"",
		button,
		"",
		helpStyle.Render("tab: next field   enter: login   ctrl+t: "+toggle+" password   ctrl+r: create account   ctrl+c: quit"),
	)
}

func (s *loginScreen) resize(width, _ int) {
	s.form.resize(width)
}

func (s *loginScreen) close() tea.Cmd {
	return func() tea.Msg {
		s.ctrl.Unmount()
		return nil
	}
}
