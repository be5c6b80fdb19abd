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

type registerDoneMsg struct{ err error }

type registerScreen struct {
	ctx  context.Context
	ctrl *auth.Register
	nav  ui.Navigator
	form form

	spinner spinner.Model
	busy    bool
}

func newRegisterScreen(ctx context.Context, deps Deps, b *bridge, gen int) *registerScreen {
	return &registerScreen{
		ctx: ctx,
		ctrl: auth.NewRegister(auth.Screen{
			Provider:  deps.Provider,
			Session:   deps.Session,
			Navigator: b,
			Notifier:  b,
			Confirmer: confirmer{b: b, gen: gen},
			Logger:    deps.Logger,
		}),
		nav: b,
		form: newForm(
			newInput("Email", false),
			newInput("Password", true),
			newInput("Confirm Password", true),
		),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *registerScreen) init() tea.Cmd {
	return tea.Batch(s.form.focusFirst(), textinput.Blink)
}

func (s *registerScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case registerDoneMsg:
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
		case "esc", "ctrl+l":
			if s.busy {
				return nil
			}
			s.nav.Navigate(ui.RouteLogin)
			return nil
		}
		if s.busy {
			return nil
		}
	}
	return s.form.update(msg)
}

func (s *registerScreen) submit() tea.Cmd {
	if s.busy || s.ctrl.Busy() {
		return nil
	}
	s.busy = true

	email, password, confirm := s.form.value(0), s.form.value(1), s.form.value(2)
	submit := func() tea.Msg {
		return registerDoneMsg{err: s.ctrl.Submit(s.ctx, email, password, confirm)}
	}
	return tea.Batch(submit, s.spinner.Tick)
}

func (s *registerScreen) view() string {
	button := buttonStyle.Render("Register")
	if s.busy {
		button = disabledButtonStyle.Render(s.spinner.View() + " Creating account")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Create Account"),
		s.form.view(),
		"",
		button,
		"",
		helpStyle.Render("tab: next field   enter: register   esc: back to login   ctrl+c: quit"),
	)
}

func (s *registerScreen) resize(width, _ int) {
	s.form.resize(width)
}

func (s *registerScreen) close() tea.Cmd {
	return nil
}
