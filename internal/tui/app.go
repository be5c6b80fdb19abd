// Package tui is the interactive terminal front end. It hosts the login,
// register and feed screens in a single bubbletea program and routes
// controller callbacks into the program's update loop.
package tui

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/session"
	"github.com/niazbuoy08/chat-app/internal/ui"
)

// Deps is what the screens are built from.
type Deps struct {
	Provider domain.IdentityProvider
	Messages domain.MessageCollection
	Session  *session.Session
	Logger   *slog.Logger
}

// screen is one mounted route.
type screen interface {
	init() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	view() string
	resize(width, height int)

	// close returns the command that unmounts the screen. It runs off the
	// update loop because unmounting waits for controller goroutines that
	// may themselves be sending to the program.
	close() tea.Cmd
}

// App is the root model.
type App struct {
	ctx    context.Context
	deps   Deps
	bridge *bridge

	route  ui.Route
	screen screen
	// gen numbers mounted screens; messages tagged with an older one are
	// dropped.
	gen int

	notices []ui.Notice
	offer   *offerMsg

	width, height int
}

// NewApp creates the root model showing the login screen. send delivers
// messages to the running program.
func NewApp(ctx context.Context, deps Deps, send func(tea.Msg)) *App {
	return &App{
		ctx:    ctx,
		deps:   deps,
		bridge: &bridge{send: send},
	}
}

func (a *App) Init() tea.Cmd {
	return a.switchTo(ui.RouteLogin)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.screen != nil {
			a.screen.resize(msg.Width, msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if len(a.notices) > 0 {
			return a, a.handleNoticeKey(msg)
		}
		if a.offer != nil {
			return a, a.handleOfferKey(msg)
		}

	case navigateMsg:
		return a, a.switchTo(msg.route)

	case noticeMsg:
		a.notices = append(a.notices, msg.notice)
		return a, nil

	case offerMsg:
		if msg.gen != a.gen || msg.ctx.Err() != nil {
			msg.reply <- false
			return a, nil
		}
		a.dismissOffer()
		a.offer = &msg
		return a, nil

	case renderMsg:
		if msg.gen != a.gen {
			return a, nil
		}

	case scrollMsg:
		if msg.gen != a.gen {
			return a, nil
		}
	}

	if a.screen == nil {
		return a, nil
	}
	return a, a.screen.update(msg)
}

func (a *App) handleNoticeKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
		a.notices = a.notices[1:]
	}
	return nil
}

func (a *App) handleOfferKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyEnter || msg.String() == "y":
		a.answerOffer(true)
	case msg.Type == tea.KeyEsc || msg.String() == "n":
		a.answerOffer(false)
	}
	return nil
}

func (a *App) answerOffer(ok bool) {
	if a.offer == nil {
		return
	}
	a.offer.reply <- ok
	a.offer = nil
}

func (a *App) dismissOffer() {
	a.answerOffer(false)
}

// switchTo replaces the current screen. Re-navigating to the current route
// is ignored.
func (a *App) switchTo(route ui.Route) tea.Cmd {
	if a.screen != nil && route == a.route {
		return nil
	}

	var cmds []tea.Cmd
	if a.screen != nil {
		cmds = append(cmds, a.screen.close())
	}
	a.dismissOffer()

	a.route = route
	a.gen++
	a.screen = a.build(route)
	if a.width > 0 {
		a.screen.resize(a.width, a.height)
	}
	cmds = append(cmds, a.screen.init())

	a.deps.Logger.Debug("navigate", "route", route)
	return tea.Batch(cmds...)
}

func (a *App) build(route ui.Route) screen {
	switch route {
	case ui.RouteRegister:
		return newRegisterScreen(a.ctx, a.deps, a.bridge, a.gen)
	case ui.RouteFeed:
		return newFeedScreen(a.ctx, a.deps, a.bridge, a.gen)
	default:
		return newLoginScreen(a.ctx, a.deps, a.bridge, a.gen)
	}
}

func (a *App) View() string {
	if a.screen == nil {
		return ""
	}
	body := a.screen.view()

	var overlay string
	switch {
	case len(a.notices) > 0:
		n := a.notices[0]
		style := dialogStyle
		if n.Title != "Success" {
			style = errorDialogStyle
		}
		overlay = style.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(n.Title),
			n.Body,
			"",
			helpStyle.Render("enter: OK"),
		))
	case a.offer != nil:
		o := a.offer.offer
		overlay = dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(o.Title),
			o.Body,
			"",
			helpStyle.Render(fmt.Sprintf("y/enter: %s   n/esc: %s", o.Accept, o.Decline)),
		))
	}
	if overlay == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", overlay)
}

// Shutdown unmounts the current screen. Call it after the program exits.
func (a *App) Shutdown() {
	a.dismissOffer()
	if a.screen == nil {
		return
	}
	if cmd := a.screen.close(); cmd != nil {
		cmd()
	}
	a.screen = nil
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, deps Deps) error {
	var p *tea.Program
	app := NewApp(ctx, deps, func(msg tea.Msg) { p.Send(msg) })
	p = tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	app.Shutdown()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
