// Package ui defines what the screen controllers need from a front end.
package ui

import "context"

// Route names a screen.
type Route string

const (
	RouteLogin    Route = "login"
	RouteRegister Route = "register"
	RouteFeed     Route = "feed"
)

// Navigator replaces the current screen.
type Navigator interface {
	Navigate(route Route)
}

// Notice is a one-shot alert.
type Notice struct {
	Title string
	Body  string
}

// Notifier shows alerts.
type Notifier interface {
	Notify(n Notice)
}

// Offer is a two-choice dialog.
type Offer struct {
	Title   string
	Body    string
	Accept  string
	Decline string
}

// Confirmer asks the user to choose. It blocks until the user answers or
// ctx is done, in which case it reports false.
type Confirmer interface {
	Confirm(ctx context.Context, o Offer) bool
}
