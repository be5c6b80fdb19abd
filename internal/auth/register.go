package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/niazbuoy08/chat-app/internal/domain"
	"github.com/niazbuoy08/chat-app/internal/flight"
	"github.com/niazbuoy08/chat-app/internal/ui"
)

// MinSecretLength is the shortest password the register screen accepts.
const MinSecretLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has the local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Register is the sign-up screen.
type Register struct {
	Screen

	submit flight.Guard
}

// NewRegister creates the sign-up screen controller.
func NewRegister(s Screen) *Register {
	return &Register{Screen: s}
}

// Busy reports whether a registration is outstanding.
func (r *Register) Busy() bool {
	return r.submit.Busy()
}

// Submit validates the form, creates the account and moves to the feed.
func (r *Register) Submit(ctx context.Context, identifier, secret, confirm string) error {
	if err := validateRegister(identifier, secret, confirm); err != nil {
		r.Notifier.Notify(ui.Notice{Title: TitleError, Body: err.Message})
		return err
	}

	return r.submit.Do(func() error {
		id, err := r.Provider.CreateIdentity(ctx, strings.TrimSpace(identifier), secret)
		if err != nil {
			r.Logger.Warn("registration failed", "error", err)
			classified := domain.Classify(err, RegisterMessage(err))
			r.Notifier.Notify(ui.Notice{Title: TitleRegistrationError, Body: classified.Message})
			return classified
		}

		if err := r.Session.WaitFor(ctx, sameUID(id)); err != nil {
			return fmt.Errorf("wait for session: %w", err)
		}
		r.Notifier.Notify(ui.Notice{Title: TitleSuccess, Body: MsgAccountCreated})
		r.Navigator.Navigate(ui.RouteFeed)
		return nil
	})
}

// The checks run in a fixed order and the first failure wins. The pattern is
// applied to the identifier as typed, so surrounding blanks are rejected.
func validateRegister(identifier, secret, confirm string) *domain.Error {
	if strings.TrimSpace(identifier) == "" || strings.TrimSpace(secret) == "" {
		return domain.ValidationError(MsgFillAllFields)
	}
	if len([]rune(secret)) < MinSecretLength {
		return domain.ValidationError(MsgPasswordTooShort)
	}
	if secret != confirm {
		return domain.ValidationError(MsgPasswordsMismatch)
	}
	if !ValidEmail(identifier) {
		return domain.ValidationError(MsgInvalidEmail)
	}
	return nil
}
