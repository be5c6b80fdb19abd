package auth

import (
	"errors"

	"github.com/niazbuoy08/chat-app/internal/domain"
)

// Alert titles.
const (
	TitleError             = "Error"
	TitleLoginError        = "Login Error"
	TitleRegistrationError = "Registration Error"
	TitleSuccess           = "Success"
	TitleAlreadyLoggedIn   = "Already Logged In"
)

// Local validation messages.
const (
	MsgEnterEmail        = "Please enter your email"
	MsgEnterPassword     = "Please enter your password"
	MsgFillAllFields     = "Please fill in all fields"
	MsgPasswordTooShort  = "Password must be at least 6 characters long"
	MsgPasswordsMismatch = "Passwords do not match"
	MsgInvalidEmail      = "Please enter a valid email address"
	MsgAccountCreated    = "Account created successfully!"
)

const (
	msgNetwork = "Network error. Please check your internet connection."

	defaultLoginFailure    = "Login failed. Please try again."
	defaultRegisterFailure = "Registration failed. Please try again."
)

var loginMessages = map[domain.Code]string{
	domain.CodeInvalidEmail:    "Please enter a valid email address.",
	domain.CodeUserNotFound:    "No account found with this email. Please register first.",
	domain.CodeWrongPassword:   "Incorrect password. Please try again.",
	domain.CodeTooManyRequests: "Too many failed login attempts. Please try again later.",
	domain.CodeNetworkFailed:   msgNetwork,
}

var registerMessages = map[domain.Code]string{
	domain.CodeEmailAlreadyInUse: "This email is already registered. Please use a different email or try logging in.",
	domain.CodeInvalidEmail:      "Please enter a valid email address.",
	domain.CodeWeakPassword:      "Password is too weak. Please choose a stronger password.",
	domain.CodeNetworkFailed:     msgNetwork,
}

// LoginMessage returns the text shown for a failed sign-in.
func LoginMessage(err error) string {
	return lookup(loginMessages, err, defaultLoginFailure)
}

// RegisterMessage returns the text shown for a failed registration.
func RegisterMessage(err error) string {
	return lookup(registerMessages, err, defaultRegisterFailure)
}

func lookup(table map[domain.Code]string, err error, fallback string) string {
	if msg, ok := table[domain.CodeOf(err)]; ok {
		return msg
	}
	var f *domain.Failure
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	return fallback
}
