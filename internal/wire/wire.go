// Package wire defines the JSON bodies exchanged between the remote SDK and
// the dev backend.
package wire

import (
	"encoding/json"
	"time"

	"github.com/niazbuoy08/chat-app/internal/domain"
)

// MessageType identifies a websocket frame.
type MessageType string

const (
	// TypeSnapshot carries a SnapshotMessage.
	TypeSnapshot MessageType = "snapshot"
	// TypeError carries an ErrorBody and ends the stream.
	TypeError MessageType = "error"
)

// Envelope wraps every websocket frame with its type.
type Envelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals data into an envelope of the given type.
func NewEnvelope(t MessageType, data any) (*Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Envelope{Type: t, Data: raw}, nil
}

// Credentials is the body of sign-in and sign-up requests.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identity is the wire form of domain.Identity.
type Identity struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// SessionResponse answers a successful sign-in or sign-up.
type SessionResponse struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

// CurrentSessionResponse answers a session lookup.
type CurrentSessionResponse struct {
	Identity Identity `json:"identity"`
}

// AppendRequest is the body of a message append.
type AppendRequest struct {
	Text        string `json:"text"`
	AuthorID    string `json:"author_id"`
	AuthorEmail string `json:"author_email"`
}

// AppendResponse carries the ID the backend assigned.
type AppendResponse struct {
	ID string `json:"id"`
}

// Message is the wire form of domain.Message.
type Message struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	AuthorID    string    `json:"author_id"`
	AuthorEmail string    `json:"author_email"`
	CreatedAt   time.Time `json:"created_at"`
}

// SnapshotMessage is the full collection at one point in time.
type SnapshotMessage struct {
	Messages []Message `json:"messages"`
}

// ErrorBody is returned with every failed request and as the final frame of
// a failed subscription.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Failure converts the body back into a domain failure.
func (e ErrorBody) Failure() *domain.Failure {
	return &domain.Failure{Code: domain.Code(e.Code), Message: e.Message}
}

// FromIdentity converts a domain identity.
func FromIdentity(id *domain.Identity) Identity {
	return Identity{UID: id.UID, Email: id.Email, EmailVerified: id.EmailVerified}
}

// Domain converts back to a domain identity.
func (i Identity) Domain() *domain.Identity {
	return &domain.Identity{UID: i.UID, Email: i.Email, EmailVerified: i.EmailVerified}
}

// FromMessages converts domain messages, preserving order.
func FromMessages(msgs []domain.Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = Message{
			ID:          m.ID,
			Text:        m.Text,
			AuthorID:    m.AuthorID,
			AuthorEmail: m.AuthorEmail,
			CreatedAt:   m.CreatedAt,
		}
	}
	return out
}

// ToMessages converts wire messages, preserving order.
func ToMessages(msgs []Message) []domain.Message {
	out := make([]domain.Message, len(msgs))
	for i, m := range msgs {
		out[i] = domain.Message{
			ID:          m.ID,
			Text:        m.Text,
			AuthorID:    m.AuthorID,
			AuthorEmail: m.AuthorEmail,
			CreatedAt:   m.CreatedAt,
		}
	}
	return out
}
