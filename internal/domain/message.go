package domain

import "time"

// MaxMessageLength is the longest message body, in runes, the composer
// accepts and the collection stores.
const MaxMessageLength = 1000

// Message is a chat message stored in the messages collection. Messages are
// immutable once created.
type Message struct {
	// ID is assigned by the collection on creation.
	ID string

	// Text is the message body.
	Text string

	// AuthorID is the UID of the identity that sent the message.
	AuthorID string

	// AuthorEmail is the author's display identifier at send time.
	AuthorEmail string

	// CreatedAt is assigned by the collection and is the sole sort key.
	CreatedAt time.Time
}

// NewMessage is the payload of an append. The creation timestamp is always
// assigned by the collection.
type NewMessage struct {
	Text        string
	AuthorID    string
	AuthorEmail string
}

// Order selects how a message subscription is sorted.
type Order int

const (
	// OrderByCreatedAtAsc delivers the oldest message first.
	OrderByCreatedAtAsc Order = iota
)

func (o Order) String() string {
	switch o {
	case OrderByCreatedAtAsc:
		return "createdAt asc"
	default:
		return "unknown"
	}
}
