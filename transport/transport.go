// Package transport defines the seam between the assistant core and the
// messaging layer. The core consumes inbound events and the Transport
// interface; connection lifecycle, pairing, and credential persistence belong
// to the adapter behind it.
package transport

import (
	"context"
	"strings"
	"time"
)

// Event is one inbound message as delivered by an adapter.
type Event struct {
	ConversationID string
	ParticipantID  string
	SenderName     string
	Text           string
	FromMe         bool
	IsGroup        bool
	Timestamp      time.Time
}

type Presence string

const (
	PresenceComposing Presence = "composing"
	PresencePaused    Presence = "paused"
)

type GroupMetadata struct {
	Subject string
}

type Transport interface {
	SendMessage(ctx context.Context, conversationID, text string) error
	SetPresence(ctx context.Context, conversationID string, state Presence) error
	GroupMetadata(ctx context.Context, conversationID string) (GroupMetadata, error)
}

const groupJIDSuffix = "@g.us"

// IsGroupJID reports whether a WhatsApp-style room identifier addresses a
// group conversation.
func IsGroupJID(conversationID string) bool {
	return strings.HasSuffix(strings.TrimSpace(conversationID), groupJIDSuffix)
}
