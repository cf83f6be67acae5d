// Package guard decides what an inbound event is before any routing happens:
// traffic to drop (including the agent's own output echoed back through the
// event stream), admin-group candidates, and ordinary user messages. It also
// carries the forbidden-substring redactor applied to generated replies.
package guard

import (
	"strings"

	"github.com/venlabs/majordomo/transport"
)

type DecisionKind int

const (
	// Drop means the event must be silently discarded.
	Drop DecisionKind = iota
	// Admin means the event came from a group room and belongs to the admin
	// routing path.
	Admin
	// User means the event is an ordinary conversational message.
	User
)

type Decision struct {
	Kind        DecisionKind
	DisplayName string
}

const (
	selfDisplayName    = "me"
	unknownDisplayName = "unknown"
)

// Classifier screens inbound events. EchoPrefixes must list every prefix the
// agent itself emits; any inbound text starting with one of them is treated as
// the agent's own output reappearing on the wire (multi-device sync echoes)
// and dropped before it can trigger a reply loop.
type Classifier struct {
	IgnorePrefix string
	EchoPrefixes []string
	// SelfChatID is the operator's own note-to-self conversation. Self-authored
	// events anywhere else are the operator talking to a third party and must
	// not be answered.
	SelfChatID string
}

func (c *Classifier) Classify(ev transport.Event) Decision {
	text := ev.Text
	if strings.TrimSpace(text) == "" {
		return Decision{Kind: Drop}
	}
	if c.IgnorePrefix != "" && strings.HasPrefix(text, c.IgnorePrefix) {
		return Decision{Kind: Drop}
	}
	for _, prefix := range c.EchoPrefixes {
		if prefix != "" && strings.HasPrefix(text, prefix) {
			return Decision{Kind: Drop}
		}
	}

	if ev.IsGroup {
		return Decision{Kind: Admin}
	}

	if ev.FromMe {
		if c.SelfChatID == "" || ev.ConversationID != c.SelfChatID {
			return Decision{Kind: Drop}
		}
		return Decision{Kind: User, DisplayName: selfDisplayName}
	}

	name := strings.TrimSpace(ev.SenderName)
	if name == "" {
		name = unknownDisplayName
	}
	return Decision{Kind: User, DisplayName: name}
}
