// Package agent owns the routing state machine: the global awake/sleeping
// flag, the owner-admin-group binding, per-conversation sessions and mute
// windows, and the dispatch from classified inbound events to admin commands,
// user commands, or the inference gateway.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/venlabs/majordomo/config"
	"github.com/venlabs/majordomo/guard"
	"github.com/venlabs/majordomo/knowledge"
	"github.com/venlabs/majordomo/memory"
	"github.com/venlabs/majordomo/transport"
)

// muteDuration is the fixed length of a /mute window.
const muteDuration = 30 * time.Minute

// Generator produces an assistant reply for one user message. It never fails;
// the gateway maps every internal error to presentable text.
type Generator interface {
	Generate(ctx context.Context, conversationID, userText string) string
}

type Options struct {
	Config    *config.Config
	Transport transport.Transport
	Memory    *memory.Store
	Knowledge *knowledge.Store
	Gateway   Generator
	// ModelLabel names the active model in admin status reports.
	ModelLabel string
	// SelfChatID is the operator's own note-to-self conversation id.
	SelfChatID string
	Logger     *slog.Logger
	Now        func() time.Time
}

// Agent processes one inbound event at a time; it relies on the transport
// adapter delivering events serially and is not safe for concurrent use.
type Agent struct {
	cfg        *config.Config
	transport  transport.Transport
	memory     *memory.Store
	knowledge  *knowledge.Store
	gateway    Generator
	modelLabel string
	selfChatID string
	logger     *slog.Logger
	now        func() time.Time

	active       bool
	ownerGroupID string
	sessions     map[string]struct{}
	mutes        map[string]time.Time
	startedAt    time.Time
}

func New(opts Options) (*Agent, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if opts.Memory == nil {
		return nil, fmt.Errorf("memory store is required")
	}
	if opts.Knowledge == nil {
		return nil, fmt.Errorf("knowledge store is required")
	}
	if opts.Gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	a := &Agent{
		cfg:        opts.Config,
		transport:  opts.Transport,
		memory:     opts.Memory,
		knowledge:  opts.Knowledge,
		gateway:    opts.Gateway,
		modelLabel: opts.ModelLabel,
		selfChatID: opts.SelfChatID,
		logger:     opts.Logger,
		now:        opts.Now,
		sessions:   make(map[string]struct{}),
		mutes:      make(map[string]time.Time),
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.now == nil {
		a.now = time.Now
	}
	a.startedAt = a.now()
	return a, nil
}

// classifier is rebuilt per event because /agentname can rename the agent at
// runtime and the echo prefixes must follow the current name.
func (a *Agent) classifier() *guard.Classifier {
	return &guard.Classifier{
		IgnorePrefix: a.cfg.IgnorePrefix(),
		EchoPrefixes: EchoPrefixes(a.cfg.AgentName(), a.cfg.OwnerName()),
		SelfChatID:   a.selfChatID,
	}
}

// HandleEvent routes one inbound event to exactly one of: silence, the admin
// command surface, a user command, or the inference gateway.
func (a *Agent) HandleEvent(ctx context.Context, ev transport.Event) error {
	decision := a.classifier().Classify(ev)
	switch decision.Kind {
	case guard.Drop:
		a.logger.Debug("dropped inbound event", "conversation_id", ev.ConversationID, "from_me", ev.FromMe)
		return nil
	case guard.Admin:
		return a.handleGroup(ctx, ev)
	case guard.User:
		a.logger.Info("user message", "conversation_id", ev.ConversationID, "sender", decision.DisplayName)
		return a.handleUser(ctx, ev)
	default:
		return nil
	}
}

func (a *Agent) handleUser(ctx context.Context, ev transport.Event) error {
	conv := ev.ConversationID

	cmd := parseUserCommand(ev.Text)
	switch cmd {
	case cmdStart:
		if !a.active {
			return a.send(ctx, conv, sleepingNotice(a.cfg.AgentName(), a.cfg.OwnerName()))
		}
		a.sessions[conv] = struct{}{}
		return a.send(ctx, conv, greetingReply(a.cfg.AgentName()))
	case cmdClear:
		// Memory wipes work even while sleeping.
		if err := a.memory.Delete(conv); err != nil {
			a.logger.Error("clearing conversation memory failed", "conversation_id", conv, "error", err)
		}
		delete(a.sessions, conv)
		return a.send(ctx, conv, memoryClearedReply)
	}

	if !a.active {
		return nil
	}

	switch cmd {
	case cmdStop:
		if _, ok := a.sessions[conv]; !ok {
			return nil
		}
		delete(a.sessions, conv)
		return a.send(ctx, conv, farewellReply)
	case cmdMute:
		if ev.IsGroup {
			return nil
		}
		a.mutes[conv] = a.now().Add(muteDuration)
		return a.send(ctx, conv, muteConfirmReply(muteDuration))
	case cmdHelp:
		return a.send(ctx, conv, userMenu(a.cfg.AgentName()))
	}

	if _, ok := a.sessions[conv]; ok {
		a.setPresence(ctx, conv, transport.PresenceComposing)
		reply := a.gateway.Generate(ctx, conv, ev.Text)
		err := a.send(ctx, conv, replyPrefix(a.cfg.AgentName())+reply)
		a.setPresence(ctx, conv, transport.PresencePaused)
		return err
	}

	// Idle conversation: unsolicited banner unless the room is a group or
	// inside an unexpired mute window.
	if ev.IsGroup {
		return nil
	}
	if until, ok := a.mutes[conv]; ok && a.now().Before(until) {
		return nil
	}
	return a.send(ctx, conv, busyBanner(a.cfg.AgentName(), a.cfg.OwnerName()))
}

func (a *Agent) send(ctx context.Context, conversationID, text string) error {
	if err := a.transport.SendMessage(ctx, conversationID, text); err != nil {
		return fmt.Errorf("send to %s: %w", conversationID, err)
	}
	return nil
}

func (a *Agent) setPresence(ctx context.Context, conversationID string, state transport.Presence) {
	if err := a.transport.SetPresence(ctx, conversationID, state); err != nil {
		a.logger.Warn("presence update failed", "conversation_id", conversationID, "state", state, "error", err)
	}
}
