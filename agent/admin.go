package agent

import (
	"context"
	"fmt"

	"github.com/venlabs/majordomo/transport"
)

// handleGroup covers every group-room event. Before a binding exists, any
// group message triggers a subject lookup; the first group whose subject
// matches the configured owner-group name becomes the admin channel and stays
// bound for the life of the process. All other groups are inert.
func (a *Agent) handleGroup(ctx context.Context, ev transport.Event) error {
	if a.ownerGroupID == "" {
		meta, err := a.transport.GroupMetadata(ctx, ev.ConversationID)
		if err != nil {
			a.logger.Warn("group metadata lookup failed", "conversation_id", ev.ConversationID, "error", err)
			return nil
		}
		if meta.Subject != a.cfg.OwnerGroupName() {
			return nil
		}
		a.ownerGroupID = ev.ConversationID
		a.logger.Info("owner group linked", "conversation_id", a.ownerGroupID)
		if err := a.send(ctx, ev.ConversationID, adminLinkedReply(a.cfg.AgentName())); err != nil {
			return err
		}
		// The message that triggered the binding is still an admin command.
	}
	if ev.ConversationID != a.ownerGroupID {
		return nil
	}
	return a.dispatchAdmin(ctx, ev)
}

func (a *Agent) dispatchAdmin(ctx context.Context, ev transport.Event) error {
	conv := ev.ConversationID
	cmd := parseAdminCommand(ev.Text)

	switch cmd.kind {
	case adminHelp:
		return a.send(ctx, conv, adminMenu(a.cfg.AgentName()))

	case adminWake:
		a.active = true
		return a.send(ctx, conv, fmt.Sprintf("⚡ %s is now AWAKE.", a.cfg.AgentName()))

	case adminSleep:
		a.active = false
		return a.send(ctx, conv, fmt.Sprintf("💤 %s is now SLEEPING.", a.cfg.AgentName()))

	case adminStatus:
		report := statusReport(
			a.cfg.AgentName(),
			a.active,
			a.knowledge.Status(),
			a.modelLabel,
			a.memory.Count(),
			a.now().Sub(a.startedAt),
		)
		return a.send(ctx, conv, report)

	case adminMyStatus:
		if cmd.arg == "" {
			return a.send(ctx, conv, fmt.Sprintf("ℹ️ Current Status: %q", a.knowledge.Status()))
		}
		if err := a.knowledge.SetStatus(cmd.arg); err != nil {
			a.logger.Error("updating owner status failed", "error", err)
			return a.send(ctx, conv, "⚠️ Could not save the status.")
		}
		return a.send(ctx, conv, fmt.Sprintf("✅ Status Updated: %q", cmd.arg))

	case adminMyInfo:
		if cmd.arg == "" {
			facts := a.knowledge.Facts()
			if facts == "" {
				facts = "(none)"
			}
			return a.send(ctx, conv, "📜 *Stored Facts:*\n"+facts)
		}
		if err := a.knowledge.AddFact(cmd.arg); err != nil {
			a.logger.Error("adding owner fact failed", "error", err)
			return a.send(ctx, conv, "⚠️ Could not save the fact.")
		}
		return a.send(ctx, conv, fmt.Sprintf("✅ Fact Added: %q", cmd.arg))

	case adminAgentName:
		if cmd.arg == "" {
			return a.send(ctx, conv, fmt.Sprintf("ℹ️ Current Name: %q", a.cfg.AgentName()))
		}
		if err := a.cfg.SetAgentName(cmd.arg); err != nil {
			a.logger.Error("persisting agent rename failed", "error", err)
		}
		return a.send(ctx, conv, fmt.Sprintf("✅ Agent renamed to %q.", a.cfg.AgentName()))

	case adminClear:
		if err := a.memory.Clear(); err != nil {
			a.logger.Error("wiping conversation memory failed", "error", err)
		}
		a.sessions = make(map[string]struct{})
		return a.send(ctx, conv, "🧹 SYSTEM RESET: All memories wiped.")

	case adminClearStatus:
		if err := a.knowledge.ClearStatus(); err != nil {
			a.logger.Error("clearing owner status failed", "error", err)
		}
		return a.send(ctx, conv, "🧹 Status cleared.")

	case adminClearInfo:
		if err := a.knowledge.ClearFacts(); err != nil {
			a.logger.Error("clearing owner facts failed", "error", err)
		}
		return a.send(ctx, conv, "🧹 All Facts deleted.")

	case adminUnknown:
		// Stay quiet; the control channel is also a normal group chat.
		return nil
	default:
		return nil
	}
}
