package gateway

import (
	"fmt"
	"strings"
	"time"
)

const defaultTimezone = "Asia/Kolkata"

// systemPrompt assembles the instruction block for one generation: identity,
// persona style, a live timestamp in a fixed timezone, the owner knowledge
// with availability guidance, and the security rules.
func (g *Gateway) systemPrompt(now time.Time) string {
	agentName := g.Config.AgentName()
	ownerName := g.Config.OwnerName()

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s — %s's Personal Assistant.\n", agentName, ownerName)
	if style := strings.TrimSpace(g.Config.Style()); style != "" {
		b.WriteString(style)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nCURRENT TIME: %s\n", now.In(g.location()).Format("2/1/2006, 3:04:05 pm"))

	status := g.Knowledge.Status()
	fmt.Fprintf(&b, "\nMY KNOWLEDGE (About %s):\n", ownerName)
	fmt.Fprintf(&b, "- CURRENT STATUS: %s\n", status)
	fmt.Fprintf(&b, "- If status is \"Available\", tell them to call %s directly.\n", ownerName)
	fmt.Fprintf(&b, "- If status is \"Busy\", take a message. If urgent, tell them to call %s.\n", ownerName)
	if facts := g.Knowledge.Facts(); facts != "" {
		b.WriteString(facts)
		b.WriteString("\n")
	}

	if rules := strings.TrimSpace(g.Config.SecurityRules()); rules != "" {
		b.WriteString("\n")
		b.WriteString(rules)
		b.WriteString("\n")
	}
	return b.String()
}

func (g *Gateway) location() *time.Location {
	if g.loc != nil {
		return g.loc
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		loc = time.UTC
	}
	g.loc = loc
	return g.loc
}
