package agent

import (
	"fmt"
	"strings"
	"time"
)

// replyPrefix is prepended to every generated reply so recipients can tell
// the assistant's turns from the owner's. The classifier treats it as an echo
// marker, so changing its shape means changing EchoPrefixes too.
func replyPrefix(agentName string) string {
	return agentName + " : "
}

func busyBannerHeader(ownerName string) string {
	return fmt.Sprintf("*%s is Busy!*", ownerName)
}

func userMenuHeader(agentName string) string {
	return "Commands for " + agentName
}

func adminMenuHeader(agentName string) string {
	return fmt.Sprintf("*%s Control Center*", agentName)
}

// EchoPrefixes lists every prefix the agent emits on its own initiative. Any
// inbound text starting with one of these is the agent's own output coming
// back through the event stream and must never be routed.
func EchoPrefixes(agentName, ownerName string) []string {
	return []string{
		replyPrefix(agentName),
		busyBannerHeader(ownerName),
		userMenuHeader(agentName),
		adminMenuHeader(agentName),
	}
}

func greetingReply(agentName string) string {
	return replyPrefix(agentName) + "Yes, how can I help?"
}

func sleepingNotice(agentName, ownerName string) string {
	return fmt.Sprintf("💤 %s is currently sleeping. Please contact %s directly.", agentName, ownerName)
}

const farewellReply = "Bye! 👋"

const memoryClearedReply = "🧹 Chat memory cleared."

func muteConfirmReply(d time.Duration) string {
	return fmt.Sprintf("🔕 Okay, staying quiet here for the next %d minutes.", int(d.Minutes()))
}

func userMenu(agentName string) string {
	return strings.Join([]string{
		userMenuHeader(agentName),
		"",
		"*/agent* : Start Chat",
		"*/clear* : Clear memory",
		"*/mute* : Pause auto-replies",
		"*/q* : Stop Chat",
		"*/help* : Show this menu",
	}, "\n")
}

func busyBanner(agentName, ownerName string) string {
	return strings.Join([]string{
		busyBannerHeader(ownerName),
		"",
		fmt.Sprintf("I am %s's assistant %q", ownerName, agentName),
		"",
		"*/agent* : Start Chat",
		"*/clear* : Clear memory",
		"*/mute* : Pause auto-replies",
		"*/q* : Stop Chat",
		"*/help* : Show this menu",
	}, "\n")
}

func adminMenu(agentName string) string {
	return strings.Join([]string{
		adminMenuHeader(agentName),
		"*/wake* : Activate Agent",
		"*/sleep* : Deactivate Agent",
		"*/status* : Check Agent Status",
		"*/mystatus [msg]* : Check or Update Owner Status",
		"*/myinfo [msg]* : View or Add Facts about Owner",
		"*/agentname [name]* : Check or Rename Agent",
		"*/clear mystatus* : Blank Owner Status",
		"*/clear myinfo* : Delete All Facts",
		"*/clear* : Wipe All Chat Memory (RESET AGENT)",
	}, "\n")
}

func adminLinkedReply(agentName string) string {
	return replyPrefix(agentName) + "Owner Group Connected! Type /help."
}

func statusReport(agentName string, awake bool, status, model string, chats int, uptime time.Duration) string {
	state := "💤 SLEEPING"
	if awake {
		state = "✅ AWAKE"
	}
	return strings.Join([]string{
		fmt.Sprintf("*%s Health Report*", agentName),
		"",
		"*State:* " + state,
		fmt.Sprintf("*Knowledge:* %q", status),
		"*Model:* " + model,
		fmt.Sprintf("*Active Chats:* %d", chats),
		fmt.Sprintf("*Uptime:* %.1f mins", uptime.Minutes()),
	}, "\n")
}
