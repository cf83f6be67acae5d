package agent

import "strings"

// User-facing commands form a closed set produced by one parse step so the
// router dispatches through an exhaustive switch instead of scattered string
// comparisons. Anything unrecognized is conversational text.
type userCommand int

const (
	cmdText userCommand = iota
	cmdStart
	cmdStop
	cmdClear
	cmdMute
	cmdHelp
)

func parseUserCommand(text string) userCommand {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "/agent":
		return cmdStart
	case "/q", "/exit":
		return cmdStop
	case "/clear":
		return cmdClear
	case "/mute":
		return cmdMute
	case "/help", "help":
		return cmdHelp
	default:
		return cmdText
	}
}

type adminCommandKind int

const (
	adminUnknown adminCommandKind = iota
	adminHelp
	adminWake
	adminSleep
	adminStatus
	adminMyStatus
	adminMyInfo
	adminAgentName
	adminClear
	adminClearStatus
	adminClearInfo
)

type adminCommand struct {
	kind adminCommandKind
	arg  string
}

func parseAdminCommand(text string) adminCommand {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	switch lower {
	case "/help", "help":
		return adminCommand{kind: adminHelp}
	case "/wake":
		return adminCommand{kind: adminWake}
	case "/sleep":
		return adminCommand{kind: adminSleep}
	case "/status":
		return adminCommand{kind: adminStatus}
	case "/clear mystatus":
		return adminCommand{kind: adminClearStatus}
	case "/clear myinfo":
		return adminCommand{kind: adminClearInfo}
	case "/clear":
		return adminCommand{kind: adminClear}
	}

	switch {
	case strings.HasPrefix(lower, "/mystatus"):
		return adminCommand{kind: adminMyStatus, arg: strings.TrimSpace(trimmed[len("/mystatus"):])}
	case strings.HasPrefix(lower, "/myinfo"):
		return adminCommand{kind: adminMyInfo, arg: strings.TrimSpace(trimmed[len("/myinfo"):])}
	case strings.HasPrefix(lower, "/agentname"):
		return adminCommand{kind: adminAgentName, arg: strings.TrimSpace(trimmed[len("/agentname"):])}
	}

	return adminCommand{kind: adminUnknown}
}
