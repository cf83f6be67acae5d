// Package gateway turns a user message into an assistant reply: it assembles
// the prompt from persona, knowledge, and the conversation transcript, invokes
// the provider chain, scrubs forbidden substrings, and records the exchange.
// Every failure resolves to a user-presentable placeholder; nothing escapes
// the Generate boundary as an error.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/venlabs/majordomo/config"
	"github.com/venlabs/majordomo/guard"
	"github.com/venlabs/majordomo/knowledge"
	"github.com/venlabs/majordomo/llm"
	"github.com/venlabs/majordomo/memory"
)

const (
	// UnavailableReply goes out when every provider fails.
	UnavailableReply = "I'm having trouble connecting to my brain right now."
	// EmptyReply substitutes for a successful call that produced no content.
	EmptyReply = "I'm speechless."
)

type Options struct {
	Config    *config.Config
	Knowledge *knowledge.Store
	Memory    *memory.Store
	Client    llm.Client
	Model     string
	Timezone  string
	Logger    *slog.Logger
	Now       func() time.Time
	// Sleep injects the human-latency delay; tests replace it.
	Sleep func(time.Duration)
}

type Gateway struct {
	Config    *config.Config
	Knowledge *knowledge.Store
	Memory    *memory.Store
	Client    llm.Client
	Model     string
	Timezone  string

	logger *slog.Logger
	now    func() time.Time
	sleep  func(time.Duration)
	loc    *time.Location
}

func New(opts Options) (*Gateway, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Knowledge == nil {
		return nil, fmt.Errorf("knowledge store is required")
	}
	if opts.Memory == nil {
		return nil, fmt.Errorf("memory store is required")
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	g := &Gateway{
		Config:    opts.Config,
		Knowledge: opts.Knowledge,
		Memory:    opts.Memory,
		Client:    opts.Client,
		Model:     opts.Model,
		Timezone:  opts.Timezone,
		logger:    opts.Logger,
		now:       opts.Now,
		sleep:     opts.Sleep,
	}
	if g.Timezone == "" {
		g.Timezone = defaultTimezone
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.sleep == nil {
		g.sleep = time.Sleep
	}
	return g, nil
}

// Generate produces the assistant reply for one user message. The transcript
// gains a user and an assistant turn only when a provider succeeds; a total
// provider failure leaves it untouched.
func (g *Gateway) Generate(ctx context.Context, conversationID, userText string) string {
	turns := g.Memory.Turns(conversationID)
	turns = append(turns, memory.Turn{Role: memory.RoleUser, Content: userText})
	if len(turns) > memory.MaxTurns {
		turns = turns[len(turns)-memory.MaxTurns:]
	}

	messages := make([]llm.Message, 0, len(turns)+1)
	messages = append(messages, llm.Message{Role: "system", Content: g.systemPrompt(g.now())})
	for _, t := range turns {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}

	res, err := g.Client.Chat(ctx, llm.Request{Model: g.Model, Messages: messages})
	if err != nil {
		g.logger.Error("all providers failed", "conversation_id", conversationID, "error", err)
		return UnavailableReply
	}

	reply := res.Text
	if reply == "" {
		reply = EmptyReply
	}
	redactor := guard.NewRedactor(g.Config.ForbiddenWords())
	reply, redacted := redactor.RedactString(reply)
	if redacted {
		g.logger.Warn("redacted forbidden content from reply", "conversation_id", conversationID)
	}

	turns = append(turns, memory.Turn{
		Role:      memory.RoleAssistant,
		Content:   reply,
		Reasoning: res.Reasoning,
	})
	if err := g.Memory.Replace(conversationID, turns); err != nil {
		g.logger.Error("persisting transcript failed", "conversation_id", conversationID, "error", err)
	}

	// Humanize the response latency. Blocks only this conversation's turn.
	g.sleep(time.Duration(1000+rand.Intn(1000)) * time.Millisecond)
	return reply
}
