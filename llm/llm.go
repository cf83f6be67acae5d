package llm

import (
	"context"
	"encoding/json"
	"time"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Result struct {
	Text string
	// Reasoning carries provider-supplied auxiliary reasoning metadata
	// verbatim. It is stored alongside the reply but never shown to users.
	Reasoning json.RawMessage
	Duration  time.Duration
}

type Request struct {
	Model    string
	Messages []Message
}

type Client interface {
	Chat(ctx context.Context, req Request) (Result, error)
}
