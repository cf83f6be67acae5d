// Package config loads and persists the assistant's persona document: owner
// and agent identity, the admin group subject to bind against, forbidden
// substrings, and the style/security prompt fragments.
package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/venlabs/majordomo/internal/fsstore"
)

const (
	DefaultOwnerName      = "Admin"
	DefaultAgentName      = "Assistant"
	DefaultOwnerGroupName = "Admin Control"
	DefaultIgnorePrefix   = "//"
)

type Config struct {
	mu sync.Mutex

	path string

	ownerName      string
	agentName      string
	ownerGroupName string
	forbiddenWords []string
	style          string
	securityRules  string
	ignorePrefix   string
}

// StringOrLines decodes a JSON value that is either a single string or a list
// of lines joined with newlines.
type StringOrLines string

func (s *StringOrLines) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringOrLines(single)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("value must be a string or a list of strings")
	}
	*s = StringOrLines(strings.Join(lines, "\n"))
	return nil
}

type document struct {
	OwnerName      string        `json:"owner_name"`
	AgentName      string        `json:"agent_name"`
	OwnerGroupName string        `json:"owner_group_name"`
	ForbiddenWords []string      `json:"forbidden_words"`
	MyStyle        StringOrLines `json:"my_style"`
	SecurityRules  StringOrLines `json:"security_rules"`
	IgnorePrefix   string        `json:"ignore_prefix,omitempty"`
}

// Load reads the persona document at path. A missing or unreadable file yields
// the built-in defaults; found reports whether the file supplied any values.
func Load(path string) (*Config, bool, error) {
	cfg := &Config{
		path:           strings.TrimSpace(path),
		ownerName:      DefaultOwnerName,
		agentName:      DefaultAgentName,
		ownerGroupName: DefaultOwnerGroupName,
		ignorePrefix:   DefaultIgnorePrefix,
	}
	if cfg.path == "" {
		return cfg, false, nil
	}

	var doc document
	found, err := fsstore.ReadJSON(cfg.path, &doc)
	if err != nil {
		return cfg, false, err
	}
	if !found {
		return cfg, false, nil
	}

	if v := strings.TrimSpace(doc.OwnerName); v != "" {
		cfg.ownerName = v
	}
	if v := strings.TrimSpace(doc.AgentName); v != "" {
		cfg.agentName = v
	}
	if v := strings.TrimSpace(doc.OwnerGroupName); v != "" {
		cfg.ownerGroupName = v
	}
	cfg.forbiddenWords = normalizeWords(doc.ForbiddenWords)
	cfg.style = string(doc.MyStyle)
	cfg.securityRules = string(doc.SecurityRules)
	if v := strings.TrimSpace(doc.IgnorePrefix); v != "" {
		cfg.ignorePrefix = v
	}
	return cfg, true, nil
}

func (c *Config) OwnerName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ownerName
}

func (c *Config) AgentName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agentName
}

func (c *Config) OwnerGroupName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ownerGroupName
}

func (c *Config) ForbiddenWords() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.forbiddenWords))
	copy(out, c.forbiddenWords)
	return out
}

func (c *Config) Style() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style
}

func (c *Config) SecurityRules() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.securityRules
}

func (c *Config) IgnorePrefix() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ignorePrefix
}

// SetAgentName renames the agent in memory and persists the updated document.
// The rename sticks in memory even when the write fails; the caller decides
// whether a stale file is worth surfacing.
func (c *Config) SetAgentName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("agent name is required")
	}

	c.mu.Lock()
	c.agentName = name
	doc := document{
		OwnerName:      c.ownerName,
		AgentName:      c.agentName,
		OwnerGroupName: c.ownerGroupName,
		ForbiddenWords: c.forbiddenWords,
		MyStyle:        StringOrLines(c.style),
		SecurityRules:  StringOrLines(c.securityRules),
		IgnorePrefix:   c.ignorePrefix,
	}
	path := c.path
	c.mu.Unlock()

	if path == "" {
		return nil
	}
	return fsstore.WriteJSONAtomic(path, doc, fsstore.FileOptions{})
}

func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, raw := range words {
		w := strings.TrimSpace(raw)
		if w == "" {
			continue
		}
		out = append(out, w)
	}
	return out
}
