package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// A corrupt persona document must not abort startup; serve boots on defaults
// and proceeds all the way to the bridge dial.
func TestServeBootsWithCorruptPersonaDoc(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "agent_config.json")
	if err := os.WriteFile(cfgPath, []byte(`{not json`), 0o600); err != nil {
		t.Fatalf("write persona doc: %v", err)
	}

	viper.Reset()
	t.Cleanup(viper.Reset)
	initViperDefaults()
	viper.Set("agent.config_file", cfgPath)
	viper.Set("state.dir", filepath.Join(dir, "state"))
	viper.Set("state.memory_file", filepath.Join(dir, "state", "agent_memory.json"))
	// Nothing listens here; the dial fails immediately.
	viper.Set("bridge.url", "ws://127.0.0.1:1/ws")

	cmd := newServeCmd()
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, nil)
	if err == nil {
		t.Fatalf("RunE() error = nil, want a bridge dial failure")
	}
	if !strings.Contains(err.Error(), "dial bridge") {
		t.Fatalf("serve failed before reaching the bridge dial: %v", err)
	}
}
