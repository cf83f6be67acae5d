package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/venlabs/majordomo/agent"
	"github.com/venlabs/majordomo/config"
	"github.com/venlabs/majordomo/gateway"
	"github.com/venlabs/majordomo/internal/fsstore"
	"github.com/venlabs/majordomo/internal/logutil"
	"github.com/venlabs/majordomo/knowledge"
	"github.com/venlabs/majordomo/llm"
	"github.com/venlabs/majordomo/memory"
	"github.com/venlabs/majordomo/providers/ollama"
	"github.com/venlabs/majordomo/providers/openrouter"
	"github.com/venlabs/majordomo/transport"
	"github.com/venlabs/majordomo/transport/wabridge"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Connect to the WhatsApp bridge and run the assistant loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			// A broken persona document is recoverable: boot on the built-in
			// defaults rather than refusing to start.
			cfg, found, err := config.Load(viper.GetString("agent.config_file"))
			switch {
			case err != nil:
				logger.Warn("agent config unreadable, using defaults", "path", viper.GetString("agent.config_file"), "error", err)
			case !found:
				logger.Warn("agent config not found, using defaults", "path", viper.GetString("agent.config_file"))
			}
			logger.Info("config loaded", "agent", cfg.AgentName())

			knowledgeStore := knowledge.NewStore(viper.GetString("state.dir"))
			memoryStore := memory.NewStore(viper.GetString("state.memory_file"))
			if err := memoryStore.Load(); err != nil {
				logger.Warn("transcript store unreadable, starting empty", "error", err)
			}

			client, modelLabel, err := llmClientFromViper(logger)
			if err != nil {
				return err
			}

			gw, err := gateway.New(gateway.Options{
				Config:    cfg,
				Knowledge: knowledgeStore,
				Memory:    memoryStore,
				Client:    client,
				Timezone:  viper.GetString("llm.timezone"),
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bridge, err := wabridge.Dial(ctx, wabridge.Options{
				URL:    viper.GetString("bridge.url"),
				Logger: logger,
			})
			if err != nil {
				return err
			}

			a, err := agent.New(agent.Options{
				Config:     cfg,
				Transport:  bridge,
				Memory:     memoryStore,
				Knowledge:  knowledgeStore,
				Gateway:    gw,
				ModelLabel: modelLabel,
				SelfChatID: bridge.SelfChatID(),
				Logger:     logger,
			})
			if err != nil {
				return err
			}

			logger.Info("assistant ready", "agent", cfg.AgentName(), "state", "sleeping")
			return bridge.Run(ctx, func(ctx context.Context, ev transport.Event) {
				if err := a.HandleEvent(ctx, ev); err != nil {
					// Delivery failures drop the turn, never the process.
					logger.Error("event handling failed", "conversation_id", ev.ConversationID, "error", err)
				}
			})
		},
	}
	return cmd
}

// llmClientFromViper builds the two providers and chains them per the
// prefer-cloud flag. The label names the preferred model for status reports.
func llmClientFromViper(logger *slog.Logger) (llm.Client, string, error) {
	local := ollama.New(viper.GetString("llm.local.endpoint"), viper.GetString("llm.local.model"))

	apiKey, err := cloudAPIKey()
	if err != nil {
		logger.Warn("cloud api key unavailable", "error", err)
	}
	cloud := openrouter.New(viper.GetString("llm.cloud.endpoint"), apiKey, viper.GetString("llm.cloud.model"))

	if viper.GetBool("llm.prefer_cloud") {
		fb, err := llm.NewFallback(cloud, local, logger)
		return fb, cloud.Model, err
	}
	fb, err := llm.NewFallback(local, cloud, logger)
	return fb, local.Model, err
}

// cloudAPIKey reads the key from config directly or from a JSON key file of
// the form {"api_key": "..."}.
func cloudAPIKey() (string, error) {
	if key := strings.TrimSpace(viper.GetString("llm.cloud.api_key")); key != "" {
		return key, nil
	}
	path := strings.TrimSpace(viper.GetString("llm.cloud.api_key_file"))
	if path == "" {
		return "", nil
	}
	var doc struct {
		APIKey string `json:"api_key"`
	}
	found, err := fsstore.ReadJSON(path, &doc)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("key file %s not found", path)
	}
	return strings.TrimSpace(doc.APIKey), nil
}
