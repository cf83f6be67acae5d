package main

import "github.com/spf13/viper"

func initViperDefaults() {
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.add_source", false)

	viper.SetDefault("state.dir", "state")
	viper.SetDefault("state.memory_file", "state/agent_memory.json")
	viper.SetDefault("agent.config_file", "agent_config.json")

	viper.SetDefault("bridge.url", "ws://127.0.0.1:3001/ws")

	viper.SetDefault("llm.prefer_cloud", false)
	viper.SetDefault("llm.timezone", "Asia/Kolkata")
	viper.SetDefault("llm.local.endpoint", "http://127.0.0.1:11434")
	viper.SetDefault("llm.local.model", "llama3.1")
	viper.SetDefault("llm.cloud.endpoint", "https://openrouter.ai")
	viper.SetDefault("llm.cloud.model", "nvidia/nemotron-3-nano-30b-a3b:free")
	viper.SetDefault("llm.cloud.api_key", "")
	viper.SetDefault("llm.cloud.api_key_file", "")
}
