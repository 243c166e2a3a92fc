package config

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Settings holds all configuration values
type Settings struct {
	// Agent server connection
	Agent struct {
		BaseURL   string
		AppName   string
		UserID    string
		Streaming bool
		Timeout   time.Duration
	}

	// Rendering of agent replies
	Render struct {
		ShowThinking  bool
		Paced         bool
		TextDelayMS   int
		CardDelayMS   int
		ListLoadingMS int
		ListCardMS    int
		SearchTools   []string
	}

	Selection struct {
		ClearDelayMS int
	}

	Attachments struct {
		MaxSizeMB int
	}

	// Logging configuration
	Logging struct {
		LogFile string
		Persist bool
		Level   string
	}

	// Mock agent server
	Mock struct {
		Addr    string
		Script  string
		DelayMS int
	}

	// ConfigFile stores the path to the config file used
	ConfigFile string
}

// current is replaced as a whole on every Load, so a *Settings obtained
// from Get never changes underneath its reader.
var current atomic.Pointer[Settings]

// Init initializes the configuration system
func Init(cfgFile string) error {
	configFile := ".shopassist/settings.yaml"
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		configFile = cfgFile
	} else {
		viper.AddConfigPath("./.shopassist")
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	setDefaults()

	// SHOPASSIST_AGENT_BASE_URL maps to agent.base_url
	viper.SetEnvPrefix("shopassist")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// AGENT_URL is what the agent server's own tooling exports
	_ = viper.BindEnv("agent.base_url", "SHOPASSIST_AGENT_BASE_URL", "AGENT_URL")

	if err := viper.ReadInConfig(); err == nil {
		configFile = viper.ConfigFileUsed()
	}

	current.Store(&Settings{ConfigFile: configFile})
	return Load()
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("agent.base_url", "http://0.0.0.0:8000")
	viper.SetDefault("agent.app_name", "rag_agent")
	viper.SetDefault("agent.user_id", "user")
	viper.SetDefault("agent.streaming", false)
	viper.SetDefault("agent.timeout", "30s")

	viper.SetDefault("render.show_thinking", false)
	viper.SetDefault("render.paced", true)
	viper.SetDefault("render.text_delay_ms", 150)
	viper.SetDefault("render.card_delay_ms", 250)
	viper.SetDefault("render.list_loading_ms", 800)
	viper.SetDefault("render.list_card_ms", 150)
	viper.SetDefault("render.search_tools", []string{"rag_search_agent"})

	viper.SetDefault("selection.clear_delay_ms", 500)
	viper.SetDefault("attachments.max_size_mb", 10)

	viper.SetDefault("logging.log_file", "system.log")
	viper.SetDefault("logging.persist", false)
	viper.SetDefault("logging.level", "info")

	viper.SetDefault("mock.addr", "127.0.0.1:8000")
	viper.SetDefault("mock.script", "")
	viper.SetDefault("mock.delay_ms", 120)
}

// Load reads viper into a fresh Settings and publishes it.
func Load() error {
	s := &Settings{}
	if prev := current.Load(); prev != nil {
		s.ConfigFile = prev.ConfigFile
	}

	s.Agent.BaseURL = viper.GetString("agent.base_url")
	s.Agent.AppName = viper.GetString("agent.app_name")
	s.Agent.UserID = viper.GetString("agent.user_id")
	s.Agent.Streaming = viper.GetBool("agent.streaming")
	s.Agent.Timeout = viper.GetDuration("agent.timeout")

	s.Render.ShowThinking = viper.GetBool("render.show_thinking")
	s.Render.Paced = viper.GetBool("render.paced")
	s.Render.TextDelayMS = viper.GetInt("render.text_delay_ms")
	s.Render.CardDelayMS = viper.GetInt("render.card_delay_ms")
	s.Render.ListLoadingMS = viper.GetInt("render.list_loading_ms")
	s.Render.ListCardMS = viper.GetInt("render.list_card_ms")
	s.Render.SearchTools = viper.GetStringSlice("render.search_tools")

	s.Selection.ClearDelayMS = viper.GetInt("selection.clear_delay_ms")
	s.Attachments.MaxSizeMB = viper.GetInt("attachments.max_size_mb")

	s.Logging.LogFile = viper.GetString("logging.log_file")
	s.Logging.Persist = viper.GetBool("logging.persist")
	s.Logging.Level = viper.GetString("logging.level")

	s.Mock.Addr = viper.GetString("mock.addr")
	s.Mock.Script = viper.GetString("mock.script")
	s.Mock.DelayMS = viper.GetInt("mock.delay_ms")

	current.Store(s)
	return nil
}

// Watch reloads the settings whenever the config file changes and then
// calls fn. It does nothing when no config file was read.
func Watch(fn func(fsnotify.Event)) bool {
	if viper.ConfigFileUsed() == "" {
		return false
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		_ = Load()
		if fn != nil {
			fn(e)
		}
	})
	viper.WatchConfig()
	return true
}

// Get returns the global settings instance
func Get() *Settings {
	s := current.Load()
	if s == nil {
		panic("config not initialized - call Init() first")
	}
	return s
}

// Millis converts a millisecond setting to a duration.
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
