package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"

	"github.com/vishnuprakaz/sales-assist/pkg/agent"
	"github.com/vishnuprakaz/sales-assist/pkg/chat"
	"github.com/vishnuprakaz/sales-assist/pkg/config"
	"github.com/vishnuprakaz/sales-assist/pkg/controllers"
	"github.com/vishnuprakaz/sales-assist/pkg/headless"
	"github.com/vishnuprakaz/sales-assist/pkg/logger"
	"github.com/vishnuprakaz/sales-assist/pkg/render"
	"github.com/vishnuprakaz/sales-assist/pkg/tui"
	tuichat "github.com/vishnuprakaz/sales-assist/pkg/tui/chat"
)

// AppConfig contains all configuration needed to run the application
type AppConfig struct {
	Settings     *config.Settings
	DirectPrompt string
	NoTUI        bool
	Attach       []string
	Style        string
	Width        int
}

// RunApplication is the main entry point for the application logic
func RunApplication(ctx context.Context, appCfg *AppConfig) error {
	s := appCfg.Settings
	logger.Info("Application starting, agent at %s", s.Agent.BaseURL)

	attachments := chat.NewAttachments(int64(s.Attachments.MaxSizeMB) << 20)
	if len(appCfg.Attach) > 0 {
		added, err := attachments.AddPaths(appCfg.Attach)
		if err != nil {
			return fmt.Errorf("attach files: %w", err)
		}
		logger.Info("Attached %d file(s)", added)
	}

	client := newAgentClient(s)

	// Handle direct prompt execution
	if appCfg.DirectPrompt != "" || appCfg.NoTUI {
		controller := controllers.NewChatController(client, attachments, controllerOptions(s, false))
		return headless.RunHeadless(ctx, controller, appCfg.DirectPrompt, headless.Options{
			Out:           os.Stdout,
			Progress:      os.Stderr,
			Width:         appCfg.Width,
			MarkdownStyle: markdownStyle(appCfg.Style, "notty"),
		})
	}

	// Log level follows edits to the config file while the TUI runs
	config.Watch(func(e fsnotify.Event) {
		logger.SetLevel(logger.ParseLevel(config.Get().Logging.Level))
		logger.Info("Config file changed: %s", e.Name)
	})

	return tui.StartApp(ctx, tui.Options{
		Chat: tuichat.Config{
			Client:        client,
			Attachments:   attachments,
			Controller:    controllerOptions(s, true),
			MarkdownStyle: markdownStyle(appCfg.Style, "dark"),
		},
		DebugLog: debugLog(s),
	})
}

func newAgentClient(s *config.Settings) *agent.Client {
	return agent.NewClient(agent.Config{
		BaseURL:   s.Agent.BaseURL,
		AppName:   s.Agent.AppName,
		UserID:    s.Agent.UserID,
		Timeout:   s.Agent.Timeout,
		Streaming: s.Agent.Streaming,
	})
}

// renderOptions maps the render settings. Pacing only applies to
// interactive output.
func renderOptions(s *config.Settings, interactive bool) render.Options {
	opts := render.Options{
		ShowThinking: s.Render.ShowThinking,
		SearchTools:  s.Render.SearchTools,
		Pacing: render.Pacing{
			Text:        config.Millis(s.Render.TextDelayMS),
			Card:        config.Millis(s.Render.CardDelayMS),
			ListLoading: config.Millis(s.Render.ListLoadingMS),
			ListCard:    config.Millis(s.Render.ListCardMS),
		},
		Scheduler: render.Immediate{},
	}
	if interactive && s.Render.Paced {
		opts.Scheduler = render.Paced{}
	}
	return opts
}

func controllerOptions(s *config.Settings, interactive bool) controllers.Options {
	return controllers.Options{
		Render:              renderOptions(s, interactive),
		SelectionClearDelay: config.Millis(s.Selection.ClearDelayMS),
	}
}

// markdownStyle picks the glamour style: the flag when set, plain text
// when stdout has no colour support, fallback otherwise.
func markdownStyle(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	if lipgloss.ColorProfile() == termenv.Ascii {
		return "notty"
	}
	return fallback
}

func debugLog(s *config.Settings) string {
	if logger.ParseLevel(s.Logging.Level) != logger.LevelDebug {
		return ""
	}
	return config.BuildSettingsPath("tea.log")
}
