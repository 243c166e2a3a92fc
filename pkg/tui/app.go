package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vishnuprakaz/sales-assist/pkg/logger"
	"github.com/vishnuprakaz/sales-assist/pkg/tui/chat"
)

// Options configures the interactive app.
type Options struct {
	Chat chat.Config
	// DebugLog, when set, receives bubbletea's own debug output.
	DebugLog string
}

// StartApp runs the chat UI until the user quits or ctx is cancelled.
func StartApp(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	view := chat.NewChatModel(ctx, opts.Chat)
	defer view.Close()

	if opts.DebugLog != "" {
		f, err := tea.LogToFile(opts.DebugLog, "tea")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	}

	// The alternate screen owns the terminal; errors go to the log file only
	logger.SetEcho(false)
	defer logger.SetEcho(true)

	p := tea.NewProgram(NewRootModel(view), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
