package headless

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vishnuprakaz/sales-assist/pkg/content"
	"github.com/vishnuprakaz/sales-assist/pkg/controllers"
	"github.com/vishnuprakaz/sales-assist/pkg/render"
	"github.com/vishnuprakaz/sales-assist/pkg/tui/theme"
)

// Options controls headless output.
type Options struct {
	Out      io.Writer
	Progress io.Writer
	Width    int
	// MarkdownStyle is a glamour style name; "notty" gives plain text.
	MarkdownStyle string
}

func (o Options) console() *Console {
	out := o.Out
	if out == nil {
		out = os.Stdout
	}
	width := o.Width
	if width <= 0 {
		width = 80
	}
	return NewConsole(out, o.Progress, theme.NewRenderer(width, o.MarkdownStyle))
}

// RunHeadless sends a single prompt and prints the finalized reply.
// This is the main entry point for headless/CLI execution
func RunHeadless(ctx context.Context, controller *controllers.ChatController, prompt string, opts Options) error {
	if strings.TrimSpace(prompt) == "" && controller.Attachments().Len() == 0 {
		return fmt.Errorf("prompt cannot be empty in headless mode")
	}

	if err := newRunner(controller, opts.console()).run(ctx, prompt); err != nil {
		return fmt.Errorf("failed to execute prompt: %w", err)
	}
	return nil
}

// ReplayFile renders a recorded .sse file.
func ReplayFile(ctx context.Context, path string, renderOpts render.Options, opts Options) (content.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return content.Result{}, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	return Replay(ctx, f, opts.console(), renderOpts)
}
