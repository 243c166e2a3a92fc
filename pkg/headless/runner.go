package headless

import (
	"context"
	"fmt"
	"io"

	"github.com/vishnuprakaz/sales-assist/pkg/content"
	"github.com/vishnuprakaz/sales-assist/pkg/controllers"
	"github.com/vishnuprakaz/sales-assist/pkg/logger"
	"github.com/vishnuprakaz/sales-assist/pkg/render"
	"github.com/vishnuprakaz/sales-assist/pkg/stream"
)

// runner sends one prompt and prints the reply
type runner struct {
	controller *controllers.ChatController
	console    *Console
}

func newRunner(controller *controllers.ChatController, console *Console) *runner {
	return &runner{controller: controller, console: console}
}

func (r *runner) run(ctx context.Context, prompt string) error {
	if err := r.controller.Start(ctx); err != nil {
		r.console.Notice(controllers.ConnectFailedText)
		return err
	}

	logger.Debug("Headless prompt: %s", prompt)

	msg, err := r.controller.Submit(ctx, prompt, r.console)
	if msg.IsError() {
		r.console.Notice(msg.Content)
	}
	return err
}

// Replay runs a recorded event stream through the same pipeline as a live
// reply and renders it on surface.
func Replay(ctx context.Context, src io.Reader, surface render.Surface, opts render.Options) (content.Result, error) {
	turn := render.NewTurn(surface, opts)

	if err := stream.Consume(ctx, src, turn); err != nil {
		res := turn.Finalize(ctx)
		return res, fmt.Errorf("replay: %w", err)
	}

	res := turn.Finalize(ctx)
	for _, msg := range turn.Errors() {
		logger.Warn("Recorded stream carried an error: %s", msg)
	}
	return res, nil
}
