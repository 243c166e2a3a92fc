package stream

import (
	"context"
	"errors"
	"io"

	"github.com/vishnuprakaz/sales-assist/pkg/logger"
	"github.com/vishnuprakaz/sales-assist/pkg/sse"
)

// Consume reads frames from src and dispatches them to h until the stream
// completes or ends. It returns nil on a complete event or a clean end of
// stream. Transport errors and context cancellation are returned; frames
// with malformed payloads are dropped one at a time.
func Consume(ctx context.Context, src io.Reader, h Handler) error {
	reader := sse.NewReader(src)

	for {
		frame, err := reader.Next(ctx)
		if errors.Is(err, io.EOF) {
			logger.Debug("stream: end of stream")
			return nil
		}
		if err != nil {
			return err
		}

		ev, err := Decode(frame)
		if err != nil {
			logger.Warn("stream: dropping %s event: %v", frame.Event, err)
			continue
		}

		Dispatch(ev, h)

		if ev.Kind() == KindComplete {
			return nil
		}
	}
}
