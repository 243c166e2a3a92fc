package sse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vishnuprakaz/sales-assist/pkg/logger"
)

const readChunkSize = 4096

var frameSeparator = []byte("\n\n")

// Reader turns an arbitrarily chunked byte stream into complete frames.
// It keeps one running buffer; bytes after the last separator stay buffered
// until the next read completes them.
type Reader struct {
	src   io.Reader
	buf   []byte
	chunk []byte
	err   error
}

// NewReader wraps src.
func NewReader(src io.Reader) *Reader {
	return &Reader{
		src:   src,
		chunk: make([]byte, readChunkSize),
	}
}

// Next returns the next complete frame. It returns io.EOF once the source
// is exhausted; an incomplete trailing fragment is discarded at that point.
// Any other read error is returned as is, wrapped.
func (r *Reader) Next(ctx context.Context) (Frame, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Frame{}, err
		}

		if idx := bytes.Index(r.buf, frameSeparator); idx >= 0 {
			raw := string(r.buf[:idx])
			r.buf = r.buf[idx+len(frameSeparator):]
			if len(bytes.TrimSpace([]byte(raw))) == 0 {
				continue
			}
			return ParseFrame(raw), nil
		}

		if r.err != nil {
			if errors.Is(r.err, io.EOF) {
				if len(bytes.TrimSpace(r.buf)) > 0 {
					logger.Debug("sse: discarding %d byte unterminated fragment at end of stream", len(r.buf))
				}
				r.buf = nil
				return Frame{}, io.EOF
			}
			return Frame{}, fmt.Errorf("read event stream: %w", r.err)
		}

		n, err := r.src.Read(r.chunk)
		if n > 0 {
			r.buf = append(r.buf, r.chunk[:n]...)
			// Normalise CRLF framing so "\r\n\r\n" separates frames too.
			if bytes.Contains(r.buf, []byte("\r\n")) {
				r.buf = bytes.ReplaceAll(r.buf, []byte("\r\n"), []byte("\n"))
			}
		}
		if err != nil {
			r.err = err
		}
	}
}
