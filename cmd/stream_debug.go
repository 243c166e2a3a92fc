package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vishnuprakaz/sales-assist/pkg/sse"
	"github.com/vishnuprakaz/sales-assist/pkg/stream"
	"github.com/vishnuprakaz/sales-assist/pkg/tui/theme"
)

var streamDebugCmd = &cobra.Command{
	Use:    "stream-debug FILE.sse",
	Short:  "Print the frames and decoded events of a recorded stream",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		formatter, _ := cmd.Flags().GetString("format")
		return dumpFrames(cmd.Context(), f, cmd.OutOrStdout(), formatter)
	},
}

func dumpFrames(ctx context.Context, src io.Reader, out io.Writer, formatter string) error {
	reader := sse.NewReader(src)
	for i := 1; ; i++ {
		frame, err := reader.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		ev, decodeErr := stream.Decode(frame)
		kind := stream.Classify(frame.Event)
		fmt.Fprintf(out, "#%d %s (%s)\n", i, frame.Event, kind)
		if decodeErr != nil {
			fmt.Fprintf(out, "  decode error: %v\n", decodeErr)
		} else {
			fmt.Fprintf(out, "  %#v\n", ev)
		}
		fmt.Fprintln(out, theme.Highlight(prettyJSON(frame.Data), "json", formatter))
	}
}

func prettyJSON(data string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(data), "", "  "); err != nil {
		return data
	}
	return buf.String()
}

func init() {
	streamDebugCmd.Flags().String("format", "terminal256", "chroma formatter (terminal256, terminal16m, noop)")
	rootCmd.AddCommand(streamDebugCmd)
}
