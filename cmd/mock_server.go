package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vishnuprakaz/sales-assist/pkg/config"
	"github.com/vishnuprakaz/sales-assist/pkg/mockserver"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Serve a scripted agent for local development",
	Long: `Start an HTTP server that speaks the agent protocol: it creates
sessions and answers every run with a scripted SSE stream. Point the client
at it with --agent-url.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := config.Get()

		opts := mockserver.Options{
			Script: mockserver.DefaultScript(),
			Delay:  config.Millis(s.Mock.DelayMS),
		}
		if s.Mock.Script != "" {
			script, err := mockserver.LoadScript(s.Mock.Script)
			if err != nil {
				return fmt.Errorf("load script: %w", err)
			}
			opts.Script = script
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Mock agent listening on http://%s (%d frames per run)\n", s.Mock.Addr, len(opts.Script.Frames))
		return mockserver.New(opts).ListenAndServe(ctx, s.Mock.Addr)
	},
}

func init() {
	mockServerCmd.Flags().String("addr", "127.0.0.1:8000", "listen address")
	viper.BindPFlag("mock.addr", mockServerCmd.Flags().Lookup("addr"))

	mockServerCmd.Flags().String("script", "", "recorded .sse file to replay instead of the built-in script")
	viper.BindPFlag("mock.script", mockServerCmd.Flags().Lookup("script"))

	mockServerCmd.Flags().Int("delay-ms", 120, "pause between frames")
	viper.BindPFlag("mock.delay_ms", mockServerCmd.Flags().Lookup("delay-ms"))
	rootCmd.AddCommand(mockServerCmd)
}
