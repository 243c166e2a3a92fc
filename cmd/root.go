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
	"github.com/vishnuprakaz/sales-assist/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "shopassist",
	Short: "Terminal client for the ShopAssist shopping agent",
	Long: `Chat with the ShopAssist agent from the terminal. Replies stream in
as they are generated; product recommendations render as numbered cards
that can be selected and sent back as context.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyFlagOverrides(cmd)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return RunApplication(ctx, &AppConfig{
			Settings:     config.Get(),
			DirectPrompt: viper.GetString("prompt"),
			NoTUI:        viper.GetBool("headless"),
			Attach:       viper.GetStringSlice("attach"),
			Style:        viper.GetString("style"),
			Width:        viper.GetInt("width"),
		})
	},
	SilenceUsage: true,
}

// applyFlagOverrides copies flags that cannot be bound directly.
func applyFlagOverrides(cmd *cobra.Command) {
	if noPace, _ := cmd.Flags().GetBool("no-pace"); noPace {
		viper.Set("render.paced", false)
		_ = config.Load()
	}
}

func Execute() {
	defer logger.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .shopassist/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("agent-url", "http://0.0.0.0:8000", "base URL of the agent server")
	viper.BindPFlag("agent.base_url", rootCmd.PersistentFlags().Lookup("agent-url"))

	rootCmd.PersistentFlags().Bool("show-thinking", false, "show the agent's reasoning blocks")
	viper.BindPFlag("render.show_thinking", rootCmd.PersistentFlags().Lookup("show-thinking"))

	rootCmd.PersistentFlags().Bool("no-pace", false, "reveal finished replies at once instead of step by step")

	rootCmd.PersistentFlags().String("style", "", "markdown style (dark, light, notty); picked from the terminal when empty")
	viper.BindPFlag("style", rootCmd.PersistentFlags().Lookup("style"))

	rootCmd.Flags().StringP("prompt", "p", "", "send a prompt directly without entering the TUI")
	viper.BindPFlag("prompt", rootCmd.Flags().Lookup("prompt"))

	rootCmd.Flags().BoolP("headless", "H", false, "run without TUI (requires --prompt or --attach)")
	viper.BindPFlag("headless", rootCmd.Flags().Lookup("headless"))

	rootCmd.Flags().StringSliceP("attach", "a", nil, "file or glob to attach to the first message (repeatable)")
	viper.BindPFlag("attach", rootCmd.Flags().Lookup("attach"))

	rootCmd.Flags().Int("width", 80, "wrap width of headless output")
	viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))
}

func initConfig() {
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	logger.Info("Using config file: %s", config.Get().ConfigFile)
}
