package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vishnuprakaz/sales-assist/pkg/config"
	"github.com/vishnuprakaz/sales-assist/pkg/headless"
)

var replayCmd = &cobra.Command{
	Use:   "replay FILE.sse",
	Short: "Render a recorded agent stream",
	Long: `Render a recorded SSE stream the way a live reply would be rendered.
Useful for checking how a captured agent response looks without a server.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyFlagOverrides(cmd)
		s := config.Get()

		_, err := headless.ReplayFile(cmd.Context(), args[0], renderOptions(s, false), headless.Options{
			Out:           cmd.OutOrStdout(),
			Progress:      os.Stderr,
			Width:         viper.GetInt("width"),
			MarkdownStyle: markdownStyle(viper.GetString("style"), "notty"),
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
