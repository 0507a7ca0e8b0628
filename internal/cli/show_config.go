// internal/cli/show_config.go
package synod

import (
	"os"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/synod/internal/appconfig"
)

// showConfigCmd implements 'show config', which prints the merged
// configuration after flags have been applied on top of the file.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		if cfg == nil {
			cfg = &appconfig.Config{}
		}
		appconfig.ShowConfig(os.Stdout, *cfg)
		if cfg.Debug {
			dump := *cfg
			if dump.OpenRouterKey != "" {
				dump.OpenRouterKey = "(redacted)"
			}
			pp.Println(dump)
		}
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
