package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bg3-mod-manager",
	Short: "Manage Baldur's Gate 3 mod load orders",
	Long: `Imports installed mods, keeps named load orders per profile,
reports missing or conflicting dependencies and exports the
resolved order to modsettings.lsx.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing the .env file")
}
