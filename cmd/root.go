package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/hamyarhq/hamyar_backend/cmd/http"
	systemcmd "github.com/hamyarhq/hamyar_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "hamyar",
	Short: "Hamyar helpdesk and settings management backend.",
	Long: `Hamyar is a Persian-first helpdesk backend. It manages user accounts,
per-user preferences, admin-controlled system settings, support tickets and
notifications behind a single HTTP API.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
