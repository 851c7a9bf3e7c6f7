// Command peminatan serves the RIASEC peminatan web application and offers offline
// maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "peminatan",
	Short:         "RIASEC test results and study-track recommendations for schools",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "peminatan.yaml", "path to the YAML config file (optional)")
	rootCmd.AddCommand(serveCmd, importCmd, seedAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
