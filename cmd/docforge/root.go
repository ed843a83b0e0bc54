package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"docforge/internal/logging"
	"docforge/pkg/registry"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose      bool
	logFormat    string
	registryPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docforge",
	Short: "Render project documents from one YAML description",
	Long: `Docforge turns a single structured project description into a set of
rendered text documents: technical specs, plans, briefs. One dataset in,
many documents out.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logging.Init(level, logFormat, os.Stderr)
	},
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "Project registry state file (default ~/.docforge/projects.json)")
	rootCmd.Version = version
}

// openRegistry opens the project registry honoring the --registry override.
func openRegistry() (*registry.Store, error) {
	if registryPath != "" {
		return registry.Open(registry.WithPath(registryPath))
	}
	return registry.Open()
}
