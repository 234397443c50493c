// Package cmd wires the vfxlint CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/vfxlint/internal/config"
	"github.com/dotcommander/vfxlint/internal/outputters"
	"github.com/dotcommander/vfxlint/internal/types"
)

// Exit codes.
const (
	exitOK       = 0
	exitErrors   = 1
	exitWarnings = 2
	exitFailure  = 3
)

var (
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
	failOn       string
)

var rootCmd = &cobra.Command{
	Use:   "vfxlint",
	Short: "vfxlint validates VFX image sequences and project structures",
	Long: `vfxlint is a validation tool for VFX production assets. It checks
rendered image sequences for missing frames, corrupted files and
resolution or bit-depth drift, and validates project directory layouts
against declarative rules.

Patterns use printf (%04d), hash (####) or range ([1001-1100]) frame
notation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Exit codes: 0 passed, 1 errors found,
// 2 warnings only, 3 execution failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "console", "Output format for reports (console|json|yaml|markdown)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Output file for reports")
	rootCmd.PersistentFlags().StringVar(&failOn, "fail-on", "error", "Severity that fails the run (error|warning)")

	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("fail_on", rootCmd.PersistentFlags().Lookup("fail-on"))
}

// initLogging configures slog on stderr. Verbose enables debug records,
// quiet drops everything below error.
func initLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// report renders the result and returns the exit code. Errors exit 1,
// a warnings-only result exits 2, escalated to 1 when fail-on is set to
// warning.
func report(cfg *config.Config, result *types.ValidationResult) int {
	if err := outputters.NewOutputter(cfg).Format(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}

	switch {
	case result.HasErrors():
		return exitErrors
	case result.HasWarnings() && cfg.FailOn == "warning":
		return exitErrors
	case result.HasWarnings():
		return exitWarnings
	}
	return exitOK
}

// loadConfig loads the effective configuration.
func loadConfig() (*config.Config, int) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, exitFailure
	}
	return cfg, exitOK
}
