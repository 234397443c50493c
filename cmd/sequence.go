package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/vfxlint/internal/formats"
	"github.com/dotcommander/vfxlint/internal/sequence"
)

var sequenceCmd = &cobra.Command{
	Use:   "sequence PATTERN",
	Short: "Validate an image sequence for gaps, corruption and consistency",
	Long: `Validate the image sequence matching PATTERN. The pattern names the
frame position with printf (%04d), hash (####) or range ([1001-1100])
notation, for example:

  vfxlint sequence /renders/shot_020/comp.%04d.exr
  vfxlint sequence "/renders/shot_020/comp.####.exr"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runSequence(args[0]))
	},
}

func init() {
	sequenceCmd.Flags().Bool("check-resolution", true, "Check that all frames share one resolution")
	sequenceCmd.Flags().Bool("check-bit-depth", true, "Check that all frames share one bit depth")
	viper.BindPFlag("sequences.check_resolution", sequenceCmd.Flags().Lookup("check-resolution"))
	viper.BindPFlag("sequences.check_bit_depth", sequenceCmd.Flags().Lookup("check-bit-depth"))

	rootCmd.AddCommand(sequenceCmd)
}

func runSequence(pattern string) int {
	cfg, code := loadConfig()
	if code != exitOK {
		return code
	}

	validator := sequence.NewValidator(cfg, formats.DefaultRegistry())
	result, err := validator.Validate(context.Background(), pattern)
	if err != nil {
		// Unrecognized patterns and reversed ranges land here too.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}

	return report(cfg, result)
}
