package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/vfxlint/internal/shotlint"
)

var rulesFile string

var structureCmd = &cobra.Command{
	Use:   "structure ROOT",
	Short: "Validate a project directory layout against a rules file",
	Long: `Validate the directory tree at ROOT against the YAML rules document
given with --rules. Rules express expected shot layouts, naming
conventions, frame ranges and required files, for example:

  vfxlint structure /projects/show_a --rules shotlint.yaml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runStructure(args[0]))
	},
}

func init() {
	structureCmd.Flags().StringVar(&rulesFile, "rules", "", "Path to the YAML rules file (required)")
	structureCmd.MarkFlagRequired("rules")

	rootCmd.AddCommand(structureCmd)
}

func runStructure(root string) int {
	cfg, code := loadConfig()
	if code != exitOK {
		return code
	}

	validator, err := shotlint.NewStructureValidator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}

	result, err := validator.Validate(root, rulesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}

	return report(cfg, result)
}
