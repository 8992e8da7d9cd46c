package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/auditscore/internal/config"
)

const configFileName = ".auditscorerc.json"

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .auditscorerc.json",
	Long: `The init command writes the effective configuration (defaults, environment
and flags merged) to .auditscorerc.json in the current directory, where
auditscore looks for it.`,
	Args: cobra.NoArgs,
	Run:  run(runInit),
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig("")
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	path := configFileName
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
