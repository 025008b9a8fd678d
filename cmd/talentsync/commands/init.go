package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"talentsync/internal/config"

	"github.com/spf13/cobra"
)

var initFile *string

func init() {
	initFile = initCmd.Flags().String("file", config.DefaultFile, "Where to write the example config.")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [--file <path/to/talentsync.json5>]",
	Short: "Writes an example config to start from.",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(*initFile); err == nil {
			fatal("refusing to overwrite", fmt.Errorf("%s already exists", *initFile))
		}

		out, err := json.MarshalIndent(config.Example(), "", "  ")
		if err != nil {
			fatal("failed to serialize example config", err)
		}
		if err := os.WriteFile(*initFile, append(out, '\n'), 0o644); err != nil {
			fatal("failed to write example config", err)
		}
		slog.Info("wrote example config", "file", *initFile)
	},
}
