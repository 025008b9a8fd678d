package commands

import (
	"log/slog"
	"os"
	"time"

	"talentsync/internal/archon"
	"talentsync/internal/chrono"
	"talentsync/internal/config"
	"talentsync/internal/syncer"
	"talentsync/internal/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var syncConfig *string
var syncOutput *string
var syncClear *bool
var syncConcurrent *int

func init() {
	syncConfig = syncCmd.Flags().String("config", config.DefaultFile, "The config file to run from.")
	syncOutput = syncCmd.Flags().String("output", "", "Override the configured TalentLoadoutsEx.lua path.")
	syncClear = syncCmd.Flags().Bool("clear", false, "Remove all generated builds before writing, even outside the configured roster.")
	syncConcurrent = syncCmd.Flags().Int("concurrent", 0, "Maximum fetches in flight (0 uses the default).")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [--config <path/to/talentsync.json5>]",
	Short: "Fetches the configured builds and merges them into the saved-variables file.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Read(*syncConfig)
		if err != nil {
			fatal("failed to read config", err)
		}
		if *syncOutput != "" {
			cfg.OutputPath = *syncOutput
		}
		if *syncClear {
			cfg.ClearPreviousBuilds = true
		}

		client := archon.NewClient(archon.Options{
			MaxConcurrent: *syncConcurrent,
		}, telemetry.SlogAPI{})
		s := syncer.New(client, chrono.StandardTime{}, telemetry.SlogAPI{})

		t1 := time.Now()
		summary, err := s.Run(cmd.Context(), cfg)
		if err != nil {
			fatal("synchronization failed", err)
		}
		slog.Info("synchronized", "seconds", time.Since(t1).Seconds())

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Talents Updated", "Raid", "Mythic+", "Characters"})
		t.AppendRow(table.Row{
			summary.TotalTalentsUpdated,
			summary.RaidTalents,
			summary.MythicPlusTalents,
			summary.CharactersProcessed,
		})
		t.Render()
	},
}
