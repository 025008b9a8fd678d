package commands

import (
	"os"

	"talentsync/internal/discover"
	"talentsync/internal/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(discoverCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Prints the current raid bosses and mythic+ dungeons, ready to paste into a config.",
	Run: func(cmd *cobra.Command, args []string) {
		client := discover.NewClient(discover.DefaultBaseURL, telemetry.SlogAPI{})
		content, err := client.CurrentContent(cmd.Context())
		if err != nil {
			fatal("failed to discover current content", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Raid Boss", "Dungeon"})

		rows := len(content.RaidBosses)
		if len(content.Dungeons) > rows {
			rows = len(content.Dungeons)
		}
		for i := 0; i < rows; i++ {
			row := table.Row{"", ""}
			if i < len(content.RaidBosses) {
				row[0] = content.RaidBosses[i]
			}
			if i < len(content.Dungeons) {
				row[1] = content.Dungeons[i]
			}
			t.AppendRow(row)
		}
		t.Render()
	},
}
