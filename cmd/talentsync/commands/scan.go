package commands

import (
	"errors"
	"fmt"
	"os"

	"talentsync/internal/wowdir"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scanPath *string

func init() {
	scanPath = scanCmd.Flags().String("wow-path", "", "The _retail_ directory of the installation (autodetected when empty).")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan [--wow-path <path/to/_retail_>]",
	Short: "Lists the characters and accounts found in a WoW installation.",
	Run: func(cmd *cobra.Command, args []string) {
		root := *scanPath
		if root == "" {
			root = wowdir.DefaultInstallPath()
		}
		if root == "" {
			fatal("no installation found", errors.New("pass --wow-path explicitly"))
		}

		install := wowdir.Installation{Root: root}
		characters, err := install.ScanCharacters()
		if err != nil {
			fatal("failed to scan installation", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Character", "Realm", "Account"})
		accounts := map[string]bool{}
		for _, c := range characters {
			t.AppendRow(table.Row{c.Name, c.Realm, c.AccountID})
			accounts[c.AccountID] = true
		}
		t.Render()

		for account := range accounts {
			fmt.Printf("saved variables: %s\n", install.TalentLoadoutsPath(account))
		}
	},
}
