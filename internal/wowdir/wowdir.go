// Package wowdir locates a World of Warcraft retail installation and the
// account data inside it.
package wowdir

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Character is one character directory found under WTF/Account. The class is
// not recorded in the directory layout, callers fill it in from their own
// roster configuration.
type Character struct {
	Name      string `json:"name"`
	Realm     string `json:"realm"`
	AccountID string `json:"accountId"`
}

// Installation points at the _retail_ directory of an installation.
type Installation struct {
	Root string
}

// DefaultInstallPath returns the first conventional install location that
// exists on this machine, or "" when none does.
func DefaultInstallPath() string {
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{"/Applications/World of Warcraft/_retail_"}
	case "windows":
		candidates = []string{
			`C:\Program Files (x86)\World of Warcraft\_retail_`,
			`C:\Program Files\World of Warcraft\_retail_`,
		}
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		candidates = []string{filepath.Join(
			home, ".wine/drive_c/Program Files (x86)/World of Warcraft/_retail_",
		)}
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	return ""
}

// TalentLoadoutsPath returns where the addon keeps its saved variables for
// the given account.
func (i Installation) TalentLoadoutsPath(accountID string) string {
	return filepath.Join(
		i.Root, "WTF", "Account", accountID,
		"SavedVariables", "TalentLoadoutsEx.lua",
	)
}

// ScanCharacters walks WTF/Account/<account>/<realm>/<character> and returns
// every character directory it finds. SavedVariables directories live at both
// the account and realm level and are not characters.
func (i Installation) ScanCharacters() ([]Character, error) {
	accountsDir := filepath.Join(i.Root, "WTF", "Account")
	accounts, err := os.ReadDir(accountsDir)
	if err != nil {
		return nil, fmt.Errorf("read accounts in %q: %w", accountsDir, err)
	}

	var characters []Character
	for _, account := range accounts {
		if !account.IsDir() || account.Name() == "SavedVariables" {
			continue
		}

		realmsDir := filepath.Join(accountsDir, account.Name())
		realms, err := os.ReadDir(realmsDir)
		if err != nil {
			continue
		}
		for _, realm := range realms {
			if !realm.IsDir() || realm.Name() == "SavedVariables" {
				continue
			}

			charsDir := filepath.Join(realmsDir, realm.Name())
			chars, err := os.ReadDir(charsDir)
			if err != nil {
				continue
			}
			for _, char := range chars {
				if !char.IsDir() {
					continue
				}
				characters = append(characters, Character{
					Name:      char.Name(),
					Realm:     realm.Name(),
					AccountID: account.Name(),
				})
			}
		}
	}

	return characters, nil
}
