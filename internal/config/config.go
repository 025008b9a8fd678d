// Package config defines the synchronization run configuration and its
// validation. Validation happens before any network activity: a malformed
// roster is a configuration error, not a fetch failure.
package config

import (
	"fmt"
	"strings"

	"talentsync/internal/archon"
	"talentsync/internal/wow"
	"talentsync/lib/configutil"

	"github.com/antzucaro/matchr"
)

// DefaultFile is the config file name looked up next to the working directory.
const DefaultFile = "talentsync.json5"

// Character is one roster entry. The name is a label only, matching happens
// on class and specializations.
type Character struct {
	Name            string   `json:"name"`
	Class           string   `json:"class"`
	Specializations []string `json:"specializations"`
}

// Config is the full input of one synchronization run.
type Config struct {
	Characters          []Character `json:"characters"`
	RaidDifficulties    []string    `json:"raidDifficulties"`
	RaidBosses          []string    `json:"raidBosses"`
	Dungeons            []string    `json:"dungeons"`
	ClearPreviousBuilds bool        `json:"clearPreviousBuilds"`
	OutputPath          string      `json:"outputPath"`
}

// Read loads and validates a config file (json5, with .local overrides).
func Read(name string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](name)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.Characters) == 0 {
		return fmt.Errorf("config: at least one character is required")
	}
	if len(c.RaidBosses) == 0 && len(c.Dungeons) == 0 {
		return fmt.Errorf("config: at least one raid boss or dungeon is required")
	}
	if len(c.RaidBosses) > 0 && len(c.RaidDifficulties) == 0 {
		return fmt.Errorf("config: raid bosses are configured but no raid difficulties")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("config: outputPath is required")
	}

	for _, d := range c.RaidDifficulties {
		if _, err := archon.ParseDifficulty(d); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	for _, char := range c.Characters {
		if char.Class == "" {
			return fmt.Errorf("config: character %q has no class", char.Name)
		}
		class, err := wow.ParseClass(char.Class)
		if err != nil {
			return fmt.Errorf("config: character %q: %w%s",
				char.Name, err, didYouMean(char.Class, wow.ClassNames()))
		}
		if len(char.Specializations) == 0 {
			return fmt.Errorf("config: character %q has no specializations", char.Name)
		}
		for _, spec := range char.Specializations {
			if _, err := class.SpecIndex(spec); err != nil {
				return fmt.Errorf("config: character %q: %w%s",
					char.Name, err, didYouMean(spec, class.Specs()))
			}
		}
	}

	return nil
}

// didYouMean renders a suggestion suffix when a candidate is close enough to
// the misspelled input.
func didYouMean(input string, candidates []string) string {
	best := ""
	bestScore := 0.0
	for _, cand := range candidates {
		score := matchr.JaroWinkler(strings.ToLower(input), strings.ToLower(cand), false)
		if score > bestScore {
			best = cand
			bestScore = score
		}
	}
	if bestScore < 0.8 {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}

// Example returns a starting-point config for the init command.
func Example() Config {
	return Config{
		Characters: []Character{
			{
				Name:            "MyWarrior",
				Class:           "Warrior",
				Specializations: []string{"arms", "fury"},
			},
			{
				Name:            "MyMage",
				Class:           "Mage",
				Specializations: []string{"frost", "fire"},
			},
		},
		RaidDifficulties: []string{"heroic", "normal"},
		RaidBosses:       []string{"broodtwister", "sikran", "queen-ansurek"},
		Dungeons:         []string{"ara-kara", "city-of-threads", "mists-of-tirna-scithe"},
		OutputPath:       "WTF/Account/YOUR_ACCOUNT_ID/SavedVariables/TalentLoadoutsEx.lua",
	}
}
