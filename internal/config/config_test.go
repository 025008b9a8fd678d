package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExampleIsValid(t *testing.T) {
	require.NoError(t, Example().Validate())
}

func TestValidateEmptyRoster(t *testing.T) {
	cfg := Example()
	cfg.Characters = nil
	require.Error(t, cfg.Validate())
}

func TestValidateNoContent(t *testing.T) {
	cfg := Example()
	cfg.RaidBosses = nil
	cfg.Dungeons = nil
	require.Error(t, cfg.Validate())
}

func TestValidateBossesWithoutDifficulties(t *testing.T) {
	cfg := Example()
	cfg.RaidDifficulties = nil
	require.Error(t, cfg.Validate())
}

func TestValidateDungeonsOnly(t *testing.T) {
	cfg := Example()
	cfg.RaidBosses = nil
	cfg.RaidDifficulties = nil
	require.NoError(t, cfg.Validate())
}

func TestValidateUnknownClass(t *testing.T) {
	cfg := Example()
	cfg.Characters[0].Class = "Warior"
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), `did you mean "Warrior"`)
}

func TestValidateUnknownSpec(t *testing.T) {
	cfg := Example()
	cfg.Characters[1].Specializations = []string{"frosty"}
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), `did you mean "frost"`)
}

func TestValidateUnknownDifficulty(t *testing.T) {
	cfg := Example()
	cfg.RaidDifficulties = []string{"legendary"}
	require.Error(t, cfg.Validate())
}

func TestValidateMissingOutputPath(t *testing.T) {
	cfg := Example()
	cfg.OutputPath = ""
	require.Error(t, cfg.Validate())
}

func TestValidateNoSpecs(t *testing.T) {
	cfg := Example()
	cfg.Characters[0].Specializations = nil
	require.Error(t, cfg.Validate())
}
