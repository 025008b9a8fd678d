package archon

import (
	"testing"
	"time"

	"talentsync/internal/wow"

	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("normal")
	require.NoError(t, err)
	require.Equal(t, Normal, d)

	d, err = ParseDifficulty("HEROIC")
	require.NoError(t, err)
	require.Equal(t, Heroic, d)

	_, err = ParseDifficulty("invalid")
	require.Error(t, err)
}

func TestTimespanOpposite(t *testing.T) {
	require.Equal(t, LastWeek, ThisWeek.Opposite())
	require.Equal(t, ThisWeek, LastWeek.Opposite())
}

func TestPrimaryTimespan(t *testing.T) {
	// 2024-07-03 was a Wednesday, the weekly reset
	wednesday := time.Date(2024, 7, 3, 12, 0, 0, 0, time.UTC)
	require.Equal(t, LastWeek, PrimaryTimespan(wednesday))

	thursday := wednesday.AddDate(0, 0, 1)
	require.Equal(t, ThisWeek, PrimaryTimespan(thursday))

	tuesday := wednesday.AddDate(0, 0, -1)
	require.Equal(t, ThisWeek, PrimaryTimespan(tuesday))
}

func TestBuildIdentifiers(t *testing.T) {
	raid := RaidBuild(Heroic, "sikran")
	require.Equal(t, "R-heroic-sikran", raid.Identifier())
	require.Equal(t, "R-heroic-sikran_ARCT", raid.EntryName())
	require.False(t, raid.IsMythicPlus())

	dungeon := MythicPlusBuild("ara-kara")
	require.Equal(t, "M+-ara-kara", dungeon.Identifier())
	require.Equal(t, "M+-ara-kara_ARCT", dungeon.EntryName())
	require.True(t, dungeon.IsMythicPlus())
}

func TestRaidURL(t *testing.T) {
	urls := NewURLBuilder()

	require.Equal(t,
		"https://www.archon.gg/wow/builds/frost/mage/raid/overview/heroic/broodtwister",
		urls.RaidURL(wow.Mage, "frost", Heroic, "broodtwister"),
	)
	require.Equal(t,
		"https://www.archon.gg/wow/builds/unholy/death-knight/raid/overview/heroic/sikran",
		urls.RaidURL(wow.DeathKnight, "unholy", Heroic, "sikran"),
	)
}

func TestMythicPlusURL(t *testing.T) {
	urls := NewURLBuilder()

	require.Equal(t,
		"https://www.archon.gg/wow/builds/protection/warrior/mythic-plus/overview/10//ara-kara/this-week",
		urls.MythicPlusURL(wow.Warrior, "protection", "ara-kara", ThisWeek),
	)
	require.Equal(t,
		"https://www.archon.gg/wow/builds/unholy/death-knight/mythic-plus/overview/10//mists-of-tirna-scithe/last-week",
		urls.MythicPlusURL(wow.DeathKnight, "unholy", "mists-of-tirna-scithe", LastWeek),
	)

	// the empty difficulty segment must survive as a double slash
	require.Contains(t,
		urls.MythicPlusURL(wow.Mage, "fire", "city-of-threads", ThisWeek),
		"overview/10//city-of-threads",
	)
}

func TestURLDeterministic(t *testing.T) {
	urls := NewURLBuilder()
	a := urls.URL(wow.Druid, "balance", RaidBuild(Mythic, "queen-ansurek"), ThisWeek)
	b := urls.URL(wow.Druid, "balance", RaidBuild(Mythic, "queen-ansurek"), LastWeek)
	// raids ignore the timespan entirely
	require.Equal(t, a, b)
}
