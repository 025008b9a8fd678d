// Package archon constructs archon.gg build urls and fetches the published
// talent code out of each build page.
package archon

import (
	"fmt"
	"strings"
	"time"

	"talentsync/internal/wow"
)

// GeneratedSuffix marks saved-variables entries written by this tool. Entries
// without the suffix belong to the user and are never touched.
const GeneratedSuffix = "_ARCT"

// Difficulty is a raid difficulty level.
type Difficulty string

const (
	Normal Difficulty = "normal"
	Heroic Difficulty = "heroic"
	Mythic Difficulty = "mythic"
)

// ParseDifficulty parses a raid difficulty, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(s)) {
	case Normal:
		return Normal, nil
	case Heroic:
		return Heroic, nil
	case Mythic:
		return Mythic, nil
	}
	return "", fmt.Errorf("unknown raid difficulty: %q", s)
}

// Timespan is the mythic+ reporting period on archon.gg.
type Timespan string

const (
	ThisWeek Timespan = "this-week"
	LastWeek Timespan = "last-week"
)

// PrimaryTimespan picks the reporting period to try first. On Wednesday (the
// weekly reset) the current period has barely any runs in it yet, so the
// prior period is preferred; every other day prefers the current period.
func PrimaryTimespan(now time.Time) Timespan {
	if now.Weekday() == time.Wednesday {
		return LastWeek
	}
	return ThisWeek
}

// Opposite returns the other reporting period.
func (t Timespan) Opposite() Timespan {
	if t == ThisWeek {
		return LastWeek
	}
	return ThisWeek
}

// BuildID identifies one raid or mythic+ build request. The zero Dungeon /
// Boss field distinguishes the two kinds.
type BuildID struct {
	// raid fields
	Difficulty Difficulty
	Boss       string

	// mythic+ field
	Dungeon string
}

func RaidBuild(difficulty Difficulty, boss string) BuildID {
	return BuildID{Difficulty: difficulty, Boss: boss}
}

func MythicPlusBuild(dungeon string) BuildID {
	return BuildID{Dungeon: dungeon}
}

func (b BuildID) IsMythicPlus() bool {
	return b.Dungeon != ""
}

// Identifier renders the stable key used to match previously written entries,
// e.g. "R-heroic-sikran" or "M+-ara-kara".
func (b BuildID) Identifier() string {
	if b.IsMythicPlus() {
		return fmt.Sprintf("M+-%s", b.Dungeon)
	}
	return fmt.Sprintf("R-%s-%s", b.Difficulty, b.Boss)
}

// EntryName is the saved-variables label: the identifier plus the generated
// marker suffix.
func (b BuildID) EntryName() string {
	return b.Identifier() + GeneratedSuffix
}

// URLBuilder renders archon.gg build page urls.
type URLBuilder struct {
	BaseURL string
}

func NewURLBuilder() URLBuilder {
	return URLBuilder{BaseURL: "https://www.archon.gg/wow/builds"}
}

// RaidURL has the shape {base}/{spec}/{class}/raid/overview/{difficulty}/{boss}.
func (u URLBuilder) RaidURL(class wow.Class, spec string, difficulty Difficulty, boss string) string {
	return fmt.Sprintf(
		"%s/%s/%s/raid/overview/%s/%s",
		u.BaseURL,
		strings.ToLower(spec),
		class.URLSlug(),
		difficulty,
		strings.ToLower(boss),
	)
}

// MythicPlusURL has the shape
// {base}/{spec}/{class}/mythic-plus/overview/10//{dungeon}/{timespan}.
// The difficulty segment a raid url would carry is empty here, which yields
// the double slash archon.gg expects.
func (u URLBuilder) MythicPlusURL(class wow.Class, spec string, dungeon string, timespan Timespan) string {
	return fmt.Sprintf(
		"%s/%s/%s/mythic-plus/overview/10//%s/%s",
		u.BaseURL,
		strings.ToLower(spec),
		class.URLSlug(),
		strings.ToLower(dungeon),
		timespan,
	)
}

// URL renders the page url for a build request.
func (u URLBuilder) URL(class wow.Class, spec string, b BuildID, timespan Timespan) string {
	if b.IsMythicPlus() {
		return u.MythicPlusURL(class, spec, b.Dungeon, timespan)
	}
	return u.RaidURL(class, spec, b.Difficulty, b.Boss)
}
