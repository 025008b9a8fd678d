// Package wow holds the fixed class/specialization tables shared by the url
// builder and the saved-variables merge logic.
package wow

import (
	"fmt"
	"strings"
)

// Class is one of the 13 playable classes.
type Class int

const (
	Warrior Class = iota
	Paladin
	Hunter
	Rogue
	Priest
	DeathKnight
	Shaman
	Mage
	Warlock
	Monk
	Druid
	DemonHunter
	Evoker
)

// classInfo is keyed by Class. Specs are ordered: the 1-based position of a
// specialization in the list is its storage slot inside the saved-variables
// file, so the order is load-bearing and must not change.
var classInfo = map[Class]struct {
	name    string
	urlSlug string
	luaKey  string
	specs   []string
}{
	Warrior:     {"Warrior", "warrior", "WARRIOR", []string{"arms", "fury", "protection"}},
	Paladin:     {"Paladin", "paladin", "PALADIN", []string{"holy", "protection", "retribution"}},
	Hunter:      {"Hunter", "hunter", "HUNTER", []string{"beast-mastery", "marksmanship", "survival"}},
	Rogue:       {"Rogue", "rogue", "ROGUE", []string{"assassination", "combat", "subtlety"}},
	Priest:      {"Priest", "priest", "PRIEST", []string{"discipline", "holy", "shadow"}},
	DeathKnight: {"DeathKnight", "death-knight", "DEATHKNIGHT", []string{"blood", "frost", "unholy"}},
	Shaman:      {"Shaman", "shaman", "SHAMAN", []string{"elemental", "enhancement", "restoration"}},
	Mage:        {"Mage", "mage", "MAGE", []string{"arcane", "fire", "frost"}},
	Warlock:     {"Warlock", "warlock", "WARLOCK", []string{"affliction", "demonology", "destruction"}},
	Monk:        {"Monk", "monk", "MONK", []string{"brewmaster", "mistweaver", "windwalker"}},
	Druid:       {"Druid", "druid", "DRUID", []string{"balance", "feral", "guardian", "restoration"}},
	DemonHunter: {"DemonHunter", "demon-hunter", "DEMONHUNTER", []string{"havoc", "vengeance"}},
	Evoker:      {"Evoker", "evoker", "EVOKER", []string{"devastation", "preservation", "augmentation"}},
}

// Classes returns every class in declaration order.
func Classes() []Class {
	out := make([]Class, 0, len(classInfo))
	for c := Warrior; c <= Evoker; c++ {
		out = append(out, c)
	}
	return out
}

// ParseClass parses a PascalCase class name (e.g. "DeathKnight").
func ParseClass(s string) (Class, error) {
	for c, info := range classInfo {
		if info.name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown class: %q", s)
}

// ClassNames returns the PascalCase names of every class.
func ClassNames() []string {
	out := make([]string, 0, len(classInfo))
	for c := Warrior; c <= Evoker; c++ {
		out = append(out, classInfo[c].name)
	}
	return out
}

func (c Class) String() string {
	return classInfo[c].name
}

// URLSlug returns the class segment used in archon.gg urls. Most classes are
// a plain lowercase transform, the two multi-word classes carry a hyphen.
func (c Class) URLSlug() string {
	return classInfo[c].urlSlug
}

// SavedVarsKey returns the uppercase key used for this class inside the
// saved-variables file (e.g. "DEATHKNIGHT").
func (c Class) SavedVarsKey() string {
	return classInfo[c].luaKey
}

// Specs returns the ordered specialization list for this class. Slot numbers
// are positions in this list plus one.
func (c Class) Specs() []string {
	return classInfo[c].specs
}

// SpecIndex resolves a specialization name to its 1-based storage slot.
func (c Class) SpecIndex(spec string) (int, error) {
	for i, s := range classInfo[c].specs {
		if s == spec {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("unknown spec %q for class %s", spec, c)
}

var slugStrip = strings.NewReplacer(
	"'", "", ",", "", ":", "", "\"", "",
	"(", "", ")", "", ".", "", "!", "", "&", "",
)

// Slugify converts an encounter title to the lowercase hyphenated form used
// in archon.gg urls (e.g. "Mists of Tirna Scithe" -> "mists-of-tirna-scithe").
func Slugify(name string) string {
	s := slugStrip.Replace(name)
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "--", "-")
	return s
}
