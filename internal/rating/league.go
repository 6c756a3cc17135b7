package rating

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	QueueSolo = "RANKED_SOLO_5x5"
	QueueFlex = "RANKED_FLEX_SR"
)

// LeagueEntry is the subset of a ranked queue standing needed to derive a rating.
type LeagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
}

var tierBase = map[string]int{
	"IRON":        0,
	"BRONZE":      400,
	"SILVER":      800,
	"GOLD":        1200,
	"PLATINUM":    1600,
	"EMERALD":     2000,
	"DIAMOND":     2400,
	"MASTER":      2800,
	"GRANDMASTER": 3200,
	"CHALLENGER":  3600,
}

var divisionBonus = map[string]int{
	"IV":  0,
	"III": 100,
	"II":  200,
	"I":   300,
}

// FromLeague approximates a continuous rating from tier, division and LP.
// Apex tiers have no divisions and only add LP. Unknown tiers start at Default.
func FromLeague(tier, division string, lp int) int {
	upper := cases.Upper(language.Und)
	tier = upper.String(strings.TrimSpace(tier))
	division = upper.String(strings.TrimSpace(division))

	base, ok := tierBase[tier]
	if !ok {
		base = Default
	}
	switch tier {
	case "MASTER", "GRANDMASTER", "CHALLENGER":
		return base + lp
	}
	return base + divisionBonus[division] + lp
}

// FromEntries prefers solo queue and falls back to flex.
func FromEntries(entries []LeagueEntry) (int, bool) {
	for _, queue := range []string{QueueSolo, QueueFlex} {
		for _, e := range entries {
			if e.QueueType == queue {
				return FromLeague(e.Tier, e.Rank, e.LeaguePoints), true
			}
		}
	}
	return 0, false
}
