// Package league classifies salespeople into leagues and hard-skill ranks.
package league

import "math"

// League is one tier of the companies-count ladder.
type League struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Min            int     `json:"min"`
	Max            float64 `json:"max"`
	ColorHex       string  `json:"color_hex"`
	BadgeImagePath string  `json:"badge_image_path"`
}

// Leagues in ascending order. Ranges partition [0, +inf); Legend is open-ended.
var Leagues = []League{
	{ID: "bronze", Name: "Bronze", Min: 0, Max: 99, ColorHex: "#CD7F32", BadgeImagePath: "/badges/bronze.png"},
	{ID: "silver", Name: "Silver", Min: 100, Max: 299, ColorHex: "#C0C0C0", BadgeImagePath: "/badges/silver.png"},
	{ID: "gold", Name: "Gold", Min: 300, Max: 899, ColorHex: "#FFD700", BadgeImagePath: "/badges/gold.png"},
	{ID: "platinum", Name: "Platinum", Min: 900, Max: 1199, ColorHex: "#E5E4E2", BadgeImagePath: "/badges/platinum.png"},
	{ID: "diamond", Name: "Diamond", Min: 1200, Max: 1499, ColorHex: "#B9F2FF", BadgeImagePath: "/badges/diamond.png"},
	{ID: "master", Name: "Master", Min: 1500, Max: 1749, ColorHex: "#9B59B6", BadgeImagePath: "/badges/master.png"},
	{ID: "legend", Name: "Legend", Min: 1750, Max: math.Inf(1), ColorHex: "#FF6B35", BadgeImagePath: "/badges/legend.png"},
}

func leagueIndex(companiesCount int) int {
	for i, l := range Leagues {
		if float64(companiesCount) >= float64(l.Min) && float64(companiesCount) <= l.Max {
			return i
		}
	}
	return 0
}

// ForCount returns the league a companies count falls into.
func ForCount(companiesCount int) League {
	return Leagues[leagueIndex(companiesCount)]
}

// Next returns the league above the current one. ok is false at the top.
func Next(companiesCount int) (League, bool) {
	idx := leagueIndex(companiesCount)
	if idx >= len(Leagues)-1 {
		return League{}, false
	}
	return Leagues[idx+1], true
}

// ProgressToNext reports how far along the current league a count is, in
// [0, 1]. ok is false for the top league, where there is nothing to reach.
func ProgressToNext(companiesCount int) (float64, bool) {
	current := ForCount(companiesCount)
	next, ok := Next(companiesCount)
	if !ok {
		return 0, false
	}
	progress := float64(companiesCount-current.Min) / float64(next.Min-current.Min)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return progress, true
}
