package league

// HardSkillsRank grades a salesperson on lifetime margin, conversion and
// closed-deal count together. A rank is reached only when all three minimums
// hold.
type HardSkillsRank struct {
	ID     string `json:"id"`
	Emoji  string `json:"emoji"`
	Letter string `json:"letter"`
	Name   string `json:"name"`
	// MarginMin is the minimum lifetime margin in rubles.
	MarginMin float64 `json:"margin_min"`
	// ConversionMin is the minimum conversion in percent.
	ConversionMin float64 `json:"conversion_min"`
	// PaidCountMin is the minimum number of closed deals.
	PaidCountMin int `json:"paid_count_min"`
}

// HardSkillsRanks from best to worst. D is the floor with zero thresholds.
var HardSkillsRanks = []HardSkillsRank{
	{ID: "s", Emoji: "🔥", Letter: "S", Name: "Легенда SpaceMetall", MarginMin: 15_000_000, ConversionMin: 15, PaidCountMin: 500},
	{ID: "a", Emoji: "💎", Letter: "A", Name: "Ядро компании", MarginMin: 6_000_000, ConversionMin: 13, PaidCountMin: 250},
	{ID: "b", Emoji: "🥇", Letter: "B", Name: "Системный", MarginMin: 2_000_000, ConversionMin: 11, PaidCountMin: 100},
	{ID: "c", Emoji: "🥈", Letter: "C", Name: "Игрок базы", MarginMin: 500_000, ConversionMin: 8, PaidCountMin: 30},
	{ID: "d", Emoji: "🥉", Letter: "D", Name: "Начальный", MarginMin: 0, ConversionMin: 0, PaidCountMin: 0},
}

// HardSkills returns the highest rank whose margin, conversion and paid-count
// minimums are all met. conversionPercent is in percent, not a fraction.
func HardSkills(totalMargin, conversionPercent float64, paidCount int) HardSkillsRank {
	for _, rank := range HardSkillsRanks {
		if totalMargin >= rank.MarginMin &&
			conversionPercent >= rank.ConversionMin &&
			paidCount >= rank.PaidCountMin {
			return rank
		}
	}
	return HardSkillsRanks[len(HardSkillsRanks)-1]
}
