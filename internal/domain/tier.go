package domain

// Tier is a named performance bracket for a finished quiz.
type Tier string

const (
	TierPerfect      Tier = "Perfect"
	TierExcellent    Tier = "Excellent"
	TierGreat        Tier = "Great"
	TierGood         Tier = "Good"
	TierKeepLearning Tier = "Keep Learning"
	TierKeepTrying   Tier = "Keep Trying"
)

// tierBounds holds inclusive lower bounds, highest first. First match wins.
var tierBounds = []struct {
	min  int
	tier Tier
}{
	{100, TierPerfect},
	{90, TierExcellent},
	{75, TierGreat},
	{60, TierGood},
	{40, TierKeepLearning},
	{0, TierKeepTrying},
}

// ClassifyTier maps a percentage to its tier. Out-of-range input is clamped.
func ClassifyTier(percentage int) Tier {
	for _, b := range tierBounds {
		if percentage >= b.min {
			return b.tier
		}
	}
	return TierKeepTrying
}

// Percentage returns 100*score/total rounded half up.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*score + total) / (2 * total)
}

// Summary is the final result of a completed session.
type Summary struct {
	Score      int
	Total      int
	Percentage int
	Tier       Tier
}

// NewSummary classifies score out of total.
func NewSummary(score, total int) Summary {
	pct := Percentage(score, total)
	return Summary{
		Score:      score,
		Total:      total,
		Percentage: pct,
		Tier:       ClassifyTier(pct),
	}
}
