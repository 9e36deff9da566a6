package scoring

// Tier is the discrete label derived from a score.
type Tier string

const (
	TierPerfect   Tier = "perfect"
	TierStrong    Tier = "strong"
	TierGood      Tier = "good"
	TierPotential Tier = "potential"
)

// Tier thresholds, lower bound inclusive.
const (
	perfectThreshold = 80
	strongThreshold  = 60
	goodThreshold    = 40
)

// TierFor maps a score to its tier.
func TierFor(score int) Tier {
	switch {
	case score >= perfectThreshold:
		return TierPerfect
	case score >= strongThreshold:
		return TierStrong
	case score >= goodThreshold:
		return TierGood
	default:
		return TierPotential
	}
}

// Label is the display form of a tier.
type Label struct {
	Emoji string `json:"emoji"`
	Text  string `json:"label"`
}

// Label returns the emoji and text shown for the tier.
func (t Tier) Label() Label {
	switch t {
	case TierPerfect:
		return Label{Emoji: "🔥", Text: "Perfect Match"}
	case TierStrong:
		return Label{Emoji: "⭐", Text: "Strong Match"}
	case TierGood:
		return Label{Emoji: "👍", Text: "Good Match"}
	default:
		return Label{Emoji: "💡", Text: "Potential Match"}
	}
}
