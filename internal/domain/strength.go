package domain

// CardStrength buckets a card's confidence for display.
type CardStrength string

const (
	StrengthStrong   CardStrength = "strong"
	StrengthModerate CardStrength = "moderate"
	StrengthWeak     CardStrength = "weak"
	StrengthUnrated  CardStrength = "unrated"
)

func ComputeStrength(confidence *float64) CardStrength {
	if confidence == nil {
		return StrengthUnrated
	}
	switch c := *confidence; {
	case c >= 0.7:
		return StrengthStrong
	case c >= 0.4:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

func StrengthReason(confidence *float64) string {
	switch ComputeStrength(confidence) {
	case StrengthStrong:
		return "model is confident the memos take opposite stances"
	case StrengthModerate:
		return "memos lean in opposite directions"
	case StrengthWeak:
		return "best available pair, opposition is loose"
	default:
		return "model did not report a confidence"
	}
}
