package budget

// Band is the display severity of a spent/limit ratio.
type Band string

const (
	BandLow     Band = "low"
	BandMedium  Band = "medium"
	BandHigh    Band = "high"
	BandInvalid Band = "invalid"
)

const (
	mediumThreshold = 0.5
	highThreshold   = 0.8
)

// Classify returns spent/limit and its band. A non-positive limit has no
// ratio and is BandInvalid. Over-limit spending stays in BandHigh.
func Classify(spent, limit int64) (*float64, Band) {
	if limit <= 0 {
		return nil, BandInvalid
	}

	ratio := float64(spent) / float64(limit)
	switch {
	case ratio < mediumThreshold:
		return &ratio, BandLow
	case ratio < highThreshold:
		return &ratio, BandMedium
	default:
		return &ratio, BandHigh
	}
}
