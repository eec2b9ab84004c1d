package indicator

// Trend labels returned by DetectPatterns.
const (
	TrendUp           = "Uptrend"
	TrendDown         = "Downtrend"
	TrendSideways     = "Sideways"
	TrendInsufficient = "Insufficient data"
)

// trendThreshold is the fractional move over 5 bars that separates a trend
// from sideways drift.
const trendThreshold = 0.02

// DetectPatterns classifies the recent trend by comparing the latest close to
// the close 5 bars earlier. Fewer than 5 bars yields a single
// "Insufficient data" label.
func DetectPatterns(closes []float64) []string {
	if len(closes) < 5 {
		return []string{TrendInsufficient}
	}
	last := closes[len(closes)-1]
	ref := closes[len(closes)-5]
	if ref == 0 {
		return []string{TrendSideways}
	}
	change := (last - ref) / ref
	switch {
	case change > trendThreshold:
		return []string{TrendUp}
	case change < -trendThreshold:
		return []string{TrendDown}
	default:
		return []string{TrendSideways}
	}
}

// SupportResistance derives heuristic level bands as fixed percentage offsets
// from the current price: support at -2/-5/-8%, resistance at +2/+5/+8%.
// These are placeholder bands, not detected price-action levels.
func SupportResistance(price float64) ([]float64, []float64) {
	support := []float64{price * 0.98, price * 0.95, price * 0.92}
	resistance := []float64{price * 1.02, price * 1.05, price * 1.08}
	return support, resistance
}
