package indicator

import (
	"math"

	"github.com/yourorg/market-snapshot-service/internal/model"
)

// Lookback periods for the indicator set. These are fixed; the engine is not
// parameterized per request.
const (
	rsiPeriod        = 14
	atrPeriod        = 14
	adxPeriod        = 14
	stochPeriod      = 14
	bollingerPeriod  = 20
	bollingerWidth   = 2.0
	volumeSMAPeriod  = 20
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalFactor = 0.9
	stochDFactor     = 0.9
)

// Compute derives the full indicator set from a canonical series. Every
// indicator is total: insufficient input degrades to a documented default
// instead of an error, so one ill-conditioned indicator can never abort the
// snapshot.
func Compute(series *model.OHLCVSeries) *model.IndicatorSet {
	closes := series.Closes
	highs := series.Highs
	lows := series.Lows

	macd := EMA(closes, macdFastPeriod) - EMA(closes, macdSlowPeriod)
	signal := macd * macdSignalFactor

	middle := SMA(closes, bollingerPeriod)
	band := bollingerWidth * stdDev(tail(closes, bollingerPeriod))

	return &model.IndicatorSet{
		RSI: RSI(closes, rsiPeriod),
		MACD: model.MACD{
			Value:     macd,
			Signal:    signal,
			Histogram: macd - signal,
		},
		EMA20:  EMA(closes, 20),
		EMA50:  EMA(closes, 50),
		EMA200: EMA(closes, 200),
		SMA20:  SMA(closes, 20),
		SMA50:  SMA(closes, 50),
		Bollinger: model.BollingerBands{
			Upper:  middle + band,
			Middle: middle,
			Lower:  middle - band,
		},
		ATR:           ATR(highs, lows, closes, atrPeriod),
		ADX:           ADX(highs, lows, closes, adxPeriod),
		Stochastic:    StochasticOscillator(highs, lows, closes, stochPeriod),
		VolumeProfile: VolumeProfile(series.Volumes),
	}
}

// RSI computes the relative strength index over the trailing period changes.
// Returns 50 when fewer than period+1 closes are available and 100 when there
// are no losses in the window.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50
	}
	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// EMA computes the exponential moving average, seeded with the close `period`
// steps from the end and walked forward to the last bar. Returns the last
// close when the series is shorter than the period.
func EMA(closes []float64, period int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if len(closes) < period {
		return closes[len(closes)-1]
	}
	k := 2.0 / (float64(period) + 1)
	ema := closes[len(closes)-period]
	for i := len(closes) - period + 1; i < len(closes); i++ {
		ema = (closes[i]-ema)*k + ema
	}
	return ema
}

// SMA computes the arithmetic mean of the trailing `period` values. Returns
// the last value when the series is shorter than the period.
func SMA(values []float64, period int) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) < period {
		return values[len(values)-1]
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// ATR computes the average true range: the mean of the trailing `period` true
// ranges, where TR = max(high-low, |high-prevClose|, |low-prevClose|).
// Returns 0 when fewer than two bars exist (no true range can be formed).
func ATR(highs, lows, closes []float64, period int) float64 {
	n := len(closes)
	if n < 2 || len(highs) < n || len(lows) < n {
		return 0
	}
	trs := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		tr := math.Max(highs[i]-lows[i],
			math.Max(math.Abs(highs[i]-closes[i-1]), math.Abs(lows[i]-closes[i-1])))
		trs = append(trs, tr)
	}
	if len(trs) < period {
		period = len(trs)
	}
	var sum float64
	for _, tr := range trs[len(trs)-period:] {
		sum += tr
	}
	return sum / float64(period)
}

// ADX approximates trend strength as min(100, |close change over period| / ATR * 5).
// This is a deliberate proxy, not the textbook directional-movement index.
// An ATR of 0 (flat market) yields 0.
func ADX(highs, lows, closes []float64, period int) float64 {
	atr := ATR(highs, lows, closes, period)
	if atr == 0 {
		return 0
	}
	last := len(closes) - 1
	ref := 0
	if last-period >= 0 {
		ref = last - period
	}
	change := math.Abs(closes[last] - closes[ref])
	return math.Min(100, change/atr*5)
}

// StochasticOscillator computes %K over the trailing period window and a
// simplified %D as a fixed multiple of %K. A flat window (high == low) yields
// %K = 0 rather than a division by zero.
func StochasticOscillator(highs, lows, closes []float64, period int) model.Stochastic {
	if len(closes) == 0 {
		return model.Stochastic{}
	}
	hh := tail(highs, period)
	ll := tail(lows, period)
	highest := math.Inf(-1)
	lowest := math.Inf(1)
	for _, h := range hh {
		highest = math.Max(highest, h)
	}
	for _, l := range ll {
		lowest = math.Min(lowest, l)
	}
	if len(hh) == 0 || len(ll) == 0 || highest == lowest {
		return model.Stochastic{}
	}
	k := (closes[len(closes)-1] - lowest) / (highest - lowest) * 100
	return model.Stochastic{K: k, D: k * stochDFactor}
}

// VolumeProfile compares current volume against its 20-period average.
// Returns nil when the series carries no volume data.
func VolumeProfile(volumes []float64) *model.VolumeProfile {
	if len(volumes) == 0 {
		return nil
	}
	current := volumes[len(volumes)-1]
	average := SMA(volumes, volumeSMAPeriod)
	ratio := 0.0
	if average != 0 {
		ratio = current / average
	}
	trend := "decreasing"
	if current > average {
		trend = "increasing"
	}
	return &model.VolumeProfile{
		Current: current,
		Average: average,
		Ratio:   ratio,
		Trend:   trend,
	}
}

// tail returns the trailing n elements, or the whole slice when shorter.
func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

// stdDev computes the population standard deviation.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}
