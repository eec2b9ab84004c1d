package model

// MACD holds the MACD line and its derived signal/histogram values.
// The signal is a fixed 0.9 multiple of the MACD line rather than a smoothed
// series; changing that would change observable output.
type MACD struct {
	Value     float64 `json:"value"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BollingerBands holds the volatility bands around the 20-period SMA.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// Stochastic holds the %K/%D oscillator pair. %D is a fixed 0.9 multiple of
// %K, matching the simplified formula the service exposes.
type Stochastic struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// VolumeProfile summarizes current volume against its 20-period average.
// Trend is "increasing" when current exceeds the average, else "decreasing".
type VolumeProfile struct {
	Current float64 `json:"current"`
	Average float64 `json:"average"`
	Ratio   float64 `json:"ratio"`
	Trend   string  `json:"trend"`
}

// IndicatorSet is the fixed-shape indicator payload computed per request.
// VolumeProfile is nil when the series carries no volume data.
type IndicatorSet struct {
	RSI           float64        `json:"rsi"`
	MACD          MACD           `json:"macd"`
	EMA20         float64        `json:"ema20"`
	EMA50         float64        `json:"ema50"`
	EMA200        float64        `json:"ema200"`
	SMA20         float64        `json:"sma20"`
	SMA50         float64        `json:"sma50"`
	Bollinger     BollingerBands `json:"bollingerBands"`
	ATR           float64        `json:"atr"`
	ADX           float64        `json:"adx"`
	Stochastic    Stochastic     `json:"stochastic"`
	VolumeProfile *VolumeProfile `json:"volumeProfile"`
}
