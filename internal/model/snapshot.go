package model

// AssetClass identifies which provider chain serves a symbol.
type AssetClass string

const (
	AssetCrypto    AssetClass = "crypto"
	AssetForex     AssetClass = "forex"
	AssetCommodity AssetClass = "commodity"
	AssetStock     AssetClass = "stock"
)

// Timeframes is the closed set of timeframe codes accepted by the service.
// Each provider adapter owns the translation to its native interval strings.
var Timeframes = []string{"1M", "5M", "15M", "1H", "4H", "1D", "1W"}

// IsValidTimeframe reports whether tf is one of the accepted timeframe codes.
func IsValidTimeframe(tf string) bool {
	for _, t := range Timeframes {
		if t == tf {
			return true
		}
	}
	return false
}

// SnapshotRequest is the inbound analysis request body.
type SnapshotRequest struct {
	Symbol    string            `json:"symbol" binding:"required"`
	Timeframe string            `json:"timeframe,omitempty"`
	APIKeys   map[string]string `json:"apiKeys,omitempty"`
}

// Quote carries provider-native fields not expressible in a bare OHLCV series.
type Quote struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        float64 `json:"volume"`
	High24h       float64 `json:"high24h"`
	Low24h        float64 `json:"low24h"`
	Bid           float64 `json:"bid"`
	Ask           float64 `json:"ask"`
	LastUpdate    string  `json:"lastUpdate"`
}

// SupportResistance holds the heuristic price level bands, nearest level first.
type SupportResistance struct {
	Support    []float64 `json:"support"`
	Resistance []float64 `json:"resistance"`
}

// MarketSnapshot is the full response payload for one symbol/timeframe.
type MarketSnapshot struct {
	Symbol            string            `json:"symbol"`
	Source            string            `json:"source"`
	Price             float64           `json:"price"`
	Change            float64           `json:"change"`
	ChangePercent     float64           `json:"changePercent"`
	Volume            float64           `json:"volume"`
	High24h           float64           `json:"high24h"`
	Low24h            float64           `json:"low24h"`
	Bid               float64           `json:"bid"`
	Ask               float64           `json:"ask"`
	LastUpdate        string            `json:"lastUpdate"`
	Indicators        *IndicatorSet     `json:"indicators"`
	Patterns          []string          `json:"patterns"`
	SupportResistance SupportResistance `json:"supportResistance"`
	HistoricalData    []float64         `json:"historicalData"`
	Note              string            `json:"note,omitempty"`
}
