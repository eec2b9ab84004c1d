package service

import (
	"testing"

	"github.com/yourorg/market-snapshot-service/internal/model"
)

func TestClassifyAssetClass(t *testing.T) {
	cases := map[string]model.AssetClass{
		"BTCUSD":  model.AssetCrypto,
		"ETHUSDT": model.AssetCrypto,
		"btcusdt": model.AssetCrypto,
		"EURUSD":  model.AssetForex,
		"GBPJPY":  model.AssetForex,
		"XAU":     model.AssetCommodity,
		"OIL":     model.AssetCommodity,
		"AAPL":    model.AssetStock,
		"TSLA":    model.AssetStock,
	}
	for symbol, want := range cases {
		if got := ClassifyAssetClass(symbol); got != want {
			t.Errorf("ClassifyAssetClass(%q) = %v, want %v", symbol, got, want)
		}
	}
}
