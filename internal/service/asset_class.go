package service

import (
	"strings"

	"github.com/yourorg/market-snapshot-service/internal/model"
)

// ClassifyAssetClass routes a symbol to a provider chain by substring
// matching on known tickers. The checks run in a fixed order: crypto claims
// "BTCUSD" before the USD check can route it to forex.
func ClassifyAssetClass(symbol string) model.AssetClass {
	s := strings.ToUpper(symbol)
	switch {
	case containsAny(s, "BTC", "ETH", "USDT"):
		return model.AssetCrypto
	case containsAny(s, "USD", "EUR", "GBP"):
		return model.AssetForex
	case containsAny(s, "XAU", "XAG", "OIL"):
		return model.AssetCommodity
	default:
		return model.AssetStock
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
