package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestNormalizeBinanceSymbol(t *testing.T) {
	cases := map[string]string{
		"BTCUSD":   "BTCUSDT",
		"BTC-USD":  "BTCUSDT",
		"btc/usdt": "BTCUSDT",
		"ETHUSDT":  "ETHUSDT",
		"eth-usd":  "ETHUSDT",
	}
	for in, want := range cases {
		if got := NormalizeBinanceSymbol(in); got != want {
			t.Errorf("NormalizeBinanceSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}

func newBinanceTestServer(t *testing.T, bars int, wantSymbol string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ticker/24hr", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != wantSymbol {
			t.Errorf("24hr ticker queried with symbol %q, want %q", got, wantSymbol)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"priceChange":        "120.5",
			"priceChangePercent": "0.24",
			"highPrice":          "50500.0",
			"lowPrice":           "49100.0",
			"volume":             "12345.6",
			"bidPrice":           "49999.0",
			"askPrice":           "50001.0",
		})
	})
	mux.HandleFunc("/ticker/price", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"symbol": wantSymbol, "price": "50000.5"})
	})
	mux.HandleFunc("/klines", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "200" {
			t.Errorf("klines limit = %q, want 200", got)
		}
		if got := r.URL.Query().Get("interval"); got != "1h" {
			t.Errorf("klines interval = %q, want 1h", got)
		}
		klines := make([][]interface{}, bars)
		for i := 0; i < bars; i++ {
			base := 40000 + float64(i)*10
			klines[i] = []interface{}{
				int64(1700000000000 + i*3600000),
				fmt.Sprintf("%f", base),
				fmt.Sprintf("%f", base+50),
				fmt.Sprintf("%f", base-50),
				fmt.Sprintf("%f", base+25),
				fmt.Sprintf("%f", 100+float64(i)),
				int64(1700000000000 + (i+1)*3600000),
			}
		}
		json.NewEncoder(w).Encode(klines)
	})
	return httptest.NewServer(mux)
}

func TestBinanceFetch_FullResult(t *testing.T) {
	srv := newBinanceTestServer(t, 200, "BTCUSDT")
	defer srv.Close()

	p := NewBinanceProvider(srv.URL, zap.NewNop())
	res, err := p.Fetch(context.Background(), "BTC-USD", "1H", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Series.Len() != 200 {
		t.Errorf("series length = %d, want 200", res.Series.Len())
	}
	// Oldest-first: the first close must be the lowest in the ramp.
	if res.Series.Closes[0] >= res.Series.Closes[199] {
		t.Errorf("series not oldest-first: first %v, last %v",
			res.Series.Closes[0], res.Series.Closes[199])
	}
	if res.Quote.Price != 50000.5 {
		t.Errorf("quote price = %v, want 50000.5", res.Quote.Price)
	}
	if res.Quote.Bid != 49999.0 || res.Quote.Ask != 50001.0 {
		t.Errorf("bid/ask = %v/%v, want 49999/50001", res.Quote.Bid, res.Quote.Ask)
	}
	if res.Source != "Binance" {
		t.Errorf("source = %q, want Binance", res.Source)
	}
	if res.Degraded {
		t.Error("full binance result must not be degraded")
	}
}

func TestBinanceFetch_SubCallFailureFailsFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ticker/24hr", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1003,"msg":"Too many requests"}`, http.StatusTooManyRequests)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewBinanceProvider(srv.URL, zap.NewNop())
	if _, err := p.Fetch(context.Background(), "BTCUSDT", "1H", ""); err == nil {
		t.Fatal("expected error when a sub-call is rate limited")
	}
}

func TestBinanceFetch_UnknownTimeframeDefaultsHourly(t *testing.T) {
	srv := newBinanceTestServer(t, 10, "ETHUSDT")
	defer srv.Close()

	p := NewBinanceProvider(srv.URL, zap.NewNop())
	// The test server asserts interval == "1h".
	if _, err := p.Fetch(context.Background(), "ETHUSDT", "7D", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
