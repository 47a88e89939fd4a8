package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestGetPrices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("vs_currencies"); got != "usd" {
			t.Errorf("Expected vs_currencies=usd, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin":{"usd":64000.5,"usd_24h_change":-1.2},"ethereum":{"usd":2500}}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second)
	quotes, err := client.GetPrices(context.Background(), []string{"bitcoin", "ethereum"})
	if err != nil {
		t.Fatalf("GetPrices failed: %v", err)
	}

	btc, ok := quotes["bitcoin"]
	if !ok {
		t.Fatal("Expected bitcoin quote")
	}
	if !btc.Price.Equal(decimal.NewFromFloat(64000.5)) {
		t.Errorf("Expected price 64000.5, got %s", btc.Price.String())
	}
	if !btc.Change24h.Equal(decimal.NewFromFloat(-1.2)) {
		t.Errorf("Expected 24h change -1.2, got %s", btc.Change24h.String())
	}

	eth, ok := quotes["ethereum"]
	if !ok {
		t.Fatal("Expected ethereum quote")
	}
	if !eth.Price.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("Expected price 2500, got %s", eth.Price.String())
	}
}

func TestGetPrices_EmptyRequest(t *testing.T) {
	client := NewClient("http://localhost:0", time.Second)
	quotes, err := client.GetPrices(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetPrices failed: %v", err)
	}
	if len(quotes) != 0 {
		t.Errorf("Expected empty result, got %d quotes", len(quotes))
	}
}

func TestGetPrices_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second)
	if _, err := client.GetPrices(context.Background(), []string{"bitcoin"}); err == nil {
		t.Fatal("Expected error for non-200 response")
	}
}

func TestPollerSnapshot_MapsMarketIdToSymbol(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin":{"usd":50000,"usd_24h_change":2.5}}`))
	}))
	defer ts.Close()

	poller := NewPoller(PollerConfig{
		Client:          NewClient(ts.URL, 5*time.Second),
		Assets:          []AssetMapping{{Symbol: "BTC", MarketId: "bitcoin"}},
		PollingInterval: time.Minute,
		MaxStaleness:    time.Minute,
	})
	poller.refresh(context.Background())

	quote, ok := poller.Snapshot("BTC")
	if !ok {
		t.Fatal("Expected fresh snapshot for BTC")
	}
	if !quote.Price.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("Expected price 50000, got %s", quote.Price.String())
	}

	if _, ok := poller.Snapshot("DOGE"); ok {
		t.Error("Expected no snapshot for unknown symbol")
	}
}

func TestPollerSnapshot_Staleness(t *testing.T) {
	poller := NewPoller(PollerConfig{
		Client:          NewClient("http://localhost:0", time.Second),
		Assets:          []AssetMapping{{Symbol: "BTC", MarketId: "bitcoin"}},
		PollingInterval: time.Minute,
		MaxStaleness:    time.Minute,
	})

	poller.quotes["BTC"] = Quote{
		Price:     decimal.NewFromInt(50000),
		FetchedAt: time.Now().Add(-2 * time.Minute),
	}

	if _, ok := poller.Snapshot("BTC"); ok {
		t.Error("Expected stale snapshot to be rejected")
	}

	// Stale quotes still appear in the full listing with their timestamps.
	snapshots := poller.Snapshots()
	if len(snapshots) != 1 {
		t.Fatalf("Expected 1 snapshot in listing, got %d", len(snapshots))
	}
}
