package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client fetches spot prices and 24h change from a CoinGecko-compatible
// market-data API.
type Client struct {
	baseUrl    string
	httpClient *http.Client
}

func NewClient(baseUrl string, timeout time.Duration) *Client {
	return &Client{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Quote is a single asset price observation.
type Quote struct {
	Price     decimal.Decimal
	Change24h decimal.Decimal
	FetchedAt time.Time
}

// GetPrices returns quotes for the given market ids (e.g. "bitcoin").
// Assets missing from the response are absent from the result map.
func (c *Client) GetPrices(ctx context.Context, assetIds []string) (map[string]Quote, error) {
	if len(assetIds) == 0 {
		return map[string]Quote{}, nil
	}

	query := url.Values{}
	query.Set("ids", strings.Join(assetIds, ","))
	query.Set("vs_currencies", "usd")
	query.Set("include_24hr_change", "true")

	endpoint := fmt.Sprintf("%s/simple/price?%s", c.baseUrl, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price request returned status %d", resp.StatusCode)
	}

	// Response shape: {"bitcoin": {"usd": 64000.12, "usd_24h_change": -1.2}}
	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}

	now := time.Now()
	quotes := make(map[string]Quote, len(payload))
	for assetId, fields := range payload {
		price, ok := fields["usd"]
		if !ok {
			continue
		}
		quotes[assetId] = Quote{
			Price:     decimal.NewFromFloat(price),
			Change24h: decimal.NewFromFloat(fields["usd_24h_change"]),
			FetchedAt: now,
		}
	}
	return quotes, nil
}
