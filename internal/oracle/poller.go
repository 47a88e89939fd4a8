package oracle

import (
	"context"
	"sync"
	"time"

	"trade-desk-go/internal/models"

	"go.uber.org/zap"
)

// PollerConfig contains configuration for the price poller.
type PollerConfig struct {
	Client          *Client
	Assets          []AssetMapping
	PollingInterval time.Duration
	MaxStaleness    time.Duration
}

// AssetMapping ties a trading symbol to the market-data API's asset id.
type AssetMapping struct {
	Symbol   string `yaml:"symbol"`
	MarketId string `yaml:"market_id"`
}

// Poller fetches quotes on a fixed interval and caches the latest snapshot
// per symbol. Consumers read snapshots; the poller never pushes into the
// settlement path.
type Poller struct {
	client          *Client
	assets          []AssetMapping
	pollingInterval time.Duration
	maxStaleness    time.Duration

	mu     sync.RWMutex
	quotes map[string]Quote

	stopChan chan struct{}
	doneChan chan struct{}
}

func NewPoller(cfg PollerConfig) *Poller {
	return &Poller{
		client:          cfg.Client,
		assets:          cfg.Assets,
		pollingInterval: cfg.PollingInterval,
		maxStaleness:    cfg.MaxStaleness,
		quotes:          make(map[string]Quote),
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}
}

// Start polls until Stop is called or the context is cancelled. The first
// fetch happens immediately so snapshots are available before the first tick.
func (p *Poller) Start(ctx context.Context) {
	zap.L().Info("Starting price poller",
		zap.Int("assets", len(p.assets)),
		zap.Duration("interval", p.pollingInterval))

	defer close(p.doneChan)

	p.refresh(ctx)

	ticker := time.NewTicker(p.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Price poller stopped by context")
			return
		case <-p.stopChan:
			zap.L().Info("Price poller stopped")
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// Stop signals the poller to exit and waits for the loop to finish.
func (p *Poller) Stop() {
	close(p.stopChan)
	<-p.doneChan
}

func (p *Poller) refresh(ctx context.Context) {
	marketIds := make([]string, 0, len(p.assets))
	bySymbol := make(map[string]string, len(p.assets))
	for _, a := range p.assets {
		marketIds = append(marketIds, a.MarketId)
		bySymbol[a.MarketId] = a.Symbol
	}

	quotes, err := p.client.GetPrices(ctx, marketIds)
	if err != nil {
		// Stale snapshots stay served until MaxStaleness; a transient fetch
		// failure is not fatal.
		zap.L().Warn("Price refresh failed", zap.Error(err))
		return
	}

	p.mu.Lock()
	for marketId, quote := range quotes {
		if symbol, ok := bySymbol[marketId]; ok {
			p.quotes[symbol] = quote
		}
	}
	p.mu.Unlock()

	zap.L().Debug("Price snapshots refreshed", zap.Int("count", len(quotes)))
}

// Snapshot returns the cached quote for a symbol. The second return is false
// when no quote exists or the cached one is older than the staleness window.
func (p *Poller) Snapshot(symbol string) (Quote, bool) {
	p.mu.RLock()
	quote, ok := p.quotes[symbol]
	p.mu.RUnlock()

	if !ok {
		return Quote{}, false
	}
	if p.maxStaleness > 0 && time.Since(quote.FetchedAt) > p.maxStaleness {
		return Quote{}, false
	}
	return quote, true
}

// Snapshots returns all cached quotes, including stale ones, with their
// fetch timestamps so callers can judge freshness.
func (p *Poller) Snapshots() []models.PriceQuote {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]models.PriceQuote, 0, len(p.quotes))
	for symbol, quote := range p.quotes {
		result = append(result, models.PriceQuote{
			Asset:     symbol,
			Price:     quote.Price,
			Change24h: quote.Change24h,
			FetchedAt: quote.FetchedAt,
		})
	}
	return result
}
