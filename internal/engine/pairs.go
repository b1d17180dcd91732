package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/cryptovault/trading-api/internal/types"
)

// seed installs the static pair catalog and the initial market data records.
// The catalog is immutable after this point.
func (e *Engine) seed() {
	now := time.Now()

	for _, pair := range []types.TradingPair{
		{BaseAsset: "BTC", QuoteAsset: "USDT", Symbol: "BTC/USDT", MinAmount: 0.001, MaxAmount: 100.0, PricePrecision: 2, AmountPrecision: 6, IsActive: true},
		{BaseAsset: "ETH", QuoteAsset: "USDT", Symbol: "ETH/USDT", MinAmount: 0.01, MaxAmount: 1000.0, PricePrecision: 2, AmountPrecision: 4, IsActive: true},
		{BaseAsset: "ADA", QuoteAsset: "USDT", Symbol: "ADA/USDT", MinAmount: 1.0, MaxAmount: 100000.0, PricePrecision: 4, AmountPrecision: 0, IsActive: true},
		{BaseAsset: "SOL", QuoteAsset: "USDT", Symbol: "SOL/USDT", MinAmount: 0.1, MaxAmount: 10000.0, PricePrecision: 2, AmountPrecision: 2, IsActive: true},
	} {
		e.pairs[pair.Symbol] = pair
	}

	for _, md := range []types.MarketData{
		{Symbol: "BTC", Price: 43250.0, Change24h: 2.5, Volume24h: 1500000000.0, High24h: 44500.0, Low24h: 42000.0, Timestamp: now},
		{Symbol: "ETH", Price: 2850.0, Change24h: 1.8, Volume24h: 800000000.0, High24h: 2950.0, Low24h: 2750.0, Timestamp: now},
		{Symbol: "ADA", Price: 0.45, Change24h: -0.5, Volume24h: 50000000.0, High24h: 0.48, Low24h: 0.42, Timestamp: now},
		{Symbol: "SOL", Price: 100.0, Change24h: 3.2, Volume24h: 200000000.0, High24h: 105.0, Low24h: 95.0, Timestamp: now},
	} {
		e.market[md.Symbol] = md
	}
}

// TradingPairs returns the pair catalog sorted by symbol.
func (e *Engine) TradingPairs() []types.TradingPair {
	e.mu.RLock()
	defer e.mu.RUnlock()

	pairs := make([]types.TradingPair, 0, len(e.pairs))
	for _, pair := range e.pairs {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Symbol < pairs[j].Symbol })
	return pairs
}

// baseAsset extracts the base asset from a pair symbol like "BTC/USDT".
func baseAsset(pair string) string {
	if idx := strings.Index(pair, "/"); idx >= 0 {
		return pair[:idx]
	}
	return pair
}

// quoteAsset extracts the quote asset from a pair symbol like "BTC/USDT".
func quoteAsset(pair string) string {
	if idx := strings.Index(pair, "/"); idx >= 0 {
		return pair[idx+1:]
	}
	return ""
}
