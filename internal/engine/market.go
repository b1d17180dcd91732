package engine

import (
	"context"
	"sort"
	"time"

	"github.com/cryptovault/trading-api/internal/types"
	"github.com/rs/zerolog/log"
)

// tickRange bounds the random per-tick price movement (±5%).
const tickRange = 0.05

// MarketData returns the current record for a symbol.
func (e *Engine) MarketData(symbol string) (types.MarketData, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	md, ok := e.market[symbol]
	if !ok {
		return types.MarketData{}, ErrSymbolNotFound
	}
	return md, nil
}

// MarketSnapshot returns all market data records sorted by symbol.
func (e *Engine) MarketSnapshot() []types.MarketData {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.marketSnapshotLocked()
}

func (e *Engine) marketSnapshotLocked() []types.MarketData {
	out := make([]types.MarketData, 0, len(e.market))
	for _, md := range e.market {
		out = append(out, md)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Tick applies a bounded random perturbation to every symbol's price and
// recomputes the 24h change. It runs under the write lock, so no order
// evaluation can observe a half-updated feed. Returns the updated snapshot.
func (e *Engine) Tick() []types.MarketData {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	for symbol, md := range e.market {
		change := e.rng.Float64()*2*tickRange - tickRange
		md.Price *= 1.0 + change
		md.Change24h = change * 100
		md.Timestamp = now
		e.market[symbol] = md
	}

	return e.marketSnapshotLocked()
}

// StartTicker runs the periodic market update loop until the context is
// cancelled. This is the only background mutation source; it never runs
// inside a request-handling call path.
func (e *Engine) StartTicker(ctx context.Context, interval time.Duration) {
	logger := log.With().Str("component", "market_ticker").Logger()
	logger.Info().Dur("interval", interval).Msg("starting market ticker")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down market ticker")
			return
		case <-ticker.C:
			snapshot := e.Tick()
			logger.Debug().Int("symbols", len(snapshot)).Msg("market data updated")
			if e.onTick != nil {
				e.onTick(snapshot)
			}
		}
	}
}
