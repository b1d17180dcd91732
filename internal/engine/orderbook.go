package engine

import (
	"time"

	"github.com/cryptovault/trading-api/internal/types"
)

// DefaultBookDepth is the number of levels per side when no depth is given.
const DefaultBookDepth = 10

// OrderBook derives a synthetic depth ladder from the current market price
// of the pair's base asset. Level i (1-based) sits 0.1% * i away from the
// mid price with an amount that grows linearly with distance. This is
// illustrative market depth for display purposes, not real resting
// liquidity.
func (e *Engine) OrderBook(pair string, depth int) (types.OrderBook, error) {
	if depth <= 0 {
		depth = DefaultBookDepth
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	md, ok := e.market[baseAsset(pair)]
	if !ok {
		return types.OrderBook{}, ErrSymbolNotFound
	}

	book := types.OrderBook{
		Pair:      pair,
		Bids:      make([]types.OrderBookEntry, 0, depth),
		Asks:      make([]types.OrderBookEntry, 0, depth),
		Timestamp: time.Now(),
	}

	for i := 1; i <= depth; i++ {
		amount := 0.1 + 0.1*float64(i-1)

		bidPrice := md.Price * (1.0 - 0.001*float64(i))
		book.Bids = append(book.Bids, types.OrderBookEntry{
			Price:  bidPrice,
			Amount: amount,
			Total:  bidPrice * amount,
		})

		askPrice := md.Price * (1.0 + 0.001*float64(i))
		book.Asks = append(book.Asks, types.OrderBookEntry{
			Price:  askPrice,
			Amount: amount,
			Total:  askPrice * amount,
		})
	}

	return book, nil
}
