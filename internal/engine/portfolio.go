package engine

import (
	"github.com/cryptovault/trading-api/internal/types"
)

// valuationCurrency is the unit every holding is converted into.
const valuationCurrency = "USDT"

// seedBalances is the baseline allocation every wallet starts from. These
// are demo holdings, not derived from any deposit ledger.
var seedBalances = map[string]float64{
	"BTC":  2.5,
	"ETH":  15.8,
	"ADA":  5000.0,
	"SOL":  25.0,
	"USDT": 10000.0,
}

// Balances computes the wallet's per-asset holdings: the baseline seed
// allocation adjusted by every trade belonging to the wallet's orders. A buy
// adds base asset and spends quote; a sell is the inverse. Fees are reported
// separately on trades and do not reduce balances here.
func (e *Engine) Balances(walletID string) map[string]float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	balances := make(map[string]float64, len(seedBalances))
	for asset, amount := range seedBalances {
		balances[asset] = amount
	}

	for _, trade := range e.trades {
		if e.orderOwner(trade) != walletID {
			continue
		}

		base := baseAsset(trade.Pair)
		quote := quoteAsset(trade.Pair)

		if trade.Side == types.OrderSideBuy {
			balances[base] += trade.Amount
			balances[quote] -= trade.Amount * trade.Price
		} else {
			balances[base] -= trade.Amount
			balances[quote] += trade.Amount * trade.Price
		}
	}

	return balances
}

// PortfolioValue converts the wallet's balances into quote-currency units
// at current market prices. The quote-currency holding is added unconverted;
// assets with no market data record contribute nothing.
func (e *Engine) PortfolioValue(walletID string) float64 {
	balances := e.Balances(walletID)

	e.mu.RLock()
	defer e.mu.RUnlock()

	total := 0.0
	for asset, amount := range balances {
		if asset == valuationCurrency {
			total += amount
			continue
		}
		if md, ok := e.market[asset]; ok {
			total += amount * md.Price
		}
	}

	return total
}
