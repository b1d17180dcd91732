package engine

import (
	"testing"

	"github.com/cryptovault/trading-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Seed valuation at initial prices:
// 2.5*43250 + 15.8*2850 + 5000*0.45 + 25*100 + 10000 = 167905.
const seedPortfolioValue = 167905.0

func TestBalancesWithoutTradesEqualSeeds(t *testing.T) {
	e := New()

	balances := e.Balances("w1")
	assert.Equal(t, 2.5, balances["BTC"])
	assert.Equal(t, 15.8, balances["ETH"])
	assert.Equal(t, 5000.0, balances["ADA"])
	assert.Equal(t, 25.0, balances["SOL"])
	assert.Equal(t, 10000.0, balances["USDT"])
}

func TestBalancesApplyBuyTrade(t *testing.T) {
	e := New()

	order, trade := e.PlaceOrder(PlaceOrderParams{
		WalletID: "w1", Pair: "BTC/USDT",
		Type: types.OrderTypeMarket, Side: types.OrderSideBuy,
		Amount: 0.1,
	})
	require.Equal(t, types.OrderStatusFilled, order.Status)
	require.NotNil(t, trade)

	balances := e.Balances("w1")
	assert.InDelta(t, 2.6, balances["BTC"], 1e-9)
	assert.InDelta(t, 10000.0-0.1*43250.0, balances["USDT"], 1e-9)

	// Other wallets are untouched.
	other := e.Balances("w2")
	assert.Equal(t, 2.5, other["BTC"])
	assert.Equal(t, 10000.0, other["USDT"])
}

func TestBalancesApplySellTrade(t *testing.T) {
	e := New()

	_, trade := e.PlaceOrder(PlaceOrderParams{
		WalletID: "w1", Pair: "ETH/USDT",
		Type: types.OrderTypeMarket, Side: types.OrderSideSell,
		Amount: 2.0,
	})
	require.NotNil(t, trade)

	balances := e.Balances("w1")
	assert.InDelta(t, 13.8, balances["ETH"], 1e-9)
	assert.InDelta(t, 10000.0+2.0*2850.0, balances["USDT"], 1e-9)
}

func TestPortfolioValueWithoutTrades(t *testing.T) {
	e := New()

	assert.InDelta(t, seedPortfolioValue, e.PortfolioValue("w1"), 1e-6)
}

func TestPortfolioValueUnchangedByMarketTradeAtSamePrice(t *testing.T) {
	e := New()

	// Trading base against quote at the prevailing price moves holdings
	// between assets without changing their combined valuation (fees are
	// reported on the trade, not deducted from balances).
	placeMarketBuy(e, "w1", "BTC/USDT", 0.25)
	placeMarketBuy(e, "w1", "SOL/USDT", 3.0)

	assert.InDelta(t, seedPortfolioValue, e.PortfolioValue("w1"), 1e-6)
}

func TestPendingOrdersDoNotAffectPortfolio(t *testing.T) {
	e := New()

	_, trade := e.PlaceOrder(PlaceOrderParams{
		WalletID: "w1", Pair: "BTC/USDT",
		Type: types.OrderTypeLimit, Side: types.OrderSideBuy,
		Amount: 1.0, Price: 40000,
	})
	require.Nil(t, trade)

	assert.InDelta(t, seedPortfolioValue, e.PortfolioValue("w1"), 1e-6)
}
