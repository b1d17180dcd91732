package engine

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cryptovault/trading-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeMarketBuy(e *Engine, wallet, pair string, amount float64) types.Order {
	order, _ := e.PlaceOrder(PlaceOrderParams{
		WalletID: wallet,
		Pair:     pair,
		Type:     types.OrderTypeMarket,
		Side:     types.OrderSideBuy,
		Amount:   amount,
	})
	return order
}

func TestPlaceMarketOrderFillsAtCurrentPrice(t *testing.T) {
	e := New()

	order, trade := e.PlaceOrder(PlaceOrderParams{
		WalletID: "w1",
		Pair:     "BTC/USDT",
		Type:     types.OrderTypeMarket,
		Side:     types.OrderSideBuy,
		Amount:   0.5,
	})

	require.NotNil(t, trade)
	assert.Equal(t, types.OrderStatusFilled, order.Status)
	assert.Equal(t, 0.5, order.FilledAmount)
	assert.Equal(t, 0.0, order.RemainingAmount)
	assert.Equal(t, 43250.0, order.Price)

	assert.Equal(t, order.OrderID, trade.OrderID)
	assert.Equal(t, 0.5, trade.Amount)
	assert.Equal(t, 43250.0, trade.Price)
	assert.InDelta(t, 21.625, trade.Fee, 1e-9)

	trades := e.Trades("w1")
	require.Len(t, trades, 1)
	assert.Equal(t, trade.TradeID, trades[0].TradeID)
}

func TestPlaceLimitOrder(t *testing.T) {
	testCases := []struct {
		name       string
		side       types.OrderSide
		price      float64
		wantFilled bool
	}{
		{name: "buy crossing at market", side: types.OrderSideBuy, price: 43250.0, wantFilled: true},
		{name: "buy crossing above market", side: types.OrderSideBuy, price: 45000.0, wantFilled: true},
		{name: "buy below market stays pending", side: types.OrderSideBuy, price: 40000.0, wantFilled: false},
		{name: "sell crossing below market", side: types.OrderSideSell, price: 42000.0, wantFilled: true},
		{name: "sell above market stays pending", side: types.OrderSideSell, price: 50000.0, wantFilled: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := New()

			order, trade := e.PlaceOrder(PlaceOrderParams{
				WalletID: "w1",
				Pair:     "BTC/USDT",
				Type:     types.OrderTypeLimit,
				Side:     tc.side,
				Amount:   1.0,
				Price:    tc.price,
			})

			if tc.wantFilled {
				require.NotNil(t, trade)
				assert.Equal(t, types.OrderStatusFilled, order.Status)
				// Limit fills execute at the limit price.
				assert.Equal(t, tc.price, trade.Price)
				assert.Equal(t, 0.0, order.RemainingAmount)
			} else {
				assert.Nil(t, trade)
				assert.Equal(t, types.OrderStatusPending, order.Status)
				assert.Equal(t, 0.0, order.FilledAmount)
				assert.Equal(t, 1.0, order.RemainingAmount)
				assert.Empty(t, e.Trades("w1"))
			}
		})
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	testCases := []struct {
		name       string
		params     PlaceOrderParams
		wantStatus types.OrderStatus
		wantError  string
	}{
		{
			name: "zero amount rejected",
			params: PlaceOrderParams{
				WalletID: "w1", Pair: "BTC/USDT",
				Type: types.OrderTypeMarket, Side: types.OrderSideBuy,
				Amount: 0,
			},
			wantStatus: types.OrderStatusRejected,
			wantError:  "Invalid amount",
		},
		{
			name: "negative amount rejected",
			params: PlaceOrderParams{
				WalletID: "w1", Pair: "BTC/USDT",
				Type: types.OrderTypeLimit, Side: types.OrderSideSell,
				Amount: -1, Price: 40000,
			},
			wantStatus: types.OrderStatusRejected,
			wantError:  "Invalid amount",
		},
		{
			name: "limit order without price rejected",
			params: PlaceOrderParams{
				WalletID: "w1", Pair: "BTC/USDT",
				Type: types.OrderTypeLimit, Side: types.OrderSideBuy,
				Amount: 1,
			},
			wantStatus: types.OrderStatusRejected,
			wantError:  "Invalid price for limit order",
		},
		{
			name: "market order needs no price",
			params: PlaceOrderParams{
				WalletID: "w1", Pair: "BTC/USDT",
				Type: types.OrderTypeMarket, Side: types.OrderSideBuy,
				Amount: 1,
			},
			wantStatus: types.OrderStatusFilled,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := New()

			order, _ := e.PlaceOrder(tc.params)

			assert.Equal(t, tc.wantStatus, order.Status)
			assert.Equal(t, tc.wantError, order.ErrorMessage)

			// Rejected orders are stored, not thrown: the ID must resolve.
			require.NotEmpty(t, order.OrderID)
			stored, err := e.GetOrder(order.OrderID)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, stored.Status)
		})
	}
}

func TestRejectedOrderProducesNoTrade(t *testing.T) {
	e := New()

	order, trade := e.PlaceOrder(PlaceOrderParams{
		WalletID: "w1", Pair: "BTC/USDT",
		Type: types.OrderTypeMarket, Side: types.OrderSideBuy,
		Amount: 0,
	})

	assert.Nil(t, trade)
	assert.Equal(t, types.OrderStatusRejected, order.Status)
	assert.Empty(t, e.Trades("w1"))
}

func TestStopOrdersStayPending(t *testing.T) {
	e := New()

	for _, orderType := range []types.OrderType{types.OrderTypeStopLoss, types.OrderTypeTakeProfit} {
		order, trade := e.PlaceOrder(PlaceOrderParams{
			WalletID: "w1", Pair: "BTC/USDT",
			Type: orderType, Side: types.OrderSideSell,
			Amount: 1, Price: 40000,
		})

		assert.Nil(t, trade)
		assert.Equal(t, types.OrderStatusPending, order.Status, "type %s", orderType)
	}
}

func TestUnknownPairStaysPending(t *testing.T) {
	e := New()

	order, trade := e.PlaceOrder(PlaceOrderParams{
		WalletID: "w1", Pair: "DOGE/USDT",
		Type: types.OrderTypeMarket, Side: types.OrderSideBuy,
		Amount: 100,
	})

	assert.Nil(t, trade)
	assert.Equal(t, types.OrderStatusPending, order.Status)
}

func TestCancelOrder(t *testing.T) {
	e := New()

	// A resting limit order is the only cancellable state.
	resting, _ := e.PlaceOrder(PlaceOrderParams{
		WalletID: "w1", Pair: "BTC/USDT",
		Type: types.OrderTypeLimit, Side: types.OrderSideBuy,
		Amount: 1, Price: 40000,
	})
	require.Equal(t, types.OrderStatusPending, resting.Status)

	assert.True(t, e.CancelOrder(resting.OrderID))

	cancelled, err := e.GetOrder(resting.OrderID)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusCancelled, cancelled.Status)
	assert.True(t, cancelled.UpdatedAt.After(cancelled.CreatedAt) || cancelled.UpdatedAt.Equal(cancelled.CreatedAt))

	// Second cancel is a no-op.
	assert.False(t, e.CancelOrder(resting.OrderID))
	again, err := e.GetOrder(resting.OrderID)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusCancelled, again.Status)
}

func TestCancelTerminalOrderIsNoOp(t *testing.T) {
	e := New()

	filled := placeMarketBuy(e, "w1", "BTC/USDT", 0.5)
	require.Equal(t, types.OrderStatusFilled, filled.Status)
	assert.False(t, e.CancelOrder(filled.OrderID))

	rejected, _ := e.PlaceOrder(PlaceOrderParams{
		WalletID: "w1", Pair: "BTC/USDT",
		Type: types.OrderTypeMarket, Side: types.OrderSideBuy,
		Amount: 0,
	})
	assert.False(t, e.CancelOrder(rejected.OrderID))

	assert.False(t, e.CancelOrder("no-such-order"))

	// Neither order mutated.
	got, err := e.GetOrder(filled.OrderID)
	require.NoError(t, err)
	assert.Equal(t, types.OrderStatusFilled, got.Status)
}

func TestGetOrderNotFound(t *testing.T) {
	e := New()

	_, err := e.GetOrder("missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrdersReturnsInsertionOrderPerWallet(t *testing.T) {
	e := New()

	first := placeMarketBuy(e, "w1", "BTC/USDT", 0.1)
	placeMarketBuy(e, "w2", "ETH/USDT", 1.0)
	second := placeMarketBuy(e, "w1", "SOL/USDT", 2.0)

	orders := e.Orders("w1")
	require.Len(t, orders, 2)
	assert.Equal(t, first.OrderID, orders[0].OrderID)
	assert.Equal(t, second.OrderID, orders[1].OrderID)

	assert.Len(t, e.Orders("w2"), 1)
	assert.Empty(t, e.Orders("unknown"))
}

func TestTradeFeeIsFlatTakerFee(t *testing.T) {
	e := New()

	for i, pair := range []string{"BTC/USDT", "ETH/USDT", "ADA/USDT", "SOL/USDT"} {
		amount := 0.5 + float64(i)
		_, trade := e.PlaceOrder(PlaceOrderParams{
			WalletID: "w1", Pair: pair,
			Type: types.OrderTypeMarket, Side: types.OrderSideSell,
			Amount: amount,
		})

		require.NotNil(t, trade)
		assert.InDelta(t, trade.Amount*trade.Price*0.001, trade.Fee, 1e-9)
		assert.GreaterOrEqual(t, trade.Fee, 0.0)
	}
}

func TestConcurrentPlacementAssignsUniqueIDs(t *testing.T) {
	e := New()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			placeMarketBuy(e, fmt.Sprintf("w%d", i%4), "BTC/USDT", 0.1)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	total := 0
	for _, wallet := range []string{"w0", "w1", "w2", "w3"} {
		for _, order := range e.Orders(wallet) {
			assert.False(t, seen[order.OrderID], "duplicate order id %s", order.OrderID)
			seen[order.OrderID] = true
			total++
		}
	}
	assert.Equal(t, n, total)
}
