package engine

import (
	"time"

	"github.com/cryptovault/trading-api/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// feeRate is the flat taker fee applied to every fill (0.1%).
const feeRate = 0.001

// evaluate decides whether the order fills against the current market price
// and, if so, mutates it to filled and returns the trade record.
//
// Policy: market orders always fill in full at the current price of the
// pair's base asset. Limit orders fill in full iff they cross the market
// (buy at or above, sell at or below); otherwise they stay pending and are
// never re-evaluated against later ticks. Stop-loss and take-profit orders
// have no trigger rule and stay pending until cancelled. Orders on a pair
// with no market data record stay pending.
//
// Callers must hold the engine's write lock so the price read and the
// order/trade write happen atomically.
func (e *Engine) evaluate(order *types.Order) (types.Trade, bool) {
	md, ok := e.market[baseAsset(order.Pair)]
	if !ok {
		return types.Trade{}, false
	}

	switch order.Type {
	case types.OrderTypeMarket:
		order.Price = md.Price
		return fill(order, md.Price), true

	case types.OrderTypeLimit:
		crosses := (order.Side == types.OrderSideBuy && order.Price >= md.Price) ||
			(order.Side == types.OrderSideSell && order.Price <= md.Price)
		if crosses {
			return fill(order, order.Price), true
		}
	}

	return types.Trade{}, false
}

// fill marks the order fully filled at price and builds its trade record.
// The policy only ever produces single-shot full fills, so exactly one trade
// exists per filled order and partially_filled is never set.
func fill(order *types.Order, price float64) types.Trade {
	now := time.Now()
	order.FilledAmount = order.Amount
	order.RemainingAmount = 0
	order.Status = types.OrderStatusFilled
	order.UpdatedAt = now

	trade := types.Trade{
		TradeID:   uuid.New().String(),
		OrderID:   order.OrderID,
		Pair:      order.Pair,
		Side:      order.Side,
		Amount:    order.Amount,
		Price:     price,
		Fee:       order.Amount * price * feeRate,
		Timestamp: now,
	}

	log.Debug().
		Str("trade_id", trade.TradeID).
		Str("order_id", order.OrderID).
		Float64("price", trade.Price).
		Float64("amount", trade.Amount).
		Float64("fee", trade.Fee).
		Msg("order filled")

	return trade
}
