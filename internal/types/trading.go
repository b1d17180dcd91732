package types

import (
	"time"
)

// OrderType identifies how an order is priced and triggered.
type OrderType string

const (
	OrderTypeMarket     OrderType = "market"
	OrderTypeLimit      OrderType = "limit"
	OrderTypeStopLoss   OrderType = "stop_loss"
	OrderTypeTakeProfit OrderType = "take_profit"
)

// Valid reports whether the order type is part of the supported vocabulary.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeMarket, OrderTypeLimit, OrderTypeStopLoss, OrderTypeTakeProfit:
		return true
	}
	return false
}

// OrderSide is the direction of an order.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// Valid reports whether the side is part of the supported vocabulary.
func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

// OrderStatus tracks an order through its lifecycle.
// Transitions: pending -> filled | cancelled | rejected. Filled, cancelled
// and rejected are terminal. partially_filled is part of the wire vocabulary
// but the matching policy only produces full fills, so it is never set.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusRejected        OrderStatus = "rejected"
)

// Terminal reports whether the status permits no further transitions.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusCancelled, OrderStatusRejected:
		return true
	}
	return false
}

// TradingPair describes a tradable market. Pairs are immutable after the
// catalog is seeded.
type TradingPair struct {
	BaseAsset       string  `json:"base_asset"`
	QuoteAsset      string  `json:"quote_asset"`
	Symbol          string  `json:"symbol"`
	MinAmount       float64 `json:"min_amount"`
	MaxAmount       float64 `json:"max_amount"`
	PricePrecision  int     `json:"price_precision"`
	AmountPrecision int     `json:"amount_precision"`
	IsActive        bool    `json:"is_active"`
}

// Order is a buy/sell request against a trading pair. Invariant:
// RemainingAmount == Amount - FilledAmount at all times.
type Order struct {
	OrderID         string      `json:"order_id"`
	WalletID        string      `json:"wallet_id"`
	Pair            string      `json:"pair"`
	Type            OrderType   `json:"type"`
	Side            OrderSide   `json:"side"`
	Amount          float64     `json:"amount"`
	Price           float64     `json:"price"`
	FilledAmount    float64     `json:"filled_amount"`
	RemainingAmount float64     `json:"remaining_amount"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	ErrorMessage    string      `json:"error_message,omitempty"`
}

// Trade records a fill against exactly one order. Immutable once created.
type Trade struct {
	TradeID   string    `json:"trade_id"`
	OrderID   string    `json:"order_id"`
	Pair      string    `json:"pair"`
	Side      OrderSide `json:"side"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Fee       float64   `json:"fee"`
	Timestamp time.Time `json:"timestamp"`
}

// MarketData holds the current price and 24h statistics for one symbol.
type MarketData struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Change24h float64   `json:"change_24h"`
	Volume24h float64   `json:"volume_24h"`
	High24h   float64   `json:"high_24h"`
	Low24h    float64   `json:"low_24h"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderBookEntry is one synthetic depth level.
type OrderBookEntry struct {
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
	Total  float64 `json:"total"`
}

// OrderBook is a synthetic depth ladder derived from the current market
// price. It is illustrative only: there is no resting liquidity behind it,
// and it is recomputed on every query, never stored.
type OrderBook struct {
	Pair      string           `json:"pair"`
	Bids      []OrderBookEntry `json:"bids"`
	Asks      []OrderBookEntry `json:"asks"`
	Timestamp time.Time        `json:"timestamp"`
}
