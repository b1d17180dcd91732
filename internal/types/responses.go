package types

import "time"

// PlaceOrderRequest is the body of POST /orders. The wallet identity comes
// from the auth token, never the request body.
type PlaceOrderRequest struct {
	Pair   string    `json:"pair" binding:"required"`
	Type   OrderType `json:"type" binding:"required"`
	Side   OrderSide `json:"side" binding:"required"`
	Amount float64   `json:"amount"`
	Price  float64   `json:"price"`
}

// CancelOrderResponse reports the outcome of a cancellation attempt.
type CancelOrderResponse struct {
	OrderID   string `json:"order_id"`
	Cancelled bool   `json:"cancelled"`
}

// OrderListResponse wraps a wallet's orders.
type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Count  int     `json:"count"`
}

// TradeListResponse wraps a wallet's trades.
type TradeListResponse struct {
	Trades []Trade `json:"trades"`
	Count  int     `json:"count"`
}

// TradingPairListResponse wraps the pair catalog.
type TradingPairListResponse struct {
	Pairs []TradingPair `json:"pairs"`
	Count int           `json:"count"`
}

// PortfolioBalancesResponse maps asset symbols to net holdings.
type PortfolioBalancesResponse struct {
	WalletID string             `json:"wallet_id"`
	Balances map[string]float64 `json:"balances"`
}

// PortfolioValueResponse is the portfolio converted to quote-currency units.
type PortfolioValueResponse struct {
	WalletID   string    `json:"wallet_id"`
	TotalValue float64   `json:"total_value"`
	Currency   string    `json:"currency"`
	Timestamp  time.Time `json:"timestamp"`
}
