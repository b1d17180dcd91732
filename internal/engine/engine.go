package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/cryptovault/trading-api/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Engine owns the mutable trading state: orders, trades, the pair catalog
// and the market data feed. All state is in-memory and lives for the
// lifetime of the process.
//
// Concurrency contract: every mutating operation (PlaceOrder, CancelOrder,
// Tick) takes the write lock so that a fill decision reads one atomic price
// snapshot and records the order/trade pair under the same critical section.
// Read-only queries take the read lock and return copies.
type Engine struct {
	mu sync.RWMutex

	pairs      map[string]types.TradingPair
	market     map[string]types.MarketData
	orders     []*types.Order
	ordersByID map[string]*types.Order
	trades     []types.Trade

	rng    *rand.Rand
	onTick func([]types.MarketData)
}

// New returns an engine seeded with the default pair catalog and market data.
func New() *Engine {
	e := &Engine{
		pairs:      make(map[string]types.TradingPair),
		market:     make(map[string]types.MarketData),
		ordersByID: make(map[string]*types.Order),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	e.seed()
	return e
}

// OnTick registers a listener invoked with a full market snapshot after
// every tick. Must be called before StartTicker.
func (e *Engine) OnTick(fn func([]types.MarketData)) {
	e.onTick = fn
}

// PlaceOrderParams carries the validated shape of an order request.
type PlaceOrderParams struct {
	WalletID string
	Pair     string
	Type     types.OrderType
	Side     types.OrderSide
	Amount   float64
	Price    float64
}

// PlaceOrder validates the request, evaluates it against the current market
// price and stores the resulting order. Rejected orders are stored too, so
// they stay queryable; an order ID is always assigned. The second return
// value is the trade produced by an immediate fill, or nil.
func (e *Engine) PlaceOrder(p PlaceOrderParams) (types.Order, *types.Trade) {
	now := time.Now()
	order := &types.Order{
		OrderID:         uuid.New().String(),
		WalletID:        p.WalletID,
		Pair:            p.Pair,
		Type:            p.Type,
		Side:            p.Side,
		Amount:          p.Amount,
		Price:           p.Price,
		FilledAmount:    0,
		RemainingAmount: p.Amount,
		Status:          types.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if p.Amount <= 0 {
		order.Status = types.OrderStatusRejected
		order.ErrorMessage = "Invalid amount"
	} else if p.Price <= 0 && p.Type != types.OrderTypeMarket {
		order.Status = types.OrderStatusRejected
		order.ErrorMessage = "Invalid price for limit order"
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var fillTrade *types.Trade
	if order.Status == types.OrderStatusPending {
		if trade, filled := e.evaluate(order); filled {
			e.trades = append(e.trades, trade)
			fillTrade = &trade
		}
	}

	e.orders = append(e.orders, order)
	e.ordersByID[order.OrderID] = order

	log.Debug().
		Str("order_id", order.OrderID).
		Str("wallet_id", order.WalletID).
		Str("pair", order.Pair).
		Str("status", string(order.Status)).
		Msg("order placed")

	return *order, fillTrade
}

// CancelOrder transitions a pending order to cancelled. It returns false
// without mutating anything if the order is unknown or already terminal.
func (e *Engine) CancelOrder(orderID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.ordersByID[orderID]
	if !ok || order.Status != types.OrderStatusPending {
		return false
	}

	order.Status = types.OrderStatusCancelled
	order.UpdatedAt = time.Now()

	log.Debug().Str("order_id", orderID).Msg("order cancelled")
	return true
}

// GetOrder returns the order with the given ID.
func (e *Engine) GetOrder(orderID string) (types.Order, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	order, ok := e.ordersByID[orderID]
	if !ok {
		return types.Order{}, ErrOrderNotFound
	}
	return *order, nil
}

// Orders returns the wallet's orders in insertion order.
func (e *Engine) Orders(walletID string) []types.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]types.Order, 0)
	for _, order := range e.orders {
		if order.WalletID == walletID {
			out = append(out, *order)
		}
	}
	return out
}

// Trades returns the trades belonging to the wallet's orders, in the order
// they were recorded.
func (e *Engine) Trades(walletID string) []types.Trade {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]types.Trade, 0)
	for _, trade := range e.trades {
		if e.orderOwner(trade) == walletID {
			out = append(out, trade)
		}
	}
	return out
}

// orderOwner resolves the wallet that placed the trade's order. A trade
// without an order violates the ledger's append-only contract, so this is a
// hard failure rather than a recoverable error. Callers must hold the lock.
func (e *Engine) orderOwner(trade types.Trade) string {
	order, ok := e.ordersByID[trade.OrderID]
	if !ok {
		panic(fmt.Sprintf("engine: trade %s references unknown order %s", trade.TradeID, trade.OrderID))
	}
	return order.WalletID
}
