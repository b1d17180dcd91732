package trading

import (
	"errors"
	"strconv"
	"time"

	"github.com/cryptovault/trading-api/internal/auth"
	"github.com/cryptovault/trading-api/internal/engine"
	"github.com/cryptovault/trading-api/internal/types"
	"github.com/cryptovault/trading-api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// maxBookDepth caps the depth query parameter on the order book endpoint.
const maxBookDepth = 50

// Service exposes the trading engine to the transport layer and mirrors
// placements and fills into the audit journal. The engine is authoritative;
// journal writes are best-effort and never fail a request.
type Service struct {
	engine *engine.Engine
	db     *Database
}

// NewService creates a trading service around the engine. The database is
// optional; with a nil connection the journal is disabled.
func NewService(eng *engine.Engine, gormDB *gorm.DB) *Service {
	svc := &Service{engine: eng}
	if gormDB != nil {
		svc.db = NewDatabase(gormDB)
	}
	return svc
}

// PlaceOrder places an order for the wallet with idempotency support: a
// replayed idempotency key returns the originally placed order instead of
// creating a new one.
func (s *Service) PlaceOrder(walletID string, req types.PlaceOrderRequest, idempotencyKey string) (types.Order, error) {
	if s.db != nil {
		record, err := s.db.GetIdempotencyRecord(idempotencyKey)
		if err == nil && record.ResourceID != "" && record.ExpiresAt.After(time.Now()) {
			if existing, err := s.engine.GetOrder(record.ResourceID); err == nil {
				return existing, nil
			}
		}
	}

	order, trade := s.engine.PlaceOrder(engine.PlaceOrderParams{
		WalletID: walletID,
		Pair:     req.Pair,
		Type:     req.Type,
		Side:     req.Side,
		Amount:   req.Amount,
		Price:    req.Price,
	})

	if s.db != nil {
		if err := s.db.RecordPlacement(order, trade, idempotencyKey); err != nil {
			log.Error().Err(err).Str("order_id", order.OrderID).Msg("failed to journal order placement")
		}
	}

	return order, nil
}

// CancelOrder cancels a pending order owned by the wallet. Returns
// engine.ErrOrderNotFound when the order does not exist or belongs to a
// different wallet, and false when the order exists but is not cancellable.
func (s *Service) CancelOrder(walletID, orderID string) (bool, error) {
	order, err := s.engine.GetOrder(orderID)
	if err != nil || order.WalletID != walletID {
		return false, engine.ErrOrderNotFound
	}

	cancelled := s.engine.CancelOrder(orderID)
	if cancelled && s.db != nil {
		updated, err := s.engine.GetOrder(orderID)
		if err == nil {
			if err := s.db.RecordCancellation(updated); err != nil {
				log.Error().Err(err).Str("order_id", orderID).Msg("failed to journal order cancellation")
			}
		}
	}

	return cancelled, nil
}

// GetOrder returns an order owned by the wallet.
func (s *Service) GetOrder(walletID, orderID string) (types.Order, error) {
	order, err := s.engine.GetOrder(orderID)
	if err != nil {
		return types.Order{}, err
	}
	if order.WalletID != walletID {
		return types.Order{}, engine.ErrOrderNotFound
	}
	return order, nil
}

// Orders returns the wallet's orders in placement order.
func (s *Service) Orders(walletID string) []types.Order {
	return s.engine.Orders(walletID)
}

// Trades returns the wallet's trade history.
func (s *Service) Trades(walletID string) []types.Trade {
	return s.engine.Trades(walletID)
}

// GinHandlers contains the HTTP handlers for trading, market data and
// portfolio endpoints.
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates the handler set for the trading service.
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

// PlaceOrderHandler handles POST /orders. Requires a valid JWT and an
// Idempotency-Key header. A rejected order is still a successful placement:
// the response carries the stored order with status "rejected".
func (h *GinHandlers) PlaceOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		idempotencyKey := c.GetHeader("Idempotency-Key")
		if idempotencyKey == "" {
			response.BadRequest(c, "Idempotency-Key header is required")
			return
		}

		walletID := walletFromContext(c)
		if walletID == "" {
			response.Unauthorized(c, "Invalid wallet ID in token")
			return
		}

		var req types.PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if !req.Type.Valid() {
			response.BadRequest(c, "Unknown order type")
			return
		}
		if !req.Side.Valid() {
			response.BadRequest(c, "Unknown order side")
			return
		}

		order, err := h.service.PlaceOrder(walletID, req, idempotencyKey)
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}

		response.Success(c, order)
	}
}

// CancelOrderHandler handles DELETE /orders/:order_id.
func (h *GinHandlers) CancelOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		walletID := walletFromContext(c)
		if walletID == "" {
			response.Unauthorized(c, "Invalid wallet ID in token")
			return
		}

		orderID := c.Param("order_id")
		cancelled, err := h.service.CancelOrder(walletID, orderID)
		if err != nil {
			response.NotFound(c, "Order not found")
			return
		}

		response.Success(c, types.CancelOrderResponse{
			OrderID:   orderID,
			Cancelled: cancelled,
		})
	}
}

// GetOrderHandler handles GET /orders/:order_id.
func (h *GinHandlers) GetOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		walletID := walletFromContext(c)
		if walletID == "" {
			response.Unauthorized(c, "Invalid wallet ID in token")
			return
		}

		order, err := h.service.GetOrder(walletID, c.Param("order_id"))
		if err != nil {
			response.NotFound(c, "Order not found")
			return
		}

		response.Success(c, order)
	}
}

// ListOrdersHandler handles GET /orders.
func (h *GinHandlers) ListOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		walletID := walletFromContext(c)
		if walletID == "" {
			response.Unauthorized(c, "Invalid wallet ID in token")
			return
		}

		orders := h.service.Orders(walletID)
		response.Success(c, types.OrderListResponse{Orders: orders, Count: len(orders)})
	}
}

// ListTradesHandler handles GET /trades.
func (h *GinHandlers) ListTradesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		walletID := walletFromContext(c)
		if walletID == "" {
			response.Unauthorized(c, "Invalid wallet ID in token")
			return
		}

		trades := h.service.Trades(walletID)
		response.Success(c, types.TradeListResponse{Trades: trades, Count: len(trades)})
	}
}

// TradingPairsHandler handles GET /market/pairs.
func (h *GinHandlers) TradingPairsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		pairs := h.service.engine.TradingPairs()
		response.Success(c, types.TradingPairListResponse{Pairs: pairs, Count: len(pairs)})
	}
}

// MarketDataHandler handles GET /market/data/:symbol.
func (h *GinHandlers) MarketDataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		md, err := h.service.engine.MarketData(c.Param("symbol"))
		if err != nil {
			response.NotFound(c, "Symbol not found")
			return
		}
		response.Success(c, md)
	}
}

// OrderBookHandler handles GET /market/orderbook/:base/:quote with an
// optional depth query parameter.
func (h *GinHandlers) OrderBookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		pair := c.Param("base") + "/" + c.Param("quote")

		depth := engine.DefaultBookDepth
		if raw := c.Query("depth"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 || parsed > maxBookDepth {
				response.BadRequest(c, "Invalid depth parameter")
				return
			}
			depth = parsed
		}

		book, err := h.service.engine.OrderBook(pair, depth)
		if err != nil {
			if errors.Is(err, engine.ErrSymbolNotFound) {
				response.NotFound(c, "Pair not found")
				return
			}
			response.InternalError(c, err.Error())
			return
		}

		response.Success(c, book)
	}
}

// PortfolioBalancesHandler handles GET /portfolio/balances.
func (h *GinHandlers) PortfolioBalancesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		walletID := walletFromContext(c)
		if walletID == "" {
			response.Unauthorized(c, "Invalid wallet ID in token")
			return
		}

		response.Success(c, types.PortfolioBalancesResponse{
			WalletID: walletID,
			Balances: h.service.engine.Balances(walletID),
		})
	}
}

// PortfolioValueHandler handles GET /portfolio/value.
func (h *GinHandlers) PortfolioValueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		walletID := walletFromContext(c)
		if walletID == "" {
			response.Unauthorized(c, "Invalid wallet ID in token")
			return
		}

		response.Success(c, types.PortfolioValueResponse{
			WalletID:   walletID,
			TotalValue: h.service.engine.PortfolioValue(walletID),
			Currency:   "USDT",
			Timestamp:  time.Now(),
		})
	}
}

// walletFromContext extracts the authenticated wallet from the JWT claims
// placed in the context by the auth middleware.
func walletFromContext(c *gin.Context) string {
	claims, exists := c.Get("claims")
	if !exists {
		return ""
	}
	return auth.GetWalletID(claims)
}
