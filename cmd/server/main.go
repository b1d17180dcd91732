package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/cryptovault/trading-api/internal/auth"
	"github.com/cryptovault/trading-api/internal/config"
	"github.com/cryptovault/trading-api/internal/database"
	"github.com/cryptovault/trading-api/internal/engine"
	"github.com/cryptovault/trading-api/internal/stream"
	"github.com/cryptovault/trading-api/internal/trading"
	"github.com/cryptovault/trading-api/internal/types"
	"github.com/cryptovault/trading-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// main wires the trading engine, market ticker, websocket stream and HTTP
// transport together and runs until interrupted.
func main() {
	cfg := config.Load()
	configureLogging(cfg)

	// Audit journal
	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize database")
	}

	// Trading core
	eng := engine.New()

	// Market data stream
	hub := stream.NewHub()
	eng.OnTick(func(snapshot []types.MarketData) {
		hub.BroadcastSnapshot(snapshot)
	})

	// Services and handlers
	authService := auth.NewService(cfg.JWTSecret)
	authHandlers := auth.NewGinHandlers(authService)
	// Demo wallet credentials; a real deployment would read these from the
	// wallet identity store.
	authService.RegisterWalletCredentials("demo-wallet", "test-api-key", "test-api-secret")

	tradingService := trading.NewService(eng, db)
	tradingHandlers := trading.NewGinHandlers(tradingService)

	// Background activity: the market ticker is the only mutation source
	// outside request handling, and the hub fans ticks out to subscribers.
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	go hub.Run(bgCtx)
	go eng.StartTicker(bgCtx, cfg.TickInterval)

	// Router
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.RateLimit())
	setupRoutes(router, cfg, authHandlers, tradingHandlers, hub)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zlog.Info().Str("port", cfg.Port).Msg("starting trading API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("Shutting down server...")

	// Give outstanding operations 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	zlog.Info().Msg("Server exiting")
}

// configureLogging sets up zerolog: pretty console output outside
// production, debug level when DEBUG is set.
func configureLogging(cfg config.Config) {
	if !cfg.Production {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// setupRoutes configures all API endpoints:
// - Auth routes: public token issuance
// - Order, trade and portfolio routes: wallet-scoped, JWT protected
// - Market routes: public read-only market data
func setupRoutes(
	router *gin.Engine,
	cfg config.Config,
	authHandlers *auth.GinHandlers,
	tradingHandlers *trading.GinHandlers,
	hub *stream.Hub,
) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/token", authHandlers.GenerateTokenHandler())
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.JWTAuth(cfg.JWTSecret))
		{
			orders.POST("", tradingHandlers.PlaceOrderHandler())
			orders.GET("", tradingHandlers.ListOrdersHandler())
			orders.GET("/:order_id", tradingHandlers.GetOrderHandler())
			orders.DELETE("/:order_id", tradingHandlers.CancelOrderHandler())
		}

		// Trade history and portfolio routes
		wallet := v1.Group("")
		wallet.Use(middleware.JWTAuth(cfg.JWTSecret))
		{
			wallet.GET("/trades", tradingHandlers.ListTradesHandler())
			wallet.GET("/portfolio/balances", tradingHandlers.PortfolioBalancesHandler())
			wallet.GET("/portfolio/value", tradingHandlers.PortfolioValueHandler())
		}

		// Public market data routes
		market := v1.Group("/market")
		{
			market.GET("/pairs", tradingHandlers.TradingPairsHandler())
			market.GET("/data/:symbol", tradingHandlers.MarketDataHandler())
			market.GET("/orderbook/:base/:quote", tradingHandlers.OrderBookHandler())
			market.GET("/stream", hub.Handler())
		}
	}
}
