package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cryptovault/trading-api/internal/types"
)

const (
	minOrders     = 20
	maxOrders     = 120
	numWorkers    = 5
	serverAddress = "http://localhost:8080"
)

var (
	pairs = []string{"BTC/USDT", "ETH/USDT", "ADA/USDT", "SOL/USDT"}
	sides = []types.OrderSide{types.OrderSideBuy, types.OrderSideSell}
)

// init configures the logger for the simulation with pretty printing and timestamp
func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// routeStats tracks performance statistics for an API endpoint
type routeStats struct {
	name      string
	durations []time.Duration
	failures  int
	mu        sync.Mutex
}

func (rs *routeStats) record(d time.Duration, failed bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.durations = append(rs.durations, d)
	if failed {
		rs.failures++
	}
}

// calculate computes min, max, mean, median, p95 and p99 durations.
func (rs *routeStats) calculate() (min, max, mean, median, p95, p99 time.Duration) {
	if len(rs.durations) == 0 {
		return 0, 0, 0, 0, 0, 0
	}

	sort.Slice(rs.durations, func(i, j int) bool {
		return rs.durations[i] < rs.durations[j]
	})

	min = rs.durations[0]
	max = rs.durations[len(rs.durations)-1]

	var sum time.Duration
	for _, d := range rs.durations {
		sum += d
	}
	mean = sum / time.Duration(len(rs.durations))
	median = rs.durations[len(rs.durations)/2]

	p95idx := int(math.Ceil(float64(len(rs.durations))*0.95)) - 1
	p99idx := int(math.Ceil(float64(len(rs.durations))*0.99)) - 1
	p95 = rs.durations[p95idx]
	p99 = rs.durations[p99idx]

	return
}

// envelope mirrors the API's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// simulationClient handles HTTP communication with the trading API
type simulationClient struct {
	baseURL   string
	authToken string
	client    *http.Client
	stats     map[string]*routeStats
}

func newSimulationClient() (*simulationClient, error) {
	sc := &simulationClient{
		baseURL: serverAddress,
		client:  &http.Client{Timeout: 10 * time.Second},
		stats: map[string]*routeStats{
			"auth":      {name: "Authentication"},
			"place":     {name: "Place Order"},
			"cancel":    {name: "Cancel Order"},
			"orders":    {name: "List Orders"},
			"orderbook": {name: "Order Book"},
			"portfolio": {name: "Portfolio Value"},
		},
	}

	if err := sc.authenticate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *simulationClient) authenticate() error {
	body, _ := json.Marshal(map[string]string{
		"api_key":    "test-api-key",
		"api_secret": "test-api-secret",
	})

	start := time.Now()
	resp, err := sc.client.Post(sc.baseURL+"/api/v1/auth/token", "application/json", bytes.NewReader(body))
	sc.stats["auth"].record(time.Since(start), err != nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return err
	}

	var token struct {
		Token string `json:"jwt_token"`
	}
	if err := json.Unmarshal(env.Data, &token); err != nil {
		return err
	}
	if token.Token == "" {
		return fmt.Errorf("authentication failed: empty token")
	}

	sc.authToken = token.Token
	return nil
}

func (sc *simulationClient) do(method, path, statKey string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, sc.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sc.authToken)
	if method == http.MethodPost {
		req.Header.Set("Idempotency-Key", uuid.New().String())
	}

	start := time.Now()
	resp, err := sc.client.Do(req)
	failed := err != nil || (resp != nil && resp.StatusCode >= 500)
	sc.stats[statKey].record(time.Since(start), failed)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return err
	}
	if env.Data == nil {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return json.Unmarshal(env.Data, out)
}

func (sc *simulationClient) placeRandomOrder() (*types.Order, error) {
	pair := pairs[rand.Intn(len(pairs))]
	side := sides[rand.Intn(len(sides))]

	orderType := types.OrderTypeMarket
	price := 0.0
	if rand.Float64() < 0.5 {
		orderType = types.OrderTypeLimit
		// A wide random band around typical prices keeps a mix of
		// crossing and resting limit orders.
		price = randomPriceFor(pair) * (0.9 + rand.Float64()*0.2)
	}

	req := types.PlaceOrderRequest{
		Pair:   pair,
		Type:   orderType,
		Side:   side,
		Amount: 0.1 + rand.Float64()*2.0,
		Price:  price,
	}

	var order types.Order
	if err := sc.do(http.MethodPost, "/api/v1/orders", "place", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// randomPriceFor returns a rough reference price per pair so limit orders
// land near the seeded market levels.
func randomPriceFor(pair string) float64 {
	switch pair {
	case "BTC/USDT":
		return 43250.0
	case "ETH/USDT":
		return 2850.0
	case "ADA/USDT":
		return 0.45
	default:
		return 100.0
	}
}

func (sc *simulationClient) cancelOrder(orderID string) {
	var out types.CancelOrderResponse
	_ = sc.do(http.MethodDelete, "/api/v1/orders/"+orderID, "cancel", nil, &out)
}

func (sc *simulationClient) listOrders() {
	var out types.OrderListResponse
	_ = sc.do(http.MethodGet, "/api/v1/orders", "orders", nil, &out)
}

func (sc *simulationClient) getOrderBook(pair string) {
	var out types.OrderBook
	_ = sc.do(http.MethodGet, "/api/v1/market/orderbook/"+pair, "orderbook", nil, &out)
}

func (sc *simulationClient) getPortfolioValue() (float64, error) {
	var out types.PortfolioValueResponse
	if err := sc.do(http.MethodGet, "/api/v1/portfolio/value", "portfolio", nil, &out); err != nil {
		return 0, err
	}
	return out.TotalValue, nil
}

func main() {
	log.Info().Msg("starting trading API simulation")

	sc, err := newSimulationClient()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize simulation client")
	}

	totalOrders := minOrders + rand.Intn(maxOrders-minOrders+1)
	log.Info().Int("orders", totalOrders).Int("workers", numWorkers).Msg("placing orders")

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				order, err := sc.placeRandomOrder()
				if err != nil {
					log.Warn().Err(err).Msg("order placement failed")
					continue
				}

				// Cancel a third of the orders that are still resting.
				if order.Status == types.OrderStatusPending && rand.Float64() < 0.33 {
					sc.cancelOrder(order.OrderID)
				}

				if rand.Float64() < 0.2 {
					sc.getOrderBook(pairs[rand.Intn(len(pairs))])
				}
			}
		}()
	}

	for i := 0; i < totalOrders; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sc.listOrders()

	value, err := sc.getPortfolioValue()
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch portfolio value")
	} else {
		log.Info().Float64("portfolio_value_usdt", value).Msg("simulation complete")
	}

	printReport(sc)
}

func printReport(sc *simulationClient) {
	fmt.Println("\nRoute performance:")
	fmt.Printf("%-18s %8s %8s %10s %10s %10s %10s %10s %9s\n",
		"Route", "Calls", "Fail", "Min", "Max", "Mean", "Median", "P95", "P99")

	keys := make([]string, 0, len(sc.stats))
	for k := range sc.stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		rs := sc.stats[k]
		if len(rs.durations) == 0 {
			continue
		}
		min, max, mean, median, p95, p99 := rs.calculate()
		fmt.Printf("%-18s %8d %8d %10s %10s %10s %10s %10s %9s\n",
			rs.name, len(rs.durations), rs.failures, min, max, mean, median, p95, p99)
	}
}
