package trading

import (
	"time"

	"gorm.io/gorm"
)

// OrderRecord is the persisted audit copy of an engine order. The in-memory
// engine stays authoritative; these rows exist so placed orders survive for
// offline inspection.
type OrderRecord struct {
	gorm.Model      `json:"-"`
	OrderID         string    `gorm:"uniqueIndex" json:"order_id"`
	WalletID        string    `gorm:"index" json:"wallet_id"`
	Pair            string    `json:"pair"`
	Type            string    `json:"type"`
	Side            string    `json:"side"`
	Amount          float64   `json:"amount"`
	Price           float64   `json:"price"`
	FilledAmount    float64   `json:"filled_amount"`
	RemainingAmount float64   `json:"remaining_amount"`
	Status          string    `json:"status"`
	ErrorMessage    string    `json:"error_message"`
	PlacedAt        time.Time `json:"placed_at"`
}

// TradeRecord is the persisted audit copy of an engine trade.
type TradeRecord struct {
	gorm.Model `json:"-"`
	TradeID    string    `gorm:"uniqueIndex" json:"trade_id"`
	OrderID    string    `gorm:"index" json:"order_id"`
	Pair       string    `json:"pair"`
	Side       string    `json:"side"`
	Amount     float64   `json:"amount"`
	Price      float64   `json:"price"`
	Fee        float64   `json:"fee"`
	ExecutedAt time.Time `json:"executed_at"`
}

// IdempotencyRecord ties an Idempotency-Key header to the order it produced
// so replayed placement requests return the original order.
type IdempotencyRecord struct {
	gorm.Model
	IdempotencyKey string    `gorm:"uniqueIndex" json:"idempotency_key"`
	ResourceID     string    `json:"resource_id"`
	ResourceType   string    `json:"resource_type"`
	ExpiresAt      time.Time `json:"expires_at"`
}
