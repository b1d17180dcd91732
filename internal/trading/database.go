package trading

import (
	"errors"
	"time"

	"github.com/cryptovault/trading-api/internal/types"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// RecordPlacement journals a newly placed order, its fill trade (if any)
// and the idempotency record in one transaction.
func (d *Database) RecordPlacement(order types.Order, trade *types.Trade, idempotencyKey string) error {
	tx := d.db.Begin()
	if err := tx.Error; err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(orderRecord(order)).Error; err != nil {
		tx.Rollback()
		return err
	}

	if trade != nil {
		if err := tx.Create(tradeRecord(*trade)).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	record := IdempotencyRecord{
		IdempotencyKey: idempotencyKey,
		ResourceID:     order.OrderID,
		ResourceType:   "order",
		ExpiresAt:      time.Now().Add(24 * time.Hour),
	}
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// RecordCancellation updates the journalled order's status after a
// successful cancel.
func (d *Database) RecordCancellation(order types.Order) error {
	return d.db.Model(&OrderRecord{}).
		Where("order_id = ?", order.OrderID).
		Updates(map[string]interface{}{
			"status":     string(order.Status),
			"updated_at": order.UpdatedAt,
		}).Error
}

// GetIdempotencyRecord retrieves an idempotency record by key. A missing
// record is not an error; the caller checks for the zero value.
func (d *Database) GetIdempotencyRecord(key string) (*IdempotencyRecord, error) {
	var record IdempotencyRecord
	if err := d.db.Where("idempotency_key = ?", key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &record, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetOrderRecord retrieves a journalled order by its engine order ID.
func (d *Database) GetOrderRecord(orderID string) (*OrderRecord, error) {
	var record OrderRecord
	if err := d.db.Where("order_id = ?", orderID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func orderRecord(order types.Order) *OrderRecord {
	return &OrderRecord{
		OrderID:         order.OrderID,
		WalletID:        order.WalletID,
		Pair:            order.Pair,
		Type:            string(order.Type),
		Side:            string(order.Side),
		Amount:          order.Amount,
		Price:           order.Price,
		FilledAmount:    order.FilledAmount,
		RemainingAmount: order.RemainingAmount,
		Status:          string(order.Status),
		ErrorMessage:    order.ErrorMessage,
		PlacedAt:        order.CreatedAt,
	}
}

func tradeRecord(trade types.Trade) *TradeRecord {
	return &TradeRecord{
		TradeID:    trade.TradeID,
		OrderID:    trade.OrderID,
		Pair:       trade.Pair,
		Side:       string(trade.Side),
		Amount:     trade.Amount,
		Price:      trade.Price,
		Fee:        trade.Fee,
		ExecutedAt: trade.Timestamp,
	}
}
