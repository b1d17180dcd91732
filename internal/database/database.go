package database

import (
	"github.com/cryptovault/trading-api/internal/trading"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase opens the SQLite audit journal at path and migrates its
// schema. Pass ":memory:" for an ephemeral database in tests.
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&trading.OrderRecord{},
		&trading.TradeRecord{},
		&trading.IdempotencyRecord{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
