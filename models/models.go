package models

import (
	"time"

	"gorm.io/gorm"
)

// DBBar caches fetched daily bars so repeated refreshes of the same ticker
// don't re-download a year of history. Only raw market data is cached;
// computed results are never persisted.
type DBBar struct {
	gorm.Model
	Symbol    string    `gorm:"uniqueIndex:idx_symbol_timestamp"`
	Timestamp time.Time `gorm:"uniqueIndex:idx_symbol_timestamp"`
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	VWAP      float64
}

func (DBBar) TableName() string {
	return "bars"
}
