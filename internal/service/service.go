package service

import (
	"context"
	"time"
)

// TxManager runs a function inside a single storage transaction.
// Implemented by the transaction manager wired in the app layer.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// todayRange returns [start of today, start of tomorrow) in local time
func todayRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
