package model

import "time"

// PointsLot is a batch of points earned at one moment, carrying its own
// expiry clock. Amount only ever decreases; once it reaches zero the lot is
// consumed and excluded from balance computation forever.
type PointsLot struct {
	ID         int64
	CustomerID int64
	Amount     int64
	EarnedAt   time.Time
	ExpiresAt  time.Time
	Consumed   bool
}

// ValidAt reports whether the lot still contributes to the balance at the
// given moment.
func (l PointsLot) ValidAt(now time.Time) bool {
	return !l.Consumed && l.Amount > 0 && l.ExpiresAt.After(now)
}
