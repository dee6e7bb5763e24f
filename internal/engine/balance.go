package engine

import (
	"time"

	"github.com/loyaltyhub/rewardmart/internal/domain/model"
)

// ValidBalance is the single authoritative balance computation: the sum of
// lot amounts over non-consumed, non-expired lots. Every cached balance in
// the system comes from here.
func ValidBalance(lots []model.PointsLot, now time.Time) int64 {
	var sum int64
	for _, lot := range lots {
		if lot.ValidAt(now) {
			sum += lot.Amount
		}
	}
	return sum
}

// ExpiringWithin sums the points of valid lots whose expiry falls inside
// (now, now+window].
func ExpiringWithin(lots []model.PointsLot, now time.Time, window time.Duration) int64 {
	deadline := now.Add(window)
	var sum int64
	for _, lot := range lots {
		if lot.ValidAt(now) && !lot.ExpiresAt.After(deadline) {
			sum += lot.Amount
		}
	}
	return sum
}
