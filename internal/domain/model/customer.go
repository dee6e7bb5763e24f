package model

import "time"

// CustomerAccount is a customer of one merchant's loyalty program together
// with the ordered sequence of point lots (insertion order equals earn
// order). PointsBalance is a cache derived from the lots; it is recomputed
// on every ledger mutation and never trusted on its own.
type CustomerAccount struct {
	ID            int64
	MerchantID    int64
	Name          string
	Email         string
	Tier          *string
	PointsBalance int64
	Lots          []PointsLot
	CreatedAt     time.Time
}

// ExpiringPoints reports how many of a customer's points expire within a
// report window.
type ExpiringPoints struct {
	CustomerID     int64
	Name           string
	Email          string
	ExpiringPoints int64
}

// BalanceDetails is a point-in-time view of a customer's ledger with the
// balance recomputed from the valid lots at read time.
type BalanceDetails struct {
	Balance      int64
	Tier         *string
	ExpiringSoon int64
	Lots         []PointsLot
}
