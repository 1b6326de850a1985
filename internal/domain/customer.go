package domain

import "time"

// Customer is one program member. ID is issued by the identity provider,
// not by us. Points is the denormalized sum of the customer's reservation
// points; TierID must always match what ResolveTier computes from Points.
type Customer struct {
	ID        string
	Email     string
	Name      *string
	Country   *string
	Points    int64
	TierID    int64
	CreatedAt time.Time
}

// CustomerUpdate carries optional profile fields; nil means "leave as is".
// Points/TierID are deliberately absent: those move only through the
// reservation recompute path.
type CustomerUpdate struct {
	Email   *string
	Name    *string
	Country *string
}
