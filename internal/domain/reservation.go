package domain

import "time"

// Reservation is one stay record. Points is what the stay earns toward
// the owner's loyalty balance; a reservation created without points
// counts as zero.
type Reservation struct {
	ID           int64
	CustomerID   string
	RoomTypeID   *int64
	Nights       int
	CheckinDate  *time.Time
	CheckoutDate *time.Time
	Points       int64
}

// ReservationUpdate carries optional fields; nil means "leave as is".
// CustomerID is immutable after creation, so it is not here.
type ReservationUpdate struct {
	RoomTypeID   *int64
	Nights       *int
	CheckinDate  *time.Time
	CheckoutDate *time.Time
	Points       *int64
}
