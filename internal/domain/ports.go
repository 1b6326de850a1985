package domain

import "context"

// TierCatalog is the read-only view of the configured loyalty levels.
type TierCatalog interface {
	// ListTiers returns all tiers ordered ascending by PointsRequirement.
	ListTiers(ctx context.Context) ([]Tier, error)
}

type ReservationStore interface {
	CreateReservation(ctx context.Context, r Reservation) (Reservation, error)
	GetReservation(ctx context.Context, id int64) (Reservation, error)
	ListReservations(ctx context.Context) ([]Reservation, error)
	ListReservationsByCustomer(ctx context.Context, customerID string) ([]Reservation, error)
	UpdateReservation(ctx context.Context, id int64, upd ReservationUpdate) (Reservation, error)
	DeleteReservation(ctx context.Context, id int64) (Reservation, error)

	// SumReservationPoints is the points ledger: SUM(points) over the
	// customer's reservations, 0 when there are none.
	SumReservationPoints(ctx context.Context, customerID string) (int64, error)
}

type CustomerStore interface {
	CreateCustomer(ctx context.Context, c Customer) (Customer, error)
	GetCustomer(ctx context.Context, id string) (Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	SearchCustomersByEmail(ctx context.Context, q string) ([]Customer, error)
	UpdateCustomerProfile(ctx context.Context, id string, upd CustomerUpdate) (Customer, error)

	// UpdateCustomerLoyalty writes the recomputed balance and tier in
	// one statement (step 4 of the mutation sequence).
	UpdateCustomerLoyalty(ctx context.Context, id string, points, tierID int64) error

	DeleteCustomer(ctx context.Context, id string) error
	CustomerStatistics(ctx context.Context, f StatsFilter) (Statistics, error)
}

type BenefitStore interface {
	ListBenefits(ctx context.Context) ([]Benefit, error)
	ListBenefitsByTier(ctx context.Context, tierID int64) ([]Benefit, error)
	CreateBenefit(ctx context.Context, b Benefit) (Benefit, error)
	UpdateBenefit(ctx context.Context, id int64, upd BenefitUpdate) (Benefit, error)
	DeleteBenefit(ctx context.Context, id int64) (Benefit, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
