package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"colonial_vip/internal/adapters/observability"
	"colonial_vip/internal/domain"
)

// ReservationService runs every reservation mutation through the same
// sequence: apply the mutation, re-sum the owner's reservation points,
// resolve the tier, persist both onto the customer. The sequence is
// serialized per customer via customerLocks.
type ReservationService struct {
	reservations domain.ReservationStore
	customers    domain.CustomerStore
	tiers        domain.TierCatalog
	cache        domain.Cache
	locks        *customerLocks
}

func NewReservationService(rs domain.ReservationStore, cs domain.CustomerStore, tc domain.TierCatalog, cache domain.Cache) *ReservationService {
	return &ReservationService{
		reservations: rs,
		customers:    cs,
		tiers:        tc,
		cache:        cache,
		locks:        newCustomerLocks(),
	}
}

// loadCatalog reads the tier catalog up front so an empty or broken
// configuration aborts before any reservation row is touched.
func (s *ReservationService) loadCatalog(ctx context.Context) ([]domain.Tier, error) {
	tiers, err := s.tiers.ListTiers(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateTiers(tiers); err != nil {
		if err == domain.ErrNoTiersConfigured {
			return nil, err
		}
		// Duplicate/misordered requirements: ResolveTier stays
		// deterministic, but the catalog needs an admin fix.
		log.Warn().Err(err).Msg("tier catalog failed validation")
	}
	return tiers, nil
}

func (s *ReservationService) CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	tiers, err := s.loadCatalog(ctx)
	if err != nil {
		return domain.Reservation{}, err
	}

	s.locks.lock(r.CustomerID)
	defer s.locks.unlock(r.CustomerID)

	// The owner must exist before we write anything on its behalf.
	if _, err := s.customers.GetCustomer(ctx, r.CustomerID); err != nil {
		return domain.Reservation{}, err
	}

	created, err := s.reservations.CreateReservation(ctx, r)
	if err != nil {
		return domain.Reservation{}, err
	}

	if err := s.recompute(ctx, r.CustomerID, tiers); err != nil {
		return created, &domain.PartialError{CustomerID: r.CustomerID, ReservationID: created.ID, Err: err}
	}
	return created, nil
}

func (s *ReservationService) UpdateReservation(ctx context.Context, id int64, upd domain.ReservationUpdate) (domain.Reservation, error) {
	tiers, err := s.loadCatalog(ctx)
	if err != nil {
		return domain.Reservation{}, err
	}

	// Read before mutating: the owning customer reference must be
	// captured from the pre-mutation record (CustomerID is immutable,
	// so the pre-read owner is the post-update owner too).
	pre, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}

	s.locks.lock(pre.CustomerID)
	defer s.locks.unlock(pre.CustomerID)

	updated, err := s.reservations.UpdateReservation(ctx, id, upd)
	if err != nil {
		return domain.Reservation{}, err
	}

	if err := s.recompute(ctx, pre.CustomerID, tiers); err != nil {
		return updated, &domain.PartialError{CustomerID: pre.CustomerID, ReservationID: id, Err: err}
	}
	return updated, nil
}

func (s *ReservationService) DeleteReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	tiers, err := s.loadCatalog(ctx)
	if err != nil {
		return domain.Reservation{}, err
	}

	pre, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}

	s.locks.lock(pre.CustomerID)
	defer s.locks.unlock(pre.CustomerID)

	deleted, err := s.reservations.DeleteReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}

	if err := s.recompute(ctx, pre.CustomerID, tiers); err != nil {
		return deleted, &domain.PartialError{CustomerID: pre.CustomerID, ReservationID: id, Err: err}
	}
	return deleted, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	return s.reservations.GetReservation(ctx, id)
}

func (s *ReservationService) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	return s.reservations.ListReservations(ctx)
}

func (s *ReservationService) ListReservationsByCustomer(ctx context.Context, customerID string) ([]domain.Reservation, error) {
	return s.reservations.ListReservationsByCustomer(ctx, customerID)
}

// ReconcileCustomer re-runs recompute+persist for one customer. This is
// the repair path for PartialError staleness; cmd/reconciler sweeps it
// across the whole member base.
func (s *ReservationService) ReconcileCustomer(ctx context.Context, customerID string) error {
	tiers, err := s.loadCatalog(ctx)
	if err != nil {
		return err
	}
	s.locks.lock(customerID)
	defer s.locks.unlock(customerID)
	return s.recompute(ctx, customerID, tiers)
}

// recompute is steps 2-4 of the mutation sequence: ledger sum, tier
// resolution, customer persist. Caller holds the customer lock.
func (s *ReservationService) recompute(ctx context.Context, customerID string, tiers []domain.Tier) error {
	total, err := s.reservations.SumReservationPoints(ctx, customerID)
	if err != nil {
		observability.ObserveRecompute("error")
		return err
	}
	tier, err := ResolveTier(total, tiers)
	if err != nil {
		observability.ObserveRecompute("error")
		return err
	}
	if err := s.customers.UpdateCustomerLoyalty(ctx, customerID, total, tier.ID); err != nil {
		observability.ObserveRecompute("error")
		return err
	}
	observability.ObserveRecompute("ok")
	observability.ObserveTierAssignment(tier.Name)

	if s.cache != nil {
		_ = s.cache.Del(ctx, customerKey(customerID))
	}

	log.Info().
		Str("customer", customerID).
		Int64("points", total).
		Int64("tier_id", tier.ID).
		Str("tier", tier.Name).
		Msg("loyalty recomputed")
	return nil
}

func customerKey(id string) string { return fmt.Sprintf("customer:%s", id) }
