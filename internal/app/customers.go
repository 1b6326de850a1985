package app

import (
	"context"
	"time"

	"colonial_vip/internal/domain"
)

// CustomerService covers member CRUD, search and statistics. Reads of
// single customers go through the cache; the recompute path in
// ReservationService invalidates the same key.
type CustomerService struct {
	customers domain.CustomerStore
	tiers     domain.TierCatalog
	cache     domain.Cache
	cacheTTL  time.Duration
}

func NewCustomerService(cs domain.CustomerStore, tc domain.TierCatalog, cache domain.Cache, ttl time.Duration) *CustomerService {
	return &CustomerService{customers: cs, tiers: tc, cache: cache, cacheTTL: ttl}
}

// CreateCustomer enrolls a member with zero points on the floor tier.
// The floor is whatever the catalog resolves for zero points, never a
// hardcoded tier id.
func (s *CustomerService) CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	tiers, err := s.tiers.ListTiers(ctx)
	if err != nil {
		return domain.Customer{}, err
	}
	floor, err := ResolveTier(0, tiers)
	if err != nil {
		return domain.Customer{}, err
	}
	c.Points = 0
	c.TierID = floor.ID
	return s.customers.CreateCustomer(ctx, c)
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	key := customerKey(id)
	var c domain.Customer
	if ok, _ := s.cache.Get(ctx, key, &c); ok {
		return c, nil
	}
	c, err := s.customers.GetCustomer(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	_ = s.cache.Set(ctx, key, c, int(s.cacheTTL.Seconds()))
	return c, nil
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.ListCustomers(ctx)
}

func (s *CustomerService) SearchCustomersByEmail(ctx context.Context, q string) ([]domain.Customer, error) {
	return s.customers.SearchCustomersByEmail(ctx, q)
}

func (s *CustomerService) UpdateCustomerProfile(ctx context.Context, id string, upd domain.CustomerUpdate) (domain.Customer, error) {
	c, err := s.customers.UpdateCustomerProfile(ctx, id, upd)
	if err != nil {
		return domain.Customer{}, err
	}
	_ = s.cache.Del(ctx, customerKey(id))
	return c, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.customers.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, customerKey(id))
	return nil
}

func (s *CustomerService) Statistics(ctx context.Context, f domain.StatsFilter) (domain.Statistics, error) {
	return s.customers.CustomerStatistics(ctx, f)
}

// ListCustomerIDs feeds the reconciler sweep.
func (s *CustomerService) ListCustomerIDs(ctx context.Context) ([]string, error) {
	cs, err := s.customers.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	return ids, nil
}
