package app_test

import (
	"context"
	"testing"
	"time"

	"colonial_vip/internal/app"
	"colonial_vip/internal/domain"
)

// ---- cache fake ----

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Customer:
		*d = v.(domain.Customer)
	case *[]domain.Benefit:
		*d = v.([]domain.Benefit)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

// ---- tests ----

func TestCreateCustomer_EnrollsOnFloorTier(t *testing.T) {
	f := newFakeStore(catalog())
	svc := app.NewCustomerService(f, f, &fakeCache{}, 10*time.Minute)

	c, err := svc.CreateCustomer(context.Background(), domain.Customer{ID: "c9", Email: "c9@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Points != 0 || c.TierID != 1 {
		t.Fatalf("expected 0 points on Bronze, got points=%d tier=%d", c.Points, c.TierID)
	}
}

func TestCreateCustomer_EmptyCatalog(t *testing.T) {
	f := newFakeStore(nil)
	svc := app.NewCustomerService(f, f, &fakeCache{}, 10*time.Minute)

	if _, err := svc.CreateCustomer(context.Background(), domain.Customer{ID: "c9", Email: "x@example.com"}); err == nil {
		t.Fatal("expected error for empty catalog")
	}
	if len(f.customers) != 0 {
		t.Fatal("customer created despite empty catalog")
	}
}

func TestGetCustomer_CacheMissThenHit(t *testing.T) {
	f := newFakeStore(catalog(), "c1")
	cache := &fakeCache{}
	svc := app.NewCustomerService(f, f, cache, 10*time.Minute)
	ctx := context.Background()

	c, err := svc.GetCustomer(ctx, "c1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if c.ID != "c1" {
		t.Fatalf("unexpected customer: %+v", c)
	}

	// Mutate the store to prove the second read is served from cache.
	cc := f.customers["c1"]
	cc.Email = "SHOULD NOT SEE THIS"
	f.customers["c1"] = cc

	c2, err := svc.GetCustomer(ctx, "c1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if c2.Email != "c1@example.com" {
		t.Fatalf("expected cached email, got %s", c2.Email)
	}
}

func TestUpdateCustomerProfile_InvalidatesCache(t *testing.T) {
	f := newFakeStore(catalog(), "c1")
	cache := &fakeCache{}
	svc := app.NewCustomerService(f, f, cache, 10*time.Minute)
	ctx := context.Background()

	if _, err := svc.GetCustomer(ctx, "c1"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	name := "Ana"
	if _, err := svc.UpdateCustomerProfile(ctx, "c1", domain.CustomerUpdate{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	c, err := svc.GetCustomer(ctx, "c1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if c.Name == nil || *c.Name != "Ana" {
		t.Fatalf("stale customer served after profile update: %+v", c)
	}
}

func TestReservationMutation_EvictsCustomerCache(t *testing.T) {
	f := newFakeStore(catalog(), "c1")
	cache := &fakeCache{}
	customers := app.NewCustomerService(f, f, cache, 10*time.Minute)
	reservations := app.NewReservationService(f, f, f, cache)
	ctx := context.Background()

	if _, err := customers.GetCustomer(ctx, "c1"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if _, err := reservations.CreateReservation(ctx, domain.Reservation{CustomerID: "c1", Points: 120}); err != nil {
		t.Fatalf("create: %v", err)
	}
	c, err := customers.GetCustomer(ctx, "c1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if c.Points != 120 || c.TierID != 2 {
		t.Fatalf("stale cached customer after reservation mutation: %+v", c)
	}
}

func TestBenefitService_CacheAndInvalidation(t *testing.T) {
	cache := &fakeCache{}
	svc := app.NewBenefitService(&fakeBenefits{}, cache, 10*time.Minute)
	ctx := context.Background()

	if _, err := svc.ListBenefitsByTier(ctx, 2); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, ok := cache.store["benefits:tier:2"]; !ok {
		t.Fatal("benefit list not cached")
	}

	if _, err := svc.CreateBenefit(ctx, domain.Benefit{TierID: 2, Title: "Late checkout"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := cache.store["benefits:tier:2"]; ok {
		t.Fatal("benefit cache not invalidated by create")
	}
}

type fakeBenefits struct {
	nextID int64
	items  map[int64]domain.Benefit
}

func (f *fakeBenefits) init() {
	if f.items == nil {
		f.items = map[int64]domain.Benefit{}
	}
}

func (f *fakeBenefits) ListBenefits(ctx context.Context) ([]domain.Benefit, error) {
	f.init()
	out := make([]domain.Benefit, 0, len(f.items))
	for _, b := range f.items {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBenefits) ListBenefitsByTier(ctx context.Context, tierID int64) ([]domain.Benefit, error) {
	f.init()
	var out []domain.Benefit
	for _, b := range f.items {
		if b.TierID == tierID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBenefits) CreateBenefit(ctx context.Context, b domain.Benefit) (domain.Benefit, error) {
	f.init()
	f.nextID++
	b.ID = f.nextID
	f.items[b.ID] = b
	return b, nil
}

func (f *fakeBenefits) UpdateBenefit(ctx context.Context, id int64, upd domain.BenefitUpdate) (domain.Benefit, error) {
	f.init()
	b, ok := f.items[id]
	if !ok {
		return domain.Benefit{}, domain.ErrNotFound
	}
	if upd.Title != nil {
		b.Title = *upd.Title
	}
	if upd.Subtitle != nil {
		b.Subtitle = upd.Subtitle
	}
	f.items[id] = b
	return b, nil
}

func (f *fakeBenefits) DeleteBenefit(ctx context.Context, id int64) (domain.Benefit, error) {
	f.init()
	b, ok := f.items[id]
	if !ok {
		return domain.Benefit{}, domain.ErrNotFound
	}
	delete(f.items, id)
	return b, nil
}
