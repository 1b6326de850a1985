package app

import (
	"context"
	"fmt"
	"time"

	"colonial_vip/internal/domain"
)

type BenefitService struct {
	benefits domain.BenefitStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewBenefitService(bs domain.BenefitStore, cache domain.Cache, ttl time.Duration) *BenefitService {
	return &BenefitService{benefits: bs, cache: cache, cacheTTL: ttl}
}

func benefitsKey() string { return "benefits:all" }

func benefitsTierKey(tierID int64) string { return fmt.Sprintf("benefits:tier:%d", tierID) }

func (s *BenefitService) ListBenefits(ctx context.Context) ([]domain.Benefit, error) {
	key := benefitsKey()
	var out []domain.Benefit
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.benefits.ListBenefits(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *BenefitService) ListBenefitsByTier(ctx context.Context, tierID int64) ([]domain.Benefit, error) {
	key := benefitsTierKey(tierID)
	var out []domain.Benefit
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.benefits.ListBenefitsByTier(ctx, tierID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *BenefitService) CreateBenefit(ctx context.Context, b domain.Benefit) (domain.Benefit, error) {
	created, err := s.benefits.CreateBenefit(ctx, b)
	if err != nil {
		return domain.Benefit{}, err
	}
	s.invalidate(ctx, created.TierID)
	return created, nil
}

func (s *BenefitService) UpdateBenefit(ctx context.Context, id int64, upd domain.BenefitUpdate) (domain.Benefit, error) {
	updated, err := s.benefits.UpdateBenefit(ctx, id, upd)
	if err != nil {
		return domain.Benefit{}, err
	}
	s.invalidate(ctx, updated.TierID)
	return updated, nil
}

func (s *BenefitService) DeleteBenefit(ctx context.Context, id int64) (domain.Benefit, error) {
	deleted, err := s.benefits.DeleteBenefit(ctx, id)
	if err != nil {
		return domain.Benefit{}, err
	}
	s.invalidate(ctx, deleted.TierID)
	return deleted, nil
}

func (s *BenefitService) invalidate(ctx context.Context, tierID int64) {
	_ = s.cache.Del(ctx, benefitsKey())
	_ = s.cache.Del(ctx, benefitsTierKey(tierID))
}
