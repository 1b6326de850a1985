package app

import (
	"fmt"

	"colonial_vip/internal/domain"
)

// ResolveTier picks the tier with the largest requirement satisfied by
// totalPoints. Tiers must arrive sorted ascending by PointsRequirement
// (the catalog contract). A balance below every requirement falls back
// to the first tier, so every customer always holds exactly one tier.
// Pure and deterministic; on a malformed catalog with duplicate
// requirements the earlier entry wins.
func ResolveTier(totalPoints int64, tiers []domain.Tier) (domain.Tier, error) {
	if len(tiers) == 0 {
		return domain.Tier{}, domain.ErrNoTiersConfigured
	}
	best := tiers[0]
	for _, t := range tiers[1:] {
		if totalPoints >= t.PointsRequirement && t.PointsRequirement > best.PointsRequirement {
			best = t
		}
	}
	return best, nil
}

// ValidateTiers checks the catalog invariant: non-empty and strictly
// increasing requirements. Run at catalog load points so a broken
// configuration is surfaced instead of silently resolved around.
func ValidateTiers(tiers []domain.Tier) error {
	if len(tiers) == 0 {
		return domain.ErrNoTiersConfigured
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].PointsRequirement <= tiers[i-1].PointsRequirement {
			return fmt.Errorf("tier catalog not strictly increasing: %q (%d) after %q (%d)",
				tiers[i].Name, tiers[i].PointsRequirement,
				tiers[i-1].Name, tiers[i-1].PointsRequirement)
		}
	}
	return nil
}
