package app_test

import (
	"errors"
	"testing"

	"colonial_vip/internal/app"
	"colonial_vip/internal/domain"
)

func catalog() []domain.Tier {
	return []domain.Tier{
		{ID: 1, Name: "Bronze", PointsRequirement: 0},
		{ID: 2, Name: "Silver", PointsRequirement: 100},
		{ID: 3, Name: "Gold", PointsRequirement: 500},
	}
}

func TestResolveTier_PicksLargestSatisfiedRequirement(t *testing.T) {
	cases := []struct {
		name   string
		points int64
		want   string
	}{
		{"below first paid tier", 90, "Bronze"},
		{"just over silver", 110, "Silver"},
		{"zero points", 0, "Bronze"},
		{"exactly at boundary", 100, "Silver"}, // boundary: >= not >
		{"exactly at top boundary", 500, "Gold"},
		{"far above top", 100000, "Gold"},
		{"skips intermediate tier", 600, "Gold"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := app.ResolveTier(tc.points, catalog())
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if got.Name != tc.want {
				t.Fatalf("points=%d: got %s, want %s", tc.points, got.Name, tc.want)
			}
		})
	}
}

func TestResolveTier_EmptyCatalog(t *testing.T) {
	_, err := app.ResolveTier(100, nil)
	if !errors.Is(err, domain.ErrNoTiersConfigured) {
		t.Fatalf("expected ErrNoTiersConfigured, got %v", err)
	}
}

func TestResolveTier_FloorWhenBelowEveryRequirement(t *testing.T) {
	// A catalog without a zero-requirement baseline still resolves:
	// every customer must hold some tier.
	tiers := []domain.Tier{
		{ID: 7, Name: "Member", PointsRequirement: 50},
		{ID: 8, Name: "Elite", PointsRequirement: 1000},
	}
	got, err := app.ResolveTier(10, tiers)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got.Name != "Member" {
		t.Fatalf("expected floor tier Member, got %s", got.Name)
	}
}

func TestResolveTier_DuplicateRequirementEarlierWins(t *testing.T) {
	tiers := []domain.Tier{
		{ID: 1, Name: "A", PointsRequirement: 0},
		{ID: 2, Name: "B", PointsRequirement: 100},
		{ID: 3, Name: "C", PointsRequirement: 100}, // misconfigured duplicate
	}
	got, err := app.ResolveTier(150, tiers)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got.Name != "B" {
		t.Fatalf("expected earlier duplicate B, got %s", got.Name)
	}
}

func TestResolveTier_MonotonicNonDecreasing(t *testing.T) {
	tiers := catalog()
	var prev int64 = -1
	for p := int64(0); p <= 600; p += 10 {
		got, err := app.ResolveTier(p, tiers)
		if err != nil {
			t.Fatalf("points=%d: %v", p, err)
		}
		if got.PointsRequirement < prev {
			t.Fatalf("tier requirement decreased at points=%d", p)
		}
		prev = got.PointsRequirement
	}
}

func TestResolveTier_Deterministic(t *testing.T) {
	first, err := app.ResolveTier(250, catalog())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := app.ResolveTier(250, catalog())
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if again != first {
			t.Fatalf("resolution not stable: %+v vs %+v", again, first)
		}
	}
}

func TestValidateTiers(t *testing.T) {
	if err := app.ValidateTiers(catalog()); err != nil {
		t.Fatalf("valid catalog rejected: %v", err)
	}
	if err := app.ValidateTiers(nil); !errors.Is(err, domain.ErrNoTiersConfigured) {
		t.Fatalf("expected ErrNoTiersConfigured, got %v", err)
	}
	dup := []domain.Tier{
		{ID: 1, Name: "A", PointsRequirement: 0},
		{ID: 2, Name: "B", PointsRequirement: 0},
	}
	if err := app.ValidateTiers(dup); err == nil {
		t.Fatal("duplicate requirements accepted")
	}
}
