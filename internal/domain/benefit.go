package domain

// Benefit is a perk granted by holding a tier.
type Benefit struct {
	ID       int64
	TierID   int64
	Title    string
	Subtitle *string
}

type BenefitUpdate struct {
	Title    *string
	Subtitle *string
}
