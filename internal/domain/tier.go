package domain

// Tier is one loyalty level. Tiers are configured administratively and
// read-only from this service's point of view.
type Tier struct {
	ID                int64
	Name              string
	PointsRequirement int64
}
