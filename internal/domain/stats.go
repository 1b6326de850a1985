package domain

import "time"

// StatsFilter enumerates the optional member-statistics filters
// explicitly. A nil field means "no constraint on that column".
type StatsFilter struct {
	Country *string
	From    *time.Time // created_at >= From
	To      *time.Time // created_at <= To
	TierID  *int64
}

// GroupStat is one (tier, country) bucket.
type GroupStat struct {
	TierID      int64
	TierName    string
	Country     *string
	TotalUsers  int64
	TotalPoints int64
	TotalNights int64
}

type TierStat struct {
	TierID      int64
	TierName    string
	TotalUsers  int64
	TotalPoints int64
	TotalNights int64
}

type CountryStat struct {
	Country    *string
	TotalUsers int64
}

type Statistics struct {
	Detailed  []GroupStat
	Overall   OverallStat
	ByTier    []TierStat
	ByCountry []CountryStat
}

type OverallStat struct {
	TotalUsers  int64
	TotalPoints int64
	TotalNights int64
}
