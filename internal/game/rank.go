package game

// Rank is a ZPD progression tier. Ranks advance only through completed cases.
type Rank string

const (
	RankMeterMaid Rank = "meter-maid"
	RankOfficer   Rank = "officer"
	RankDetective Rank = "detective"
	RankChief     Rank = "chief"
)

// AllRanks returns the ranks from lowest to highest.
func AllRanks() []Rank {
	return []Rank{RankMeterMaid, RankOfficer, RankDetective, RankChief}
}

// IsValid reports whether r is a known rank.
func (r Rank) IsValid() bool {
	return r.Index() >= 0
}

// Index returns the position of r in the rank order, or -1.
func (r Rank) Index() int {
	for i, rank := range AllRanks() {
		if rank == r {
			return i
		}
	}
	return -1
}

// IsMax reports whether r is the highest rank.
func (r Rank) IsMax() bool {
	ranks := AllRanks()
	return r == ranks[len(ranks)-1]
}

// Next returns the rank above r. At the top rank it returns r and false.
func (r Rank) Next() (Rank, bool) {
	ranks := AllRanks()
	i := r.Index()
	if i < 0 || i >= len(ranks)-1 {
		return r, false
	}
	return ranks[i+1], true
}

// DisplayName returns the label shown for the rank.
func (r Rank) DisplayName() string {
	switch r {
	case RankMeterMaid:
		return "Meter Maid"
	case RankOfficer:
		return "Officer"
	case RankDetective:
		return "Detective"
	case RankChief:
		return "Chief"
	default:
		return string(r)
	}
}

// ApplyRankProgress adds increment to progress at rank and applies the
// 100-point rollover. Below the top rank a rollover promotes and keeps the
// remainder. At the top rank progress clamps at RankProgressMax.
func ApplyRankProgress(rank Rank, progress, increment int) (Rank, int, bool) {
	sum := progress + increment
	if sum < RankProgressMax {
		return rank, sum, false
	}
	next, ok := rank.Next()
	if !ok {
		return rank, RankProgressMax, false
	}
	return next, sum - RankProgressMax, true
}
