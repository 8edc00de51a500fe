package game

// Kind identifies the category of a focus session.
type Kind string

const (
	KindIdle       Kind = "idle"
	KindStandard   Kind = "standard"
	KindMultiStage Kind = "multi_stage"
	KindWagered    Kind = "wagered"
)

// DisplayName returns a human-readable label for the session kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindStandard:
		return "Citizen"
	case KindMultiStage:
		return "ZPD Case"
	case KindWagered:
		return "Hustle"
	case KindIdle:
		return "Home"
	default:
		return string(k)
	}
}

// Stage is one of the three ordered sub-intervals of a multi-stage session.
type Stage string

const (
	StageNone   Stage = ""
	StageClues  Stage = "clues"
	StageChase  Stage = "chase"
	StageArrest Stage = "arrest"
)

// AllStages returns the stages in the order they must be completed.
func AllStages() []Stage {
	return []Stage{StageClues, StageChase, StageArrest}
}

// Next returns the stage after s, and false when s is the final stage.
func (s Stage) Next() (Stage, bool) {
	switch s {
	case StageClues:
		return StageChase, true
	case StageChase:
		return StageArrest, true
	default:
		return StageNone, false
	}
}

// IsFinal reports whether s is the last stage of a case.
func (s Stage) IsFinal() bool {
	return s == StageArrest
}

// Index returns the zero-based position of s, or -1.
func (s Stage) Index() int {
	for i, st := range AllStages() {
		if st == s {
			return i
		}
	}
	return -1
}

// DisplayName returns the label shown for the stage.
func (s Stage) DisplayName() string {
	switch s {
	case StageClues:
		return "Gather Clues"
	case StageChase:
		return "The Chase"
	case StageArrest:
		return "The Arrest"
	default:
		return ""
	}
}

// RegionID names a region of the city.
type RegionID string

// ItemID names a furniture catalog entry.
type ItemID string

// Completion is the read-only descriptor of a finished session handed to the
// reward ledger.
type Completion struct {
	SessionID    string
	Kind         Kind
	Stage        Stage
	Region       RegionID
	Stake        int
	TotalSeconds int
}

// MinutesCompleted is the whole number of minutes credited for the session.
func (c Completion) MinutesCompleted() int {
	if c.TotalSeconds <= 0 {
		return 0
	}
	return c.TotalSeconds / 60
}

// Reward describes the player state delta produced by one completion.
type Reward struct {
	Kind          Kind
	FocusMinutes  int
	Currency      int
	RankProgress  int
	RankBefore    Rank
	RankAfter     Rank
	Promoted      bool
	ProgressAfter int
}
