package game

const (
	// MinSessionMinutes and MaxSessionMinutes bound a requested session length.
	MinSessionMinutes = 1
	MaxSessionMinutes = 180

	// DefaultStandardMinutes is the citizen session length offered by default.
	DefaultStandardMinutes = 25

	// StageMinutes is the fixed length of each case stage.
	StageMinutes = 25

	// CurrencyPerMinute is the standard-session payout rate.
	CurrencyPerMinute = 10

	// RankProgressIncrement is awarded once per fully completed case.
	RankProgressIncrement = 25

	// RankProgressMax is the rollover threshold for rank progress.
	RankProgressMax = 100

	// DefaultWagerStake and DefaultWagerMinutes describe the standard hustle.
	DefaultWagerStake   = 500
	DefaultWagerMinutes = 60

	// WagerPayoutMultiplier is applied to the stake on a completed hustle.
	WagerPayoutMultiplier = 2

	// MaxUnlockLevel is the highest apartment tier.
	MaxUnlockLevel = 5

	// StartingCurrency is granted to a new player.
	StartingCurrency = 500

	// CapstoneItem raises the unlock level to MaxUnlockLevel when purchased.
	CapstoneItem ItemID = "penthouse-key"
)

// ValidateMinutes returns an InvalidDurationError when minutes is outside
// [MinSessionMinutes, MaxSessionMinutes].
func ValidateMinutes(minutes int) error {
	if minutes < MinSessionMinutes || minutes > MaxSessionMinutes {
		return &InvalidDurationError{Minutes: minutes}
	}
	return nil
}

// WagerPayout returns the currency paid for a completed hustle with stake.
func WagerPayout(stake int) int {
	return stake * WagerPayoutMultiplier
}
