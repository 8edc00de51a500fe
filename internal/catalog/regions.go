package catalog

import "github.com/abhisek/metrofocus/internal/game"

// Region is a district a citizen session can be run in.
type Region struct {
	ID              game.RegionID
	Name            string
	Description     string
	Icon            string
	Character       string
	Message         string
	UnlockThreshold int // total focus minutes
}

var regions = []Region{
	{ID: "bunnyburrow", Name: "Bunnyburrow", Description: "The peaceful countryside where it all begins", Icon: "🥕", Character: "Judy", Message: "Welcome to my hometown! Let's get focused!"},
	{ID: "little-rodentia", Name: "Little Rodentia", Description: "A tiny district with big ambitions", Icon: "🐭", Character: "Pip", Message: "Small steps lead to big achievements!"},
	{ID: "savanna-central", Name: "Savanna Central", Description: "The bustling heart of the city", Icon: "🦁", Character: "Nick", Message: "Downtown's calling. Time to hustle!"},
	{ID: "rainforest", Name: "Rainforest District", Description: "Lush, humid, and full of life", Icon: "🌴", Character: "Flash", Message: "Take... your... time... but... stay... focused..."},
	{ID: "tundratown", Name: "Tundratown", Description: "The frozen north where cool heads prevail", Icon: "❄️", Character: "Koslov", Message: "Stay frosty and focused!"},
	{ID: "sahara-square", Name: "Sahara Square", Description: "Where the heat is on and stakes are high", Icon: "🏜️", Character: "Nick", Message: "The heat's on! Let's power through!"},
	{ID: "nocturnal", Name: "Nocturnal District", Description: "Where night owls thrive", Icon: "🦇", Character: "Judy", Message: "The night is young. Focus in the dark!"},
	{ID: "meadowlands", Name: "Meadowlands", Description: "Open fields and clear minds", Icon: "🌻", Character: "Judy", Message: "Clear skies, clear mind!"},
	{ID: "outback-island", Name: "Outback Island", Description: "The ultimate frontier for focus masters", Icon: "🦘", Character: "Nick", Message: "G'day mate! Ready for the ultimate focus?"},
}

// Regions returns every region in display order.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// LookupRegion returns the region with id.
func LookupRegion(id game.RegionID) (Region, bool) {
	for _, r := range regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// UnlockedRegions returns the regions available at totalMinutes of focus.
func UnlockedRegions(totalMinutes int) []Region {
	var out []Region
	for _, r := range regions {
		if totalMinutes >= r.UnlockThreshold {
			out = append(out, r)
		}
	}
	return out
}

// NextRegion returns the first region still locked at totalMinutes.
func NextRegion(totalMinutes int) (Region, bool) {
	for _, r := range regions {
		if totalMinutes < r.UnlockThreshold {
			return r, true
		}
	}
	return Region{}, false
}

// CitizenRank is a title earned from lifetime focus minutes. It is separate
// from the ZPD rank, which only cases advance.
type CitizenRank struct {
	ID         string
	Name       string
	MinMinutes int
}

var citizenRanks = []CitizenRank{
	{ID: "newcomer", Name: "Newcomer", MinMinutes: 0},
	{ID: "resident", Name: "Resident", MinMinutes: 100},
	{ID: "local-hero", Name: "Local Hero", MinMinutes: 500},
	{ID: "mayor", Name: "Mayor", MinMinutes: 1500},
}

// CitizenRankFor returns the highest citizen rank reached at totalMinutes.
func CitizenRankFor(totalMinutes int) CitizenRank {
	for i := len(citizenRanks) - 1; i >= 0; i-- {
		if totalMinutes >= citizenRanks[i].MinMinutes {
			return citizenRanks[i]
		}
	}
	return citizenRanks[0]
}
