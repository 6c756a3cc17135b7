package engine

import "slices"

// Per-player role costs. UnpreferredCost must stay above the worst rank cost
// ((NumRoles-1)*PreferenceStepCost) so a listed role always beats an unlisted one.
const (
	PreferenceStepCost = 1
	AnyRoleCost        = 2
	UnpreferredCost    = 10
)

type Fit int

const (
	FitPreferred Fit = iota
	FitAnyRole
	FitUnpreferred
)

func (f Fit) String() string {
	switch f {
	case FitPreferred:
		return "preferred"
	case FitAnyRole:
		return "any"
	case FitUnpreferred:
		return "unpreferred"
	default:
		return "unknown"
	}
}

type Slot struct {
	Role   Role
	Player Player
	Fit    Fit
	// Rank is the 1-based position of Role in the player's preferences, 0 when not listed.
	Rank int
	Cost int
}

// RoleAssignment maps the five players of one team onto the five roles.
// Slots are indexed in RoleOrder.
type RoleAssignment struct {
	Slots   [NumRoles]Slot
	Penalty int
}

func (a RoleAssignment) Player(r Role) (Player, bool) {
	i := r.index()
	if i < 0 {
		return Player{}, false
	}
	return a.Slots[i].Player, true
}

func (a RoleAssignment) Players() []Player {
	out := make([]Player, 0, NumRoles)
	for _, s := range a.Slots {
		out = append(out, s.Player)
	}
	return out
}

func (a RoleAssignment) RatingSum() int {
	sum := 0
	for _, s := range a.Slots {
		sum += s.Player.Rating
	}
	return sum
}

// RoleCost scores putting p on r.
func RoleCost(p Player, r Role) (cost int, fit Fit, rank int) {
	if len(p.Preferences) == 0 {
		return AnyRoleCost, FitAnyRole, 0
	}
	for i, pref := range p.Preferences {
		if pref == r {
			return i * PreferenceStepCost, FitPreferred, i + 1
		}
	}
	return UnpreferredCost, FitUnpreferred, 0
}

// AssignRoles returns the cheapest bijection of exactly five players onto the five roles.
// Among equally cheap layouts the earliest input player takes the highest-priority role.
func AssignRoles(players []Player) (RoleAssignment, error) {
	if err := validate(players, TeamSize); err != nil {
		return RoleAssignment{}, err
	}

	var costs [TeamSize][NumRoles]int
	for i, p := range players {
		for j, r := range RoleOrder {
			costs[i][j], _, _ = RoleCost(p, r)
		}
	}

	perm, _ := cheapestLayout(&costs)
	return buildAssignment(players, perm), nil
}

// layout[j] is the index of the player that plays RoleOrder[j].
type layout [NumRoles]int

var layouts = permutations()

// permutations lists every layout in lexicographic order, which is what makes
// "first minimum wins" equal to the role-priority tie-break.
func permutations() []layout {
	var out []layout
	var cur layout
	var used [TeamSize]bool
	var rec func(pos int)
	rec = func(pos int) {
		if pos == NumRoles {
			out = append(out, cur)
			return
		}
		for i := 0; i < TeamSize; i++ {
			if used[i] {
				continue
			}
			used[i] = true
			cur[pos] = i
			rec(pos + 1)
			used[i] = false
		}
	}
	rec(0)
	return out
}

func cheapestLayout(costs *[TeamSize][NumRoles]int) (layout, int) {
	best := layouts[0]
	bestCost := -1
	for _, l := range layouts {
		c := 0
		for role, player := range l {
			c += costs[player][role]
		}
		if bestCost < 0 || c < bestCost {
			best, bestCost = l, c
			if c == 0 {
				break
			}
		}
	}
	return best, bestCost
}

func buildAssignment(team []Player, l layout) RoleAssignment {
	var a RoleAssignment
	for j, r := range RoleOrder {
		p := team[l[j]]
		p.Preferences = slices.Clone(p.Preferences)
		cost, fit, rank := RoleCost(p, r)
		a.Slots[j] = Slot{Role: r, Player: p, Fit: fit, Rank: rank, Cost: cost}
		a.Penalty += cost
	}
	return a
}
