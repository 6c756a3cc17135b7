package engine

import (
	"fmt"
	"slices"
	"strings"
)

type TeamReport struct {
	Assignment    RoleAssignment
	RatingSum     int
	RatingAverage float64
}

// Relaxation records a player who did not get their first choice.
type Relaxation struct {
	Team        int
	PlayerKey   string
	DisplayName string
	Role        Role
	Fit         Fit
	// Rank is the 1-based preference rank of Role, 0 when the role was not listed.
	Rank        int
	Preferences []Role
}

func (r Relaxation) String() string {
	name := r.DisplayName
	if name == "" {
		name = r.PlayerKey
	}
	if r.Fit == FitUnpreferred {
		prefs := make([]string, len(r.Preferences))
		for i, p := range r.Preferences {
			prefs[i] = p.String()
		}
		return fmt.Sprintf("%s plays %s, not among preferences (%s)", name, r.Role, strings.Join(prefs, ", "))
	}
	return fmt.Sprintf("%s plays %s, choice #%d", name, r.Role, r.Rank)
}

// Report is the outcome of a balancing run. Teams[0] holds the player with the smallest key.
type Report struct {
	Teams        [2]TeamReport
	RatingDiff   int
	TotalPenalty int
	Score        int64
	Relaxations  []Relaxation
}

func (r Report) Plan() TeamPlan {
	return TeamPlan{Teams: [2]RoleAssignment{r.Teams[0].Assignment, r.Teams[1].Assignment}}
}

// NewReport derives the statistics and the relaxation list for a plan.
func NewReport(plan TeamPlan) Report {
	var rep Report
	for t, a := range plan.Teams {
		sum := a.RatingSum()
		rep.Teams[t] = TeamReport{
			Assignment:    a,
			RatingSum:     sum,
			RatingAverage: float64(sum) / float64(NumRoles),
		}
		for _, s := range a.Slots {
			if s.Fit == FitAnyRole || s.Rank == 1 {
				continue
			}
			rep.Relaxations = append(rep.Relaxations, Relaxation{
				Team:        t,
				PlayerKey:   s.Player.Key,
				DisplayName: s.Player.DisplayName,
				Role:        s.Role,
				Fit:         s.Fit,
				Rank:        s.Rank,
				Preferences: slices.Clone(s.Player.Preferences),
			})
		}
	}
	rep.TotalPenalty = plan.Penalty()
	rep.RatingDiff = plan.RatingDiff()
	rep.Score = Score(rep.TotalPenalty, rep.RatingDiff)
	return rep
}

// Violations counts players placed on a role they did not list.
func (r Report) Violations() int {
	n := 0
	for _, rel := range r.Relaxations {
		if rel.Fit == FitUnpreferred {
			n++
		}
	}
	return n
}
