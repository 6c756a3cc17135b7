package engine

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// RolePenaltyWeight converts role penalty into rating points when reporting a score.
// Candidates are compared on (penalty, rating difference); ratings are capped at
// MaxRating so Score orders candidates the same way.
const RolePenaltyWeight = 1_000_000

// TeamPlan is a candidate split with both teams already role-assigned.
type TeamPlan struct {
	Teams [2]RoleAssignment
}

func (p TeamPlan) RatingDiff() int {
	return abs(p.Teams[0].RatingSum() - p.Teams[1].RatingSum())
}

func (p TeamPlan) Penalty() int {
	return p.Teams[0].Penalty + p.Teams[1].Penalty
}

func Score(penalty, ratingDiff int) int64 {
	return int64(RolePenaltyWeight)*int64(penalty) + int64(ratingDiff)
}

// split is one unordered partition: members of team A as input indices.
type split [TeamSize]int

type candidate struct {
	ordinal int
	split   split
	layouts [2]layout
	penalty int
	diff    int
}

func (c candidate) better(o candidate) bool {
	if c.penalty != o.penalty {
		return c.penalty < o.penalty
	}
	if c.diff != o.diff {
		return c.diff < o.diff
	}
	return c.ordinal < o.ordinal
}

// Balance splits exactly ten players into two role-assigned teams of five,
// minimizing role penalty first and rating difference second.
func Balance(players []Player) (Report, error) {
	if err := validate(players, PlayerCount); err != nil {
		return Report{}, err
	}
	s := newSearch(players)
	best := s.run(s.splits)
	return s.report(best), nil
}

// BalanceParallel returns the same report as Balance, spreading the partitions over workers.
func BalanceParallel(ctx context.Context, players []Player, workers int) (Report, error) {
	if err := validate(players, PlayerCount); err != nil {
		return Report{}, err
	}
	s := newSearch(players)
	if workers < 1 {
		workers = 1
	}
	chunk := (len(s.splits) + workers - 1) / workers

	results := make([]candidate, workers)
	found := make([]bool, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(s.splits) {
			break
		}
		hi := min(lo+chunk, len(s.splits))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[w] = s.run(s.splits[lo:hi])
			found[w] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	var best candidate
	have := false
	for w, c := range results {
		if !found[w] {
			continue
		}
		if !have || c.better(best) {
			best, have = c, true
		}
	}
	return s.report(best), nil
}

type search struct {
	players []Player
	costs   [PlayerCount][NumRoles]int
	splits  []candidate
}

func newSearch(players []Player) *search {
	s := &search{players: players}
	for i, p := range players {
		for j, r := range RoleOrder {
			s.costs[i][j], _, _ = RoleCost(p, r)
		}
	}
	s.splits = canonicalSplits(players)
	return s
}

// canonicalSplits enumerates the 126 partitions in lexicographic order of team A's
// sorted key membership. Team A always holds the smallest key.
func canonicalSplits(players []Player) []candidate {
	byKey := make([]int, len(players))
	for i := range byKey {
		byKey[i] = i
	}
	slices.SortFunc(byKey, func(a, b int) int {
		switch {
		case players[a].Key < players[b].Key:
			return -1
		case players[a].Key > players[b].Key:
			return 1
		}
		return 0
	})

	var out []candidate
	var pick [TeamSize]int
	pick[0] = 0
	var rec func(pos, from int)
	rec = func(pos, from int) {
		if pos == TeamSize {
			var sp split
			for i, k := range pick {
				sp[i] = byKey[k]
			}
			// Input order inside the team drives the role tie-break.
			slices.Sort(sp[:])
			out = append(out, candidate{ordinal: len(out), split: sp})
			return
		}
		for k := from; k < len(players); k++ {
			pick[pos] = k
			rec(pos+1, k+1)
		}
	}
	rec(1, 1)
	return out
}

func (s *search) run(splits []candidate) candidate {
	var best candidate
	for i, c := range splits {
		s.evaluate(&c)
		if i == 0 || c.better(best) {
			best = c
		}
	}
	return best
}

func (s *search) evaluate(c *candidate) {
	teamB := s.complement(c.split)
	teams := [2]split{c.split, teamB}

	c.penalty = 0
	sums := [2]int{}
	for t, members := range teams {
		var costs [TeamSize][NumRoles]int
		for i, idx := range members {
			costs[i] = s.costs[idx]
			sums[t] += s.players[idx].Rating
		}
		l, pen := cheapestLayout(&costs)
		c.layouts[t] = l
		c.penalty += pen
	}
	c.diff = abs(sums[0] - sums[1])
}

func (s *search) complement(a split) split {
	var in [PlayerCount]bool
	for _, idx := range a {
		in[idx] = true
	}
	var b split
	n := 0
	for i := 0; i < PlayerCount; i++ {
		if !in[i] {
			b[n] = i
			n++
		}
	}
	return b
}

func (s *search) plan(c candidate) TeamPlan {
	var plan TeamPlan
	for t, members := range [2]split{c.split, s.complement(c.split)} {
		team := make([]Player, TeamSize)
		for i, idx := range members {
			team[i] = s.players[idx]
		}
		plan.Teams[t] = buildAssignment(team, c.layouts[t])
	}
	return plan
}

func (s *search) report(c candidate) Report {
	return NewReport(s.plan(c))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
