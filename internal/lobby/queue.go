package lobby

import (
	"slices"
	"strings"

	"github.com/DoyleJ11/lol-custom-teams/internal/engine"
)

// FillToken is the reaction meaning "any role".
const FillToken = "FILL"

type vote struct {
	playerID string
	name     string
	seq      int
	roles    []engine.Role
	fill     bool
	rating   int
	rated    bool
	riotID   string
}

func (v *vote) active() bool { return len(v.roles) > 0 || v.fill }

// preferences keeps reaction order. Explicit roles win over fill.
func (v *vote) preferences() []engine.Role {
	if len(v.roles) > 0 {
		return slices.Clone(v.roles)
	}
	return nil
}

// queue collects role reactions. Players count in join order and only while they
// hold at least one reaction.
type queue struct {
	votes map[string]*vote
	seq   int
}

func newQueue() *queue {
	return &queue{votes: make(map[string]*vote)}
}

// ValidToken reports whether token names a role or FillToken. Reactions with
// other tokens are ignored by the queue.
func ValidToken(token string) bool {
	_, _, ok := parseToken(token)
	return ok
}

func parseToken(token string) (role engine.Role, fill bool, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case FillToken, "ANY":
		return "", true, true
	}
	role, ok = engine.ParseRole(token)
	return role, false, ok
}

// react applies a reaction. It reports whether the queue changed and whether the
// player is new to it.
func (q *queue) react(r React) (changed, joined bool) {
	role, fill, ok := parseToken(r.Token)
	if !ok {
		return false, false
	}

	v := q.votes[r.PlayerID]
	if v == nil {
		if !r.Added {
			return false, false
		}
		q.seq++
		v = &vote{playerID: r.PlayerID, seq: q.seq}
		q.votes[r.PlayerID] = v
		joined = true
	}
	if r.Name != "" {
		v.name = r.Name
	}

	switch {
	case r.Added && fill:
		changed = !v.fill
		v.fill = true
	case r.Added:
		if !slices.Contains(v.roles, role) {
			v.roles = append(v.roles, role)
			changed = true
		}
	case fill:
		changed = v.fill
		v.fill = false
	default:
		if i := slices.Index(v.roles, role); i >= 0 {
			v.roles = slices.Delete(v.roles, i, i+1)
			changed = true
		}
	}

	if !v.active() {
		delete(q.votes, r.PlayerID)
	}
	return changed || joined, joined
}

// active returns the first engine.PlayerCount players by join order.
func (q *queue) active() []*vote {
	out := make([]*vote, 0, len(q.votes))
	for _, v := range q.votes {
		if v.active() {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b *vote) int { return a.seq - b.seq })
	if len(out) > engine.PlayerCount {
		out = out[:engine.PlayerCount]
	}
	return out
}

func (q *queue) clear() {
	clear(q.votes)
}

func (q *queue) status() Status {
	act := q.active()
	st := Status{Count: len(act), Waiting: len(q.votes) - len(act)}
	for _, v := range act {
		st.Players = append(st.Players, Entry{
			PlayerID:    v.playerID,
			Name:        v.name,
			Roles:       slices.Clone(v.roles),
			Fill:        v.fill,
			Rating:      v.rating,
			RatingKnown: v.rated,
			RiotID:      v.riotID,
		})
	}
	return st
}
