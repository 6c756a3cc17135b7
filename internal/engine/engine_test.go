package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(key string, rating int, roles ...Role) Player {
	return Player{Key: key, DisplayName: "name-" + key, Rating: rating, Preferences: roles}
}

// twoOfEach builds ten single-role players, two per role, all at the same rating.
func twoOfEach(rating int) []Player {
	var out []Player
	for i := 0; i < 2; i++ {
		for _, r := range RoleOrder {
			out = append(out, player(fmt.Sprintf("%s-%d", r, i), rating, r))
		}
	}
	return out
}

func randomRoster(rng *rand.Rand) []Player {
	out := make([]Player, PlayerCount)
	for i := range out {
		var prefs []Role
		for _, j := range rng.Perm(NumRoles)[:rng.Intn(NumRoles+1)] {
			prefs = append(prefs, RoleOrder[j])
		}
		out[i] = player(fmt.Sprintf("p%02d", rng.Intn(1000)*100+i), 800+rng.Intn(2000), prefs...)
	}
	return out
}

func teamKeys(a RoleAssignment) map[string]bool {
	keys := map[string]bool{}
	for _, s := range a.Slots {
		keys[s.Player.Key] = true
	}
	return keys
}

func TestBalance_PerfectRoleCoverage(t *testing.T) {
	rep, err := Balance(twoOfEach(1400))
	require.NoError(t, err)

	assert.Equal(t, 0, rep.TotalPenalty)
	assert.Equal(t, 0, rep.RatingDiff)
	assert.Equal(t, int64(0), rep.Score)
	assert.Empty(t, rep.Relaxations)
	for _, team := range rep.Teams {
		assert.Equal(t, 7000, team.RatingSum)
		assert.InDelta(t, 1400.0, team.RatingAverage, 1e-9)
		for _, s := range team.Assignment.Slots {
			require.Len(t, s.Player.Preferences, 1)
			assert.Equal(t, s.Player.Preferences[0], s.Role, "player %s", s.Player.Key)
			assert.Equal(t, FitPreferred, s.Fit)
		}
	}
}

func TestBalance_EveryoneWantsTop(t *testing.T) {
	players := make([]Player, PlayerCount)
	for i := range players {
		players[i] = player(fmt.Sprintf("top%d", i), 1400, RoleTop)
	}

	rep, err := Balance(players)
	require.NoError(t, err)

	assert.Equal(t, 8*UnpreferredCost, rep.TotalPenalty)
	assert.Equal(t, 0, rep.RatingDiff)
	assert.Equal(t, 8, rep.Violations())
	assert.Len(t, rep.Relaxations, 8)
	for _, team := range rep.Teams {
		top, ok := team.Assignment.Player(RoleTop)
		require.True(t, ok)
		assert.Equal(t, []Role{RoleTop}, top.Preferences)
	}
}

func TestBalance_RolePenaltyOutweighsRatingGap(t *testing.T) {
	players := []Player{
		player("a-top-high", 2000, RoleTop),
		player("b-top-low", 1000, RoleTop, RoleJungle),
		player("c-jgl", 1400, RoleJungle, RoleTop),
		player("d-jgl", 1400, RoleJungle),
		player("e-mid", 1400, RoleMid),
		player("f-mid", 1400, RoleMid),
		player("g-bot", 1400, RoleBottom),
		player("h-bot", 1400, RoleBottom),
		player("i-sup", 1400, RoleSupport),
		player("j-sup", 1400, RoleSupport),
	}

	// The cheaper rating split puts both top laners together and costs two ranks.
	teamA, err := AssignRoles([]Player{players[0], players[1], players[4], players[6], players[8]})
	require.NoError(t, err)
	teamB, err := AssignRoles([]Player{players[2], players[3], players[5], players[7], players[9]})
	require.NoError(t, err)
	alt := TeamPlan{Teams: [2]RoleAssignment{teamA, teamB}}
	require.Equal(t, 2, alt.Penalty())
	require.Equal(t, 200, alt.RatingDiff())

	rep, err := Balance(players)
	require.NoError(t, err)

	assert.Equal(t, 0, rep.TotalPenalty)
	assert.Equal(t, 1000, rep.RatingDiff)
	assert.Less(t, rep.Score, Score(alt.Penalty(), alt.RatingDiff()))

	a := teamKeys(rep.Teams[0].Assignment)
	assert.NotEqual(t, a["a-top-high"], a["b-top-low"], "top laners must be split")
}

func TestBalance_PrefersSmallerRatingGapAtEqualPenalty(t *testing.T) {
	players := twoOfEach(1400)
	players[0].Rating = 1800 // TOP-0
	players[6].Rating = 1000 // JUNGLE-1

	rep, err := Balance(players)
	require.NoError(t, err)

	assert.Equal(t, 0, rep.TotalPenalty)
	assert.Equal(t, 0, rep.RatingDiff)
	a := teamKeys(rep.Teams[0].Assignment)
	assert.Equal(t, a["TOP-0"], a["JUNGLE-1"])
}

func TestCandidateOrder_Monotonic(t *testing.T) {
	tests := []struct {
		name          string
		better, worse candidate
	}{
		{"lower penalty, equal diff", candidate{penalty: 1, diff: 500, ordinal: 9}, candidate{penalty: 2, diff: 500}},
		{"lower penalty, lower diff", candidate{penalty: 0, diff: 100, ordinal: 9}, candidate{penalty: 10, diff: 900}},
		{"lower penalty beats any gap", candidate{penalty: 0, diff: 99999, ordinal: 9}, candidate{penalty: 1, diff: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.better.better(tt.worse))
			assert.False(t, tt.worse.better(tt.better))
			assert.Less(t, Score(tt.better.penalty, tt.better.diff), Score(tt.worse.penalty, tt.worse.diff))
		})
	}
}

func TestBalance_PartitionInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 25; i++ {
		players := randomRoster(rng)
		rep, err := Balance(players)
		require.NoError(t, err)

		a := teamKeys(rep.Teams[0].Assignment)
		b := teamKeys(rep.Teams[1].Assignment)
		require.Len(t, a, TeamSize)
		require.Len(t, b, TeamSize)
		for _, p := range players {
			assert.True(t, a[p.Key] != b[p.Key], "player %s must be on exactly one team", p.Key)
		}
		for _, team := range rep.Teams {
			seen := map[Role]bool{}
			for _, s := range team.Assignment.Slots {
				seen[s.Role] = true
			}
			assert.Len(t, seen, NumRoles)
		}
		assert.Equal(t, rep.Teams[0].Assignment.Penalty+rep.Teams[1].Assignment.Penalty, rep.TotalPenalty)
	}
}

func TestBalance_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	players := randomRoster(rng)

	first, err := Balance(players)
	require.NoError(t, err)
	second, err := Balance(players)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBalance_TeamAHoldsSmallestKey(t *testing.T) {
	players := twoOfEach(1400)
	players[3].Key = "0-first"

	rep, err := Balance(players)
	require.NoError(t, err)
	assert.True(t, teamKeys(rep.Teams[0].Assignment)["0-first"])
}

func TestBalanceParallel_MatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 10; i++ {
		players := randomRoster(rng)
		want, err := Balance(players)
		require.NoError(t, err)

		for _, workers := range []int{0, 1, 3, 8, 200} {
			got, err := BalanceParallel(context.Background(), players, workers)
			require.NoError(t, err)
			assert.Equal(t, want, got, "workers=%d", workers)
		}
	}
}

func TestBalanceParallel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BalanceParallel(ctx, twoOfEach(1400), 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBalance_InvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		players func() []Player
		want    error
	}{
		{
			name:    "nine players",
			players: func() []Player { return twoOfEach(1400)[:9] },
			want:    ErrPlayerCount,
		},
		{
			name:    "eleven players",
			players: func() []Player { return append(twoOfEach(1400), player("extra", 1400)) },
			want:    ErrPlayerCount,
		},
		{
			name: "duplicate key",
			players: func() []Player {
				p := twoOfEach(1400)
				p[9].Key = p[0].Key
				return p
			},
			want: ErrDuplicatePlayer,
		},
		{
			name: "unknown role",
			players: func() []Player {
				p := twoOfEach(1400)
				p[2].Preferences = []Role{"CARRY"}
				return p
			},
			want: ErrUnknownRole,
		},
		{
			name: "repeated role",
			players: func() []Player {
				p := twoOfEach(1400)
				p[4].Preferences = []Role{RoleMid, RoleMid}
				return p
			},
			want: ErrDuplicateRole,
		},
		{
			name: "negative rating",
			players: func() []Player {
				p := twoOfEach(1400)
				p[5].Rating = -1
				return p
			},
			want: ErrRatingRange,
		},
		{
			name: "rating above cap",
			players: func() []Player {
				p := twoOfEach(1400)
				p[6].Rating = MaxRating + 1
				return p
			},
			want: ErrRatingRange,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Balance(tc.players())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, tc.want)

			var inv *InvalidInputError
			require.True(t, errors.As(err, &inv))
			assert.NotEmpty(t, inv.Problems())
		})
	}
}

func TestInvalidInputError_ReportsEveryProblem(t *testing.T) {
	p := twoOfEach(1400)[:9]
	p[1].Key = p[0].Key
	p[2].Preferences = []Role{"CARRY"}

	_, err := Balance(p)
	var inv *InvalidInputError
	require.ErrorAs(t, err, &inv)
	assert.Len(t, inv.Problems(), 3)
	assert.Contains(t, err.Error(), "need exactly 10 players, got 9")
}

func TestNewReport_RebuildsFromPlan(t *testing.T) {
	players := twoOfEach(1400)
	players[0].Preferences = []Role{RoleMid, RoleTop}
	players[3].Rating = 2100

	rep, err := Balance(players)
	require.NoError(t, err)

	again := NewReport(rep.Plan())
	assert.Equal(t, rep, again)
	assert.Equal(t, rep.RatingDiff, rep.Plan().RatingDiff())
}

func TestScore_MaxRatingGapStaysBelowOnePenaltyPoint(t *testing.T) {
	widest := TeamSize * MaxRating
	assert.Less(t, Score(0, widest), Score(1, 0))

	players := twoOfEach(0)
	for i := 0; i < TeamSize; i++ {
		players[i].Rating = MaxRating
	}
	require.NoError(t, Validate(players))

	rep, err := Balance(players)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.TotalPenalty)
	assert.Less(t, rep.Score, int64(RolePenaltyWeight))
}

func TestValidate_RejectsRosterWithoutBalancing(t *testing.T) {
	big := make([]Player, 200)
	for i := range big {
		big[i] = player(fmt.Sprintf("p%03d", i), 1400)
	}
	err := Validate(big)
	assert.ErrorIs(t, err, ErrPlayerCount)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.NoError(t, Validate(twoOfEach(1400)))
}
