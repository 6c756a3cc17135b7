package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleCost(t *testing.T) {
	cases := []struct {
		name     string
		prefs    []Role
		role     Role
		wantCost int
		wantFit  Fit
		wantRank int
	}{
		{"first choice", []Role{RoleMid, RoleTop}, RoleMid, 0, FitPreferred, 1},
		{"second choice", []Role{RoleMid, RoleTop}, RoleTop, PreferenceStepCost, FitPreferred, 2},
		{"fifth choice", []Role{RoleMid, RoleTop, RoleJungle, RoleSupport, RoleBottom}, RoleBottom, 4 * PreferenceStepCost, FitPreferred, 5},
		{"not listed", []Role{RoleMid}, RoleSupport, UnpreferredCost, FitUnpreferred, 0},
		{"any role", nil, RoleSupport, AnyRoleCost, FitAnyRole, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cost, fit, rank := RoleCost(Player{Key: "p", Preferences: tc.prefs}, tc.role)
			assert.Equal(t, tc.wantCost, cost)
			assert.Equal(t, tc.wantFit, fit)
			assert.Equal(t, tc.wantRank, rank)
		})
	}
}

func TestRoleCost_AnyRoleNeverUnpreferred(t *testing.T) {
	for _, r := range RoleOrder {
		cost, fit, _ := RoleCost(Player{Key: "fill"}, r)
		assert.Equal(t, AnyRoleCost, cost)
		assert.Equal(t, FitAnyRole, fit)
	}
	assert.Less(t, (NumRoles-1)*PreferenceStepCost, UnpreferredCost)
	assert.Greater(t, AnyRoleCost, 0)
}

func TestAssignRoles_IsBijection(t *testing.T) {
	team := []Player{
		player("a", 1400, RoleSupport),
		player("b", 1400, RoleSupport, RoleBottom),
		player("c", 1400),
		player("d", 1400, RoleTop, RoleMid),
		player("e", 1400, RoleMid),
	}

	a, err := AssignRoles(team)
	require.NoError(t, err)

	roles := map[Role]bool{}
	keys := map[string]bool{}
	for i, s := range a.Slots {
		assert.Equal(t, RoleOrder[i], s.Role)
		roles[s.Role] = true
		keys[s.Player.Key] = true
	}
	assert.Len(t, roles, NumRoles)
	assert.Len(t, keys, TeamSize)

	got := map[string]Role{}
	for _, s := range a.Slots {
		got[s.Player.Key] = s.Role
	}
	assert.Equal(t, map[string]Role{
		"a": RoleSupport,
		"b": RoleBottom,
		"c": RoleJungle,
		"d": RoleTop,
		"e": RoleMid,
	}, got)
	assert.Equal(t, PreferenceStepCost+AnyRoleCost, a.Penalty)
}

func TestAssignRoles_TieBreakFollowsRoleThenInputOrder(t *testing.T) {
	team := []Player{
		player("v", 1400),
		player("w", 1400),
		player("x", 1400),
		player("y", 1400),
		player("z", 1400),
	}

	a, err := AssignRoles(team)
	require.NoError(t, err)
	for i, s := range a.Slots {
		assert.Equal(t, team[i].Key, s.Player.Key)
	}
	assert.Equal(t, NumRoles*AnyRoleCost, a.Penalty)
}

func TestAssignRoles_AllSameRole(t *testing.T) {
	var team []Player
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		team = append(team, player(k, 1400, RoleMid))
	}

	a, err := AssignRoles(team)
	require.NoError(t, err)

	// The first layout in role priority order already reaches the minimum.
	top, _ := a.Player(RoleTop)
	assert.Equal(t, "a", top.Key)
	mid, _ := a.Player(RoleMid)
	assert.Equal(t, "c", mid.Key)
	assert.Equal(t, 4*UnpreferredCost, a.Penalty)
}

func TestAssignRoles_WrongCount(t *testing.T) {
	_, err := AssignRoles([]Player{player("a", 1), player("b", 1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, ErrPlayerCount)
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"top":     RoleTop,
		"JGL":     RoleJungle,
		" Jungle": RoleJungle,
		"mid":     RoleMid,
		"BOT":     RoleBottom,
		"adc":     RoleBottom,
		"Sup":     RoleSupport,
		"SUPPORT": RoleSupport,
	}
	for in, want := range cases {
		got, ok := ParseRole(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseRole("fill")
	assert.False(t, ok)

	_, err := ParseRoles([]string{"top", "carry"})
	assert.ErrorIs(t, err, ErrUnknownRole)
}
