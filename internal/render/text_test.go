package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lol-custom-teams/internal/engine"
)

func TestText(t *testing.T) {
	players := []engine.Player{
		{Key: "1", DisplayName: "Faker", Rating: 3000, Preferences: []engine.Role{engine.RoleMid}},
		{Key: "2", Rating: 1400, Preferences: []engine.Role{engine.RoleTop}},
		{Key: "3", Rating: 1400, Preferences: []engine.Role{engine.RoleJungle}},
		{Key: "4", Rating: 1400, Preferences: []engine.Role{engine.RoleBottom}},
		{Key: "5", Rating: 1400, Preferences: []engine.Role{engine.RoleSupport}},
		{Key: "6", Rating: 1400, Preferences: []engine.Role{engine.RoleMid}},
		{Key: "7", Rating: 1400, Preferences: []engine.Role{engine.RoleMid}},
		{Key: "8", Rating: 1400, Preferences: []engine.Role{engine.RoleJungle}},
		{Key: "9", Rating: 1400, Preferences: []engine.Role{engine.RoleBottom}},
		{Key: "10", Rating: 1400, Preferences: []engine.Role{engine.RoleSupport}},
	}
	rep, err := engine.Balance(players)
	require.NoError(t, err)

	out := Text(rep)
	assert.Contains(t, out, "Team A (sum LP: ")
	assert.Contains(t, out, "Team B (sum LP: ")
	assert.Contains(t, out, "- MID: Faker (3000 LP)")
	assert.Contains(t, out, "LP diff: ")
	assert.Contains(t, out, "Note: 1 role preference violation(s) to make teams valid.")
	assert.Contains(t, out, "not among preferences (MID)")
}
