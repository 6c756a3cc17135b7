package rating

import (
	openskill "github.com/intinig/go-openskill/rating"
	"github.com/intinig/go-openskill/types"
)

// MuScale maps LP-style ratings onto OpenSkill's scale so that Default lands on mu=25.
const MuScale = float64(Default) / 25.0

const defaultSigma = 25.0 / 3.0

type Prediction struct {
	Win  [2]float64
	Draw float64
}

// Predict estimates the outcome of two teams given their players' ratings.
func Predict(teamA, teamB []int) Prediction {
	teams := []types.Team{toTeam(teamA), toTeam(teamB)}
	win := openskill.PredictWin(teams, nil)

	var p Prediction
	copy(p.Win[:], win)
	p.Draw = openskill.PredictDraw(teams, nil)
	return p
}

func toTeam(ratings []int) types.Team {
	team := make(types.Team, 0, len(ratings))
	for _, r := range ratings {
		mu := float64(r) / MuScale
		sigma := defaultSigma
		team = append(team, openskill.NewWithOptions(&types.OpenSkillOptions{
			Mu:    &mu,
			Sigma: &sigma,
		}))
	}
	return team
}
