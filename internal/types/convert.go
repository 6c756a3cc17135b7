package types

import (
	"strconv"

	"github.com/DoyleJ11/lol-custom-teams/internal/engine"
	"github.com/DoyleJ11/lol-custom-teams/internal/lobby"
	"github.com/DoyleJ11/lol-custom-teams/internal/rating"
	wire "github.com/DoyleJ11/lol-custom-teams/pkg/types"
)

func BalanceResponse(rep engine.Report, pred rating.Prediction) wire.BalanceResponse {
	out := wire.BalanceResponse{
		RatingDiff:  rep.RatingDiff,
		Penalty:     rep.TotalPenalty,
		Score:       rep.Score,
		DrawChance:  pred.Draw,
		Relaxations: make([]wire.RelaxationView, 0, len(rep.Relaxations)),
	}
	for t, team := range rep.Teams {
		tv := wire.TeamView{
			RatingSum:     team.RatingSum,
			RatingAverage: team.RatingAverage,
			Penalty:       team.Assignment.Penalty,
			WinChance:     pred.Win[t],
		}
		for _, s := range team.Assignment.Slots {
			tv.Slots = append(tv.Slots, wire.SlotView{
				Role:   s.Role.String(),
				Key:    s.Player.Key,
				Name:   s.Player.DisplayName,
				Rating: s.Player.Rating,
				Fit:    s.Fit.String(),
				Rank:   s.Rank,
				Cost:   s.Cost,
			})
		}
		out.Teams[t] = tv
	}
	for _, r := range rep.Relaxations {
		rank := "none"
		if r.Rank > 0 {
			rank = strconv.Itoa(r.Rank)
		}
		out.Relaxations = append(out.Relaxations, wire.RelaxationView{
			Team: r.Team,
			Key:  r.PlayerKey,
			Role: r.Role.String(),
			Rank: rank,
			Note: r.String(),
		})
	}
	return out
}

func QueueStatus(code string, version int, st lobby.Status, teams *lobby.Teams) wire.QueueStatus {
	out := wire.QueueStatus{
		Code:    code,
		Version: version,
		Count:   st.Count,
		Needed:  engine.PlayerCount,
		Waiting: st.Waiting,
		Players: make([]wire.QueueEntry, 0, len(st.Players)),
	}
	for _, e := range st.Players {
		qe := wire.QueueEntry{
			PlayerID: e.PlayerID,
			Name:     e.Name,
			RiotID:   e.RiotID,
			Roles:    make([]string, 0, len(e.Roles)),
			Fill:     e.Fill,
		}
		for _, r := range e.Roles {
			qe.Roles = append(qe.Roles, r.String())
		}
		if e.RatingKnown {
			r := e.Rating
			qe.Rating = &r
		}
		out.Players = append(out.Players, qe)
	}
	if teams != nil {
		br := BalanceResponse(teams.Report, teams.Prediction)
		out.Teams = &br
	}
	return out
}

func FromSnapshot(code string, snap lobby.Snapshot) ServerMessage {
	q := QueueStatus(code, snap.Version, snap.Status, snap.Teams)
	typ := "QueueSnapshot"
	if snap.Teams != nil {
		typ = "TeamsReady"
	}
	return ServerMessage{Type: typ, Version: snap.Version, Queue: &q}
}
