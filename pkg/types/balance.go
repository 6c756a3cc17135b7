// Package types holds the JSON shapes exchanged with HTTP and websocket clients.
package types

// PlayerInput is one roster entry. Rating is optional; unknown players get the default rating.
type PlayerInput struct {
	Key    string   `json:"key"`
	Name   string   `json:"name,omitempty"`
	Rating *int     `json:"rating,omitempty"`
	Roles  []string `json:"roles"`
}

type BalanceRequest struct {
	Players []PlayerInput `json:"players"`
}

type SlotView struct {
	Role   string `json:"role"`
	Key    string `json:"key"`
	Name   string `json:"name,omitempty"`
	Rating int    `json:"rating"`
	Fit    string `json:"fit"`
	Rank   int    `json:"rank,omitempty"`
	Cost   int    `json:"cost"`
}

type TeamView struct {
	Slots         []SlotView `json:"slots"`
	RatingSum     int        `json:"rating_sum"`
	RatingAverage float64    `json:"rating_average"`
	Penalty       int        `json:"penalty"`
	WinChance     float64    `json:"win_chance"`
}

type RelaxationView struct {
	Team int    `json:"team"`
	Key  string `json:"key"`
	Role string `json:"role"`
	Rank string `json:"rank"` // "2", "3", ... or "none"
	Note string `json:"note"`
}

type BalanceResponse struct {
	Teams       [2]TeamView      `json:"teams"`
	RatingDiff  int              `json:"rating_diff"`
	Penalty     int              `json:"penalty"`
	Score       int64            `json:"score"`
	DrawChance  float64          `json:"draw_chance"`
	Relaxations []RelaxationView `json:"relaxations"`
}

type ErrorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

type QueueEntry struct {
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name,omitempty"`
	RiotID   string   `json:"riot_id,omitempty"`
	Roles    []string `json:"roles"`
	Fill     bool     `json:"fill,omitempty"`
	Rating   *int     `json:"rating,omitempty"`
}

type QueueStatus struct {
	Code    string           `json:"code"`
	Version int              `json:"version"`
	Count   int              `json:"count"`
	Needed  int              `json:"needed"`
	Waiting int              `json:"waiting,omitempty"`
	Players []QueueEntry     `json:"players"`
	Teams   *BalanceResponse `json:"teams,omitempty"`
}

type ReactionRequest struct {
	PlayerID string `json:"player"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
	Added    *bool  `json:"added,omitempty"` // defaults to true
}

type LinkRequest struct {
	DiscordID string `json:"discord_id"`
	PUUID     string `json:"puuid"`
}
