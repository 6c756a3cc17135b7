package types

import wire "github.com/DoyleJ11/lol-custom-teams/pkg/types"

type ClientMessage struct {
	Type     string `json:"type"` // "React" | "Unreact" | "Reset"
	PlayerID string `json:"player_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

type ServerMessage struct {
	Type    string            `json:"type"` // "QueueSnapshot" | "TeamsReady" | "Error"
	Version int               `json:"version,omitempty"`
	Queue   *wire.QueueStatus `json:"queue,omitempty"`
	Error   string            `json:"error,omitempty"`
}
