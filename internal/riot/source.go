package riot

import (
	"context"
	"fmt"

	"github.com/DoyleJ11/lol-custom-teams/internal/rating"
)

// AccountLookup lists the Riot PUUIDs linked to a player key, oldest link first.
type AccountLookup interface {
	PUUIDs(ctx context.Context, discordID string) ([]string, error)
}

// RatingSource rates players from the ranked standing of their most recently linked account.
type RatingSource struct {
	Client   *Client
	Accounts AccountLookup
}

var (
	_ rating.Source = (*RatingSource)(nil)
	_ rating.Namer  = (*RatingSource)(nil)
)

func (s *RatingSource) Lookup(ctx context.Context, key string) (int, bool, error) {
	puuids, err := s.Accounts.PUUIDs(ctx, key)
	if err != nil {
		return 0, false, fmt.Errorf("linked accounts for %s: %w", key, err)
	}
	if len(puuids) == 0 {
		return 0, false, nil
	}

	entries, err := s.Client.LeagueEntriesByPUUID(ctx, puuids[len(puuids)-1])
	if err != nil {
		return 0, false, err
	}
	r, ok := rating.FromEntries(entries)
	return r, ok, nil
}

// RiotID names a player by the Riot ID of their most recently linked account.
func (s *RatingSource) RiotID(ctx context.Context, key string) (string, error) {
	puuids, err := s.Accounts.PUUIDs(ctx, key)
	if err != nil {
		return "", fmt.Errorf("linked accounts for %s: %w", key, err)
	}
	if len(puuids) == 0 {
		return "", nil
	}
	acc, err := s.Client.AccountByPUUID(ctx, puuids[len(puuids)-1])
	if err != nil {
		return "", err
	}
	return acc.RiotID(), nil
}
