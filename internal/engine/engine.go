package engine

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

var ErrInvalidInput = errors.New("invalid input")
var ErrPlayerCount = errors.New("wrong number of players")
var ErrDuplicatePlayer = errors.New("duplicate player key")
var ErrUnknownRole = errors.New("unknown role")
var ErrDuplicateRole = errors.New("duplicate role preference")
var ErrRatingRange = errors.New("rating out of range")

const (
	TeamSize    = 5
	PlayerCount = 2 * TeamSize

	// MaxRating keeps a full team's rating sum below RolePenaltyWeight, so no
	// rating difference can outweigh a single role penalty point in Score.
	MaxRating = (RolePenaltyWeight - 1) / TeamSize
)

// InvalidInputError collects every problem found in a roster. errors.Is matches
// ErrInvalidInput as well as each individual sentinel.
type InvalidInputError struct {
	Err error
}

func (e *InvalidInputError) Error() string {
	msgs := make([]string, 0, 4)
	for _, err := range multierr.Errors(e.Err) {
		msgs = append(msgs, err.Error())
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// Problems returns the individual validation failures.
func (e *InvalidInputError) Problems() []error { return multierr.Errors(e.Err) }

type Player struct {
	Key         string
	DisplayName string
	Rating      int
	// Preferences is ordered, most preferred first. Empty means any role.
	Preferences []Role
}

func (p Player) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Key
}

// Validate checks a ten-player roster without balancing it: player count, unique
// keys, rating range and preference lists.
func Validate(players []Player) error {
	return validate(players, PlayerCount)
}

func validate(players []Player, want int) error {
	var err error
	if len(players) != want {
		err = multierr.Append(err, fmt.Errorf("%w: need exactly %d players, got %d", ErrPlayerCount, want, len(players)))
	}

	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if seen[p.Key] {
			err = multierr.Append(err, fmt.Errorf("%w: %q", ErrDuplicatePlayer, p.Key))
		}
		seen[p.Key] = true

		if p.Rating < 0 || p.Rating > MaxRating {
			err = multierr.Append(err, fmt.Errorf("%w: %q has %d, want 0..%d", ErrRatingRange, p.Key, p.Rating, MaxRating))
		}

		if len(p.Preferences) > NumRoles {
			err = multierr.Append(err, fmt.Errorf("%w: %q lists %d roles", ErrDuplicateRole, p.Key, len(p.Preferences)))
			continue
		}
		roles := make(map[Role]bool, len(p.Preferences))
		for _, r := range p.Preferences {
			if !r.Valid() {
				err = multierr.Append(err, fmt.Errorf("%w: %q for player %q", ErrUnknownRole, r, p.Key))
				continue
			}
			if roles[r] {
				err = multierr.Append(err, fmt.Errorf("%w: %s for player %q", ErrDuplicateRole, r, p.Key))
			}
			roles[r] = true
		}
	}

	if err != nil {
		return &InvalidInputError{Err: err}
	}
	return nil
}
