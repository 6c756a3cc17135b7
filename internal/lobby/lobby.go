package lobby

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-custom-teams/internal/engine"
	"github.com/DoyleJ11/lol-custom-teams/internal/rating"
)

// ErrClosed is returned by Send once the lobby has shut down.
var ErrClosed = errors.New("lobby closed")

type Msg interface{ isLobbyMsg() }

// React adds or removes one role reaction for a player.
type React struct {
	PlayerID string
	Name     string
	Token    string // role name, alias or FillToken
	Added    bool
	Reply    chan Snapshot // optional, buffered: receives the snapshot after the reaction
}

func (React) isLobbyMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

// Reset empties the queue without forming teams.
type Reset struct{}

func (Reset) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type ratingResolved struct {
	PlayerID string
	Rating   int
	RiotID   string
}

func (ratingResolved) isLobbyMsg() {}

type Entry struct {
	PlayerID    string
	Name        string
	Roles       []engine.Role
	Fill        bool
	Rating      int
	RatingKnown bool
	RiotID      string // gameName#tagLine of the linked account, if known
}

type Status struct {
	Count   int
	Waiting int // players beyond the first ten
	Players []Entry
}

type Teams struct {
	Report     engine.Report
	Prediction rating.Prediction
}

// Snapshot is broadcast after every change. Teams is set when the queue filled up;
// the queue is empty again afterwards.
type Snapshot struct {
	Version int
	Status  Status
	Teams   *Teams
}

type View struct {
	Version    int
	NumClients int
	Status     Status
	LastTeams  *Teams
}

type Lobby struct {
	code      string
	inbox     chan Msg
	queue     *queue
	version   int
	lastTeams *Teams
	clients   map[string]chan Snapshot
	resolver  *rating.Resolver
	logger    *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewLobby(parent context.Context, code string, resolver *rating.Resolver, logger *zap.Logger) *Lobby {
	ctx, cancel := context.WithCancel(parent)
	if resolver == nil {
		resolver = rating.NewResolver(nil, logger, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Lobby{
		code:     code,
		inbox:    make(chan Msg, 64), // Small buffer
		queue:    newQueue(),
		clients:  make(map[string]chan Snapshot),
		resolver: resolver,
		logger:   logger.With(zap.String("lobby", code)),
		ctx:      ctx,
		cancel:   cancel,
	}

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				l.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- l.snapshot(nil)

			case Leave:
				delete(l.clients, msg.ClientID)

			case React:
				changed, joined := l.queue.react(msg)
				if joined {
					l.prefetchRating(msg.PlayerID)
				}
				var teams *Teams
				if changed {
					l.version++
					if teams = l.tryMakeTeams(); teams != nil {
						l.queue.clear()
					}
					l.broadcast(l.snapshot(teams))
				}
				if msg.Reply != nil {
					msg.Reply <- l.snapshot(teams)
				}

			case ratingResolved:
				v := l.queue.votes[msg.PlayerID]
				if v == nil || v.rated {
					break
				}
				v.rating, v.rated, v.riotID = msg.Rating, true, msg.RiotID
				// The last pending rating may complete a full queue.
				if teams := l.tryMakeTeams(); teams != nil {
					l.version++
					l.queue.clear()
					l.broadcast(l.snapshot(teams))
				}

			case Reset:
				l.queue.clear()
				l.version++
				l.broadcast(l.snapshot(nil))

			case GetState:
				// reflect internal state without data races
				msg.Reply <- View{
					Version:    l.version,
					NumClients: len(l.clients),
					Status:     l.queue.status(),
					LastTeams:  l.lastTeams,
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

// prefetchRating resolves a new player's rating off the loop so status snapshots can show it.
func (l *Lobby) prefetchRating(playerID string) {
	go func() {
		r := l.resolver.Resolve(l.ctx, playerID)
		id, _ := l.resolver.RiotID(playerID)
		select {
		case l.inbox <- ratingResolved{PlayerID: playerID, Rating: r, RiotID: id}:
		case <-l.ctx.Done():
		}
	}()
}

func (l *Lobby) tryMakeTeams() *Teams {
	active := l.queue.active()
	if len(active) < engine.PlayerCount {
		return nil
	}

	// Lookups never run on the loop: an unrated player's prefetch is still in
	// flight and its ratingResolved message retries team formation.
	for _, v := range active {
		if v.rated {
			continue
		}
		r, ok := l.resolver.Cached(v.playerID)
		if !ok {
			return nil
		}
		v.rating, v.rated = r, true
		v.riotID, _ = l.resolver.RiotID(v.playerID)
	}

	players := make([]engine.Player, 0, len(active))
	for _, v := range active {
		name := v.name
		if name == "" {
			name = v.riotID
		}
		players = append(players, engine.Player{
			Key:         v.playerID,
			DisplayName: name,
			Rating:      v.rating,
			Preferences: v.preferences(),
		})
	}

	report, err := engine.Balance(players)
	if err != nil {
		// The queue only admits valid roles and unique ids.
		l.logger.Error("balancing failed", zap.Error(err))
		return nil
	}

	teams := &Teams{Report: report, Prediction: rating.Predict(ratingsOf(report.Teams[0]), ratingsOf(report.Teams[1]))}
	l.lastTeams = teams
	l.logger.Info("teams formed",
		zap.Int("penalty", report.TotalPenalty),
		zap.Int("rating_diff", report.RatingDiff),
		zap.Int("relaxations", len(report.Relaxations)))
	return teams
}

func ratingsOf(t engine.TeamReport) []int {
	out := make([]int, 0, engine.TeamSize)
	for _, p := range t.Assignment.Players() {
		out = append(out, p.Rating)
	}
	return out
}

func (l *Lobby) snapshot(teams *Teams) Snapshot {
	return Snapshot{Version: l.version, Status: l.queue.status(), Teams: teams}
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch) // Tell client no more snapshots
		delete(l.clients, id)
	}
	l.cancel()
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(l.clients, id)
		}
	}
}

func (l *Lobby) Code() string { return l.code }

// Done is closed once the lobby has shut down.
func (l *Lobby) Done() <-chan struct{} { return l.ctx.Done() }

// Send delivers msg unless the lobby has stopped or ctx ends first.
func (l *Lobby) Send(ctx context.Context, msg Msg) error {
	select {
	case <-l.ctx.Done():
		return ErrClosed
	default:
	}
	select {
	case l.inbox <- msg:
		return nil
	case <-l.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }
