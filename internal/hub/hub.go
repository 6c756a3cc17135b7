package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-custom-teams/internal/lobby"
	"github.com/DoyleJ11/lol-custom-teams/internal/rating"
)

type HubMsg interface{ isHubMsg() }

type CreateLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

// EnsureLobby returns the lobby for Code, creating it if needed.
type EnsureLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

type RemoveLobby struct {
	Code  string
	Reply chan bool // optional: whether a lobby was removed
}

type Hub struct {
	inbox    chan HubMsg
	lobbies  map[string]*lobby.Lobby
	resolver *rating.Resolver
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

type ShutdownHub struct{}

func (CreateLobby) isHubMsg() {}
func (GetLobby) isHubMsg()    {}
func (EnsureLobby) isHubMsg() {}
func (RemoveLobby) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

// NewHub starts the registry. Every lobby it creates shares resolver so ratings are
// fetched once per player.
func NewHub(parent context.Context, resolver *rating.Resolver, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		lobbies:  make(map[string]*lobby.Lobby),
		resolver: resolver,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				msg.Reply <- h.ensure(msg.Code)

			case GetLobby:
				msg.Reply <- h.lobbies[msg.Code] // May be nil

			case EnsureLobby:
				msg.Reply <- h.ensure(msg.Code)

			case RemoveLobby:
				lb, ok := h.lobbies[msg.Code]
				if ok {
					lb.Inbox() <- lobby.Shutdown{}
					delete(h.lobbies, msg.Code)
					h.logger.Info("lobby removed", zap.String("lobby", msg.Code))
				}
				if msg.Reply != nil {
					msg.Reply <- ok
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) ensure(code string) *lobby.Lobby {
	if lb := h.lobbies[code]; lb != nil {
		return lb
	}
	lb := lobby.NewLobby(h.ctx, code, h.resolver, h.logger)
	h.lobbies[code] = lb
	h.logger.Info("lobby created", zap.String("lobby", code))
	return lb
}

func (h *Hub) shutdown() {
	for _, lb := range h.lobbies {
		select {
		case lb.Inbox() <- lobby.Shutdown{}:
		default:
			// Lobby contexts derive from ours; cancel below stops them regardless.
		}
	}
	clear(h.lobbies)
	h.cancel()
}
