package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-custom-teams/internal/hub"
	"github.com/DoyleJ11/lol-custom-teams/internal/lobby"
	"github.com/DoyleJ11/lol-custom-teams/internal/types"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 3 * time.Second
)

func Handler(h *hub.Hub, logger *zap.Logger) http.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.GetLobby{Code: code, Reply: reply}
		lb := <-reply
		if lb == nil {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			logger.Debug("websocket accept", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := make(chan lobby.Snapshot, 8)
		clientID := uuid.NewString()
		log := logger.With(zap.String("lobby", code), zap.String("client", clientID))

		if !send(ctx, lb, lobby.Join{ClientID: clientID, Outbox: out}) {
			return
		}
		defer func() {
			leaveCtx, leaveCancel := context.WithTimeout(context.Background(), time.Second)
			defer leaveCancel()
			send(leaveCtx, lb, lobby.Leave{ClientID: clientID})
		}()

		// Writer goroutine. A closed outbox means the lobby is gone or dropped us.
		go func() {
			defer cancel()
			for snap := range out {
				if err := writeMessage(ctx, conn, types.FromSnapshot(code, snap)); err != nil {
					log.Debug("websocket write", zap.Error(err))
					return
				}
			}
		}()

		// Reader loop
		for {
			readCtx, readCancel := context.WithTimeout(ctx, readTimeout)
			_, data, err := conn.Read(readCtx)
			readCancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("websocket read", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = writeMessage(ctx, conn, types.ServerMessage{Type: "Error", Error: "bad json"})
				continue
			}

			msg, problem := toLobbyMsg(cm)
			if problem != "" {
				_ = writeMessage(ctx, conn, types.ServerMessage{Type: "Error", Error: problem})
				continue
			}
			if !send(ctx, lb, msg) {
				return
			}
		}
	}
}

func toLobbyMsg(m types.ClientMessage) (lobby.Msg, string) {
	switch m.Type {
	case "React", "Unreact":
		if m.PlayerID == "" || m.Role == "" {
			return nil, "player_id and role are required"
		}
		if !lobby.ValidToken(m.Role) {
			return nil, "unknown role: " + m.Role
		}
		return lobby.React{PlayerID: m.PlayerID, Name: m.Name, Token: m.Role, Added: m.Type == "React"}, ""
	case "Reset":
		return lobby.Reset{}, ""
	default:
		return nil, "unknown type"
	}
}

func send(ctx context.Context, lb *lobby.Lobby, msg lobby.Msg) bool {
	return lb.Send(ctx, msg) == nil
}

func writeMessage(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}
