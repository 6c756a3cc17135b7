package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-custom-teams/internal/engine"
	"github.com/DoyleJ11/lol-custom-teams/internal/hub"
	"github.com/DoyleJ11/lol-custom-teams/internal/lobby"
	"github.com/DoyleJ11/lol-custom-teams/internal/rating"
	"github.com/DoyleJ11/lol-custom-teams/internal/render"
	"github.com/DoyleJ11/lol-custom-teams/internal/types"
	wire "github.com/DoyleJ11/lol-custom-teams/pkg/types"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, wire.ErrorResponse{Error: msg})
}

// writeInvalid reports every validation problem so callers can fix the roster in one go.
func writeInvalid(w http.ResponseWriter, err error) {
	resp := wire.ErrorResponse{Error: err.Error()}
	var inv *engine.InvalidInputError
	if errors.As(err, &inv) {
		resp.Error = engine.ErrInvalidInput.Error()
		for _, p := range inv.Problems() {
			resp.Problems = append(resp.Problems, p.Error())
		}
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

// Balance plans teams for a roster posted in one request.
func Balance(resolver *rating.Resolver, workers int, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req wire.BalanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}

		players := make([]engine.Player, 0, len(req.Players))
		var unrated []string
		for _, in := range req.Players {
			if in.Key == "" {
				writeError(w, http.StatusBadRequest, "player key is required")
				return
			}
			roles, err := engine.ParseRoles(in.Roles)
			if err != nil {
				writeInvalid(w, err)
				return
			}
			p := engine.Player{Key: in.Key, DisplayName: in.Name, Preferences: roles}
			if in.Rating != nil {
				p.Rating = *in.Rating
			} else {
				unrated = append(unrated, in.Key)
			}
			players = append(players, p)
		}
		// Reject bad rosters before any rating lookup leaves the process.
		if err := engine.Validate(players); err != nil {
			writeInvalid(w, err)
			return
		}
		if len(unrated) > 0 {
			ratings := resolver.ResolveAll(r.Context(), unrated)
			for i, in := range req.Players {
				if in.Rating == nil {
					players[i].Rating = ratings[in.Key]
				}
			}
		}

		var rep engine.Report
		var err error
		if workers > 1 {
			rep, err = engine.BalanceParallel(r.Context(), players, workers)
		} else {
			rep, err = engine.Balance(players)
		}
		if errors.Is(err, engine.ErrInvalidInput) {
			writeInvalid(w, err)
			return
		}
		if err != nil {
			logger.Error("balance failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "balance failed")
			return
		}

		if r.URL.Query().Get("format") == "text" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte(render.Text(rep)))
			return
		}

		pred := rating.Predict(teamRatings(rep.Teams[0]), teamRatings(rep.Teams[1]))
		writeJSON(w, http.StatusOK, types.BalanceResponse(rep, pred))
	}
}

func teamRatings(t engine.TeamReport) []int {
	out := make([]int, 0, engine.TeamSize)
	for _, p := range t.Assignment.Players() {
		out = append(out, p.Rating)
	}
	return out
}

func CreateLobby(h *hub.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to generate code")
				return
			}
			reply := make(chan *lobby.Lobby, 1)
			h.Inbox() <- hub.GetLobby{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			logger.Debug("collision on code, regenerating", zap.String("code", c))
		}

		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.EnsureLobby{Code: code, Reply: reply}
		if <-reply == nil {
			writeError(w, http.StatusInternalServerError, "failed to create lobby")
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func findLobby(h *hub.Hub, r *http.Request) *lobby.Lobby {
	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- hub.GetLobby{Code: chi.URLParam(r, "code"), Reply: reply}
	return <-reply
}

// ask sends msg and waits for its reply, giving up when the lobby stops or the
// request ends.
func ask[T any](ctx context.Context, lb *lobby.Lobby, msg lobby.Msg, reply <-chan T) (T, error) {
	var zero T
	if err := lb.Send(ctx, msg); err != nil {
		return zero, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-lb.Done():
		select {
		case v := <-reply:
			return v, nil
		default:
			return zero, lobby.ErrClosed
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func writeLobbyGone(w http.ResponseWriter, err error) {
	if errors.Is(err, lobby.ErrClosed) {
		writeError(w, http.StatusNotFound, "lobby not found")
	}
	// Otherwise the client went away; nobody reads the response.
}

func GetLobby(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lb := findLobby(h, r)
		if lb == nil {
			writeError(w, http.StatusNotFound, "lobby not found")
			return
		}

		reply := make(chan lobby.View, 1)
		view, err := ask(r.Context(), lb, lobby.GetState{Reply: reply}, reply)
		if err != nil {
			writeLobbyGone(w, err)
			return
		}
		writeJSON(w, http.StatusOK, types.QueueStatus(lb.Code(), view.Version, view.Status, view.LastTeams))
	}
}

func React(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lb := findLobby(h, r)
		if lb == nil {
			writeError(w, http.StatusNotFound, "lobby not found")
			return
		}

		var req wire.ReactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" || req.Role == "" {
			writeError(w, http.StatusBadRequest, "player and role are required")
			return
		}
		if !lobby.ValidToken(req.Role) {
			writeError(w, http.StatusBadRequest, "unknown role: "+req.Role)
			return
		}
		added := req.Added == nil || *req.Added

		reply := make(chan lobby.Snapshot, 1)
		msg := lobby.React{PlayerID: req.PlayerID, Name: req.Name, Token: req.Role, Added: added, Reply: reply}
		snap, err := ask(r.Context(), lb, msg, reply)
		if err != nil {
			writeLobbyGone(w, err)
			return
		}
		writeJSON(w, http.StatusOK, types.QueueStatus(lb.Code(), snap.Version, snap.Status, snap.Teams))
	}
}

func DeleteLobby(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan bool, 1)
		h.Inbox() <- hub.RemoveLobby{Code: chi.URLParam(r, "code"), Reply: reply}
		if !<-reply {
			writeError(w, http.StatusNotFound, "lobby not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
