package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-custom-teams/internal/rating"
	"github.com/DoyleJ11/lol-custom-teams/internal/store"
	wire "github.com/DoyleJ11/lol-custom-teams/pkg/types"
)

type AccountStore interface {
	Link(ctx context.Context, discordID, puuid string) error
	Unlink(ctx context.Context, discordID string) error
}

func LinkAccount(accounts AccountStore, resolver *rating.Resolver, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if accounts == nil {
			writeError(w, http.StatusServiceUnavailable, "account linking is not configured")
			return
		}

		var req wire.LinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DiscordID == "" || req.PUUID == "" {
			writeError(w, http.StatusBadRequest, "discord_id and puuid are required")
			return
		}

		err := accounts.Link(r.Context(), req.DiscordID, req.PUUID)
		switch {
		case errors.Is(err, store.ErrAlreadyLinked):
			writeError(w, http.StatusConflict, err.Error())
			return
		case err != nil:
			logger.Error("link account", zap.String("discord_id", req.DiscordID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to link account")
			return
		}

		resolver.Forget(req.DiscordID)
		writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
	}
}

func UnlinkAccount(accounts AccountStore, resolver *rating.Resolver, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if accounts == nil {
			writeError(w, http.StatusServiceUnavailable, "account linking is not configured")
			return
		}

		discordID := chi.URLParam(r, "discordID")
		err := accounts.Unlink(r.Context(), discordID)
		switch {
		case errors.Is(err, store.ErrNotLinked):
			writeError(w, http.StatusNotFound, err.Error())
			return
		case err != nil:
			logger.Error("unlink account", zap.String("discord_id", discordID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to unlink account")
			return
		}

		resolver.Forget(discordID)
		w.WriteHeader(http.StatusNoContent)
	}
}
