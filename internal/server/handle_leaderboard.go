package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/snapguess/photoquiz/internal/game"
)

const maxNameLength = 128

type LeaderboardItem struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardItem `json:"entries"`
}

type AddLeaderboardRequest struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
}

type PlacementResponse struct {
	Score int `json:"score"`
	Rank  int `json:"rank"`
}

func leaderboardResponse(entries []game.LeaderboardEntry) LeaderboardResponse {
	items := make([]LeaderboardItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, LeaderboardItem{Rank: e.Rank, Name: e.Name, Score: e.Score})
	}
	return LeaderboardResponse{Entries: items}
}

func handleGetLeaderboard(store Store, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := store.ListLeaderboard(r.Context(), opts.LeaderboardLimit)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, leaderboardResponse(entries))
	}
}

func handleAddLeaderboardEntry(store Store, broker *Broker, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddLeaderboardRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" || req.SessionID == "" {
			writeError(w, http.StatusBadRequest, "name and sessionId are required")
			return
		}
		if len(req.Name) > maxNameLength {
			// Back up to a rune boundary so the cut never stores
			// invalid UTF-8.
			cut := maxNameLength
			for cut > 0 && !utf8.RuneStart(req.Name[cut]) {
				cut--
			}
			req.Name = req.Name[:cut]
		}

		err := store.AddLeaderboardEntry(r.Context(), req.SessionID, req.Name)
		if err != nil && !errors.Is(err, game.ErrAlreadySubmitted) {
			writeStoreError(w, err)
			return
		}
		// ErrAlreadySubmitted falls through: resubmission is a documented
		// no-op that returns the current ranking unchanged.

		entries, listErr := store.ListLeaderboard(r.Context(), opts.LeaderboardLimit)
		if listErr != nil {
			writeStoreError(w, listErr)
			return
		}

		if err == nil {
			for _, e := range entries {
				if e.SessionID == req.SessionID {
					broker.Publish(LeaderboardEvent{
						Type:  "entry_added",
						Name:  e.Name,
						Score: e.Score,
						Rank:  e.Rank,
					})
					break
				}
			}
		}

		writeJSON(w, http.StatusOK, leaderboardResponse(entries))
	}
}

func handlePlacement(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		score, err := strconv.Atoi(r.URL.Query().Get("score"))
		if err != nil || score < 0 {
			writeError(w, http.StatusBadRequest, "score query parameter must be a non-negative integer")
			return
		}

		rank, err := store.Placement(r.Context(), score)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, PlacementResponse{Score: score, Rank: rank})
	}
}
