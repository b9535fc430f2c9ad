package server

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snapguess/photoquiz/internal/game"
	"github.com/snapguess/photoquiz/internal/geo"
	"github.com/snapguess/photoquiz/internal/scoring"
)

// GuessPayload uses pointers so a missing coordinate is distinguishable
// from 0,0 (a real place in the Gulf of Guinea).
type GuessPayload struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type GuessRequest struct {
	Guess GuessPayload `json:"guess"`
}

type Solution struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Title    string  `json:"title,omitempty"`
	Subtitle string  `json:"subtitle,omitempty"`
	IGLink   string  `json:"igLink,omitempty"`
}

// RoundResult reveals the outcome of a scored round, including the true
// location the player was guessing at.
type RoundResult struct {
	RoundNumber    int            `json:"roundNumber"`
	DistanceMeters float64        `json:"distanceMeters"`
	Score          int            `json:"score"`
	RoundBonus     int            `json:"roundBonus"`
	Guess          geo.Coordinate `json:"guess"`
	Solution       Solution       `json:"solution"`
}

type SubmitGuessResponse struct {
	Round     RoundResult   `json:"round"`
	Totals    SessionTotals `json:"totals"`
	NextImage *ImageInfo    `json:"nextImage,omitempty"`
}

func (p GuessPayload) coordinate() (geo.Coordinate, bool) {
	if p.Lat == nil || p.Lng == nil {
		return geo.Coordinate{}, false
	}
	if *p.Lat < -90 || *p.Lat > 90 || math.IsNaN(*p.Lat) || math.IsNaN(*p.Lng) || math.IsInf(*p.Lat, 0) || math.IsInf(*p.Lng, 0) {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Lat: *p.Lat, Lng: *p.Lng}.Normalized(), true
}

func roundResult(rd game.Round, img game.Image) RoundResult {
	return RoundResult{
		RoundNumber:    rd.RoundNumber,
		DistanceMeters: rd.DistanceMeters,
		Score:          rd.Score,
		RoundBonus:     rd.Bonus,
		Guess:          rd.Guess,
		Solution: Solution{
			Lat:      img.Location.Lat,
			Lng:      img.Location.Lng,
			Title:    img.Title,
			Subtitle: img.Subtitle,
			IGLink:   img.IGLink,
		},
	}
}

func handleSubmitGuess(logger *slog.Logger, store Store, policy scoring.Policy, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		var req GuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		guess, ok := req.Guess.coordinate()
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid or missing guess coordinates")
			return
		}

		sess, err := store.GetSession(r.Context(), sessionID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if sess.Finished {
			writeStoreError(w, game.ErrSessionFinished)
			return
		}

		img, err := store.GetImage(r.Context(), sess.CurrentImageID())
		if err != nil {
			writeStoreError(w, err)
			return
		}

		distance := roundMeters(geo.Distance(guess, img.Location))
		base, bonus := policy.Score(distance)

		scored, err := store.AppendRound(r.Context(), game.Round{
			SessionID:      sess.ID,
			RoundNumber:    sess.RoundsPlayed + 1,
			ImageID:        img.ID,
			Guess:          guess,
			DistanceMeters: distance,
			Score:          base + bonus,
			Bonus:          bonus,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}

		if err := store.RecordGuess(r.Context(), game.GuessLog{
			SessionID:      sess.ID,
			ImageID:        img.ID,
			Guess:          guess,
			DistanceMeters: distance,
		}); err != nil {
			logger.Warn("recording guess log failed", "session_id", sess.ID, "error", err)
		}

		resp := SubmitGuessResponse{
			Round: roundResult(game.Round{
				RoundNumber:    sess.RoundsPlayed + 1,
				DistanceMeters: distance,
				Score:          base + bonus,
				Bonus:          bonus,
				Guess:          guess,
			}, img),
			Totals: sessionTotals(scored),
		}

		if !scored.Finished {
			next, err := store.GetImage(r.Context(), scored.CurrentImageID())
			if err != nil {
				writeStoreError(w, err)
				return
			}
			resp.NextImage = imageInfo(next, opts)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// PracticeGuessRequest scores a single image outside any session.
type PracticeGuessRequest struct {
	ImageID string       `json:"imageId"`
	Guess   GuessPayload `json:"guess"`
}

type PracticeGuessResponse struct {
	DistanceMeters float64  `json:"distanceMeters"`
	Score          int      `json:"score"`
	Solution       Solution `json:"solution"`
}

func handlePracticeGuess(logger *slog.Logger, store Store, policy scoring.Policy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PracticeGuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ImageID == "" {
			writeError(w, http.StatusBadRequest, "imageId is required")
			return
		}
		guess, ok := req.Guess.coordinate()
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid or missing guess coordinates")
			return
		}

		img, err := store.GetImage(r.Context(), req.ImageID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		distance := roundMeters(geo.Distance(guess, img.Location))
		base, _ := policy.Score(distance)

		if err := store.RecordGuess(r.Context(), game.GuessLog{
			ImageID:        img.ID,
			Guess:          guess,
			DistanceMeters: distance,
		}); err != nil {
			logger.Warn("recording guess log failed", "image_id", img.ID, "error", err)
		}

		writeJSON(w, http.StatusOK, PracticeGuessResponse{
			DistanceMeters: distance,
			Score:          base,
			Solution: Solution{
				Lat:      img.Location.Lat,
				Lng:      img.Location.Lng,
				Title:    img.Title,
				Subtitle: img.Subtitle,
			},
		})
	}
}

func roundMeters(d float64) float64 {
	return math.Round(d*100) / 100
}
