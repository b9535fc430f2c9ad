package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/snapguess/photoquiz/internal/game"
)

// ImageInfo is the public view of a catalog image: no true location.
type ImageInfo struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	IGLink   string `json:"igLink,omitempty"`
}

// SessionTotals is the running score block returned with every mutation.
type SessionTotals struct {
	RoundLimit   int  `json:"roundLimit"`
	RoundsPlayed int  `json:"roundsPlayed"`
	TotalScore   int  `json:"totalScore"`
	BonusTotal   int  `json:"bonusTotal"`
	Finished     bool `json:"finished"`
}

type StartSessionResponse struct {
	SessionID string     `json:"sessionId"`
	SessionTotals
	NextImage *ImageInfo `json:"nextImage,omitempty"`
}

type SessionSummaryResponse struct {
	SessionTotals
	Rounds []RoundResult `json:"rounds"`
}

func sessionTotals(sess game.Session) SessionTotals {
	return SessionTotals{
		RoundLimit:   sess.RoundLimit,
		RoundsPlayed: sess.RoundsPlayed,
		TotalScore:   sess.TotalScore,
		BonusTotal:   sess.BonusTotal,
		Finished:     sess.Finished,
	}
}

func imageInfo(img game.Image, opts Options) *ImageInfo {
	return &ImageInfo{
		ID:       img.ID,
		URL:      publicURL(opts.PublicBaseURL, img.RelativeURL),
		Title:    img.Title,
		Subtitle: img.Subtitle,
		IGLink:   img.IGLink,
	}
}

func publicURL(base, relative string) string {
	rel := strings.TrimPrefix(relative, "/")
	if base != "" {
		return strings.TrimSuffix(base, "/") + "/" + rel
	}
	return "/" + rel
}

func handleStartSession(store Store, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		images, err := store.ListImages(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}

		ids := make([]string, len(images))
		byID := make(map[string]game.Image, len(images))
		for i, img := range images {
			ids[i] = img.ID
			byID[img.ID] = img
		}

		order, err := game.ImageOrder(ids, opts.RoundLimit)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		sess, err := store.CreateSession(r.Context(), order, opts.RoundLimit)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		first := byID[sess.CurrentImageID()]
		writeJSON(w, http.StatusOK, StartSessionResponse{
			SessionID:     sess.ID,
			SessionTotals: sessionTotals(sess),
			NextImage:     imageInfo(first, opts),
		})
	}
}

func handleSessionSummary(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		sess, err := store.GetSession(r.Context(), sessionID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		rounds, err := store.SessionRounds(r.Context(), sessionID)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		resp := SessionSummaryResponse{
			SessionTotals: sessionTotals(sess),
			Rounds:        make([]RoundResult, 0, len(rounds)),
		}
		for _, rd := range rounds {
			img, err := store.GetImage(r.Context(), rd.ImageID)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			resp.Rounds = append(resp.Rounds, roundResult(rd, img))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
