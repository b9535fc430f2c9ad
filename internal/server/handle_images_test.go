package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestListImages(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()

	var infos []ImageInfo
	json.NewDecoder(strings.NewReader(body)).Decode(&infos)
	if len(infos) != len(testImages) {
		t.Fatalf("got %d images, want %d", len(infos), len(testImages))
	}
	for _, info := range infos {
		if info.ID == "" || info.URL == "" {
			t.Errorf("image missing id or url: %+v", info)
		}
	}

	// The public listing must not leak true locations.
	if strings.Contains(body, `"lat"`) {
		t.Error("image listing leaks coordinates")
	}
}

func TestGetImage(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/images/paris", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var info ImageInfo
	json.NewDecoder(w.Body).Decode(&info)
	if info.ID != "paris" || info.Title != "Pont Neuf" {
		t.Errorf("image = %+v, want paris/Pont Neuf", info)
	}
	if info.URL != "/images/paris.jpg" {
		t.Errorf("url = %q, want /images/paris.jpg", info.URL)
	}
}

func TestGetImageNotFound(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/images/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestPracticeGuess(t *testing.T) {
	r, _ := newTestServer(t)

	target := imageByID(t, "tokyo")
	body, _ := json.Marshal(PracticeGuessRequest{
		ImageID: "tokyo",
		Guess:   GuessPayload{Lat: &target.Location.Lat, Lng: &target.Location.Lng},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/guess", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp PracticeGuessResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if resp.DistanceMeters != 0 {
		t.Errorf("distanceMeters = %v, want 0", resp.DistanceMeters)
	}
	// Practice guesses score the base only, no bonus.
	if resp.Score != 5000 {
		t.Errorf("score = %d, want 5000", resp.Score)
	}
	if resp.Solution.Lat != target.Location.Lat {
		t.Errorf("solution lat = %v, want %v", resp.Solution.Lat, target.Location.Lat)
	}
}

func TestPracticeGuessValidation(t *testing.T) {
	r, _ := newTestServer(t)

	for _, body := range []string{
		`{}`,
		`{"imageId": "tokyo"}`,
		`{"guess": {"lat": 1, "lng": 2}}`,
		`{"imageId": "nope", "guess": {"lat": 1, "lng": 2}}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/guess", bytes.NewReader([]byte(body)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest && w.Code != http.StatusNotFound {
			t.Errorf("body %q: expected 400/404, got %d", body, w.Code)
		}
	}
}
