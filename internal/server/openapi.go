package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "PhotoQuiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the photo geography-guessing game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/images
	listImages, _ := r.NewOperationContext(http.MethodGet, "/api/images")
	listImages.SetSummary("List catalog images")
	listImages.SetDescription("Returns all playable images without their true locations.")
	listImages.AddRespStructure([]ImageInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listImages)

	// GET /api/images/{imageID}
	getImage, _ := r.NewOperationContext(http.MethodGet, "/api/images/{imageID}")
	getImage.SetSummary("Get image")
	getImage.SetDescription("Returns a single catalog image without its true location.")
	getImage.AddRespStructure(ImageInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	getImage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getImage)

	// POST /api/session
	startSession, _ := r.NewOperationContext(http.MethodPost, "/api/session")
	startSession.SetSummary("Start session")
	startSession.SetDescription("Creates a new game session with a freshly shuffled image order and returns the first image.")
	startSession.AddRespStructure(StartSessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	startSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(startSession)

	// POST /api/session/{sessionID}/guess
	submitGuess, _ := r.NewOperationContext(http.MethodPost, "/api/session/{sessionID}/guess")
	submitGuess.SetSummary("Submit guess")
	submitGuess.SetDescription("Scores the pending round. Rounds are write-once: a duplicate submission is rejected with 409.")
	submitGuess.AddReqStructure(GuessRequest{})
	submitGuess.AddRespStructure(SubmitGuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	submitGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	submitGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	submitGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(submitGuess)

	// GET /api/session/{sessionID}/summary
	getSummary, _ := r.NewOperationContext(http.MethodGet, "/api/session/{sessionID}/summary")
	getSummary.SetSummary("Session summary")
	getSummary.SetDescription("Returns session totals plus every scored round with its solution.")
	getSummary.AddRespStructure(SessionSummaryResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSummary.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSummary)

	// POST /api/guess
	practiceGuess, _ := r.NewOperationContext(http.MethodPost, "/api/guess")
	practiceGuess.SetSummary("Practice guess")
	practiceGuess.SetDescription("Scores a single image outside any session. No bonus, nothing persisted beyond the guess log.")
	practiceGuess.AddReqStructure(PracticeGuessRequest{})
	practiceGuess.AddRespStructure(PracticeGuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	practiceGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	practiceGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(practiceGuess)

	// GET /api/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getLeaderboard.SetSummary("Get leaderboard")
	getLeaderboard.SetDescription("Returns the top entries ordered by score, ties broken by submission order.")
	getLeaderboard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLeaderboard)

	// POST /api/leaderboard
	addEntry, _ := r.NewOperationContext(http.MethodPost, "/api/leaderboard")
	addEntry.SetSummary("Add leaderboard entry")
	addEntry.SetDescription("Registers a finished session on the leaderboard. Resubmitting the same session returns the unchanged ranking.")
	addEntry.AddReqStructure(AddLeaderboardRequest{})
	addEntry.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	addEntry.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	addEntry.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	addEntry.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(addEntry)

	// GET /api/leaderboard/placement
	getPlacement, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard/placement")
	getPlacement.SetSummary("Prospective placement")
	getPlacement.SetDescription("Returns the rank a score would hold among current entries (ties share the better rank).")
	getPlacement.AddRespStructure(PlacementResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getPlacement.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getPlacement)

	// GET /api/leaderboard/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard/events")
	getEvents.SetSummary("Leaderboard event stream")
	getEvents.SetDescription("Server-Sent Events stream of new leaderboard entries.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/leaderboard
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/leaderboard")
	getWS.SetSummary("Leaderboard websocket feed")
	getWS.SetDescription("Upgrades to a WebSocket that mirrors the leaderboard event stream.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
