package handlers

import (
	"net/http"
	"strconv"

	"github.com/kmadiyev/kumite/middleware"
	"github.com/kmadiyev/kumite/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

type reportResultRequest struct {
	Score1 int `json:"score1"`
	Score2 int `json:"score2"`
}

func (h *MatchHandler) ReportResultHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input reportResultRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	output, err := h.matchService.ReportResult(r.Context(), matchID, input.Score1, input.Score2)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": output}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *MatchHandler) ListTournamentMatchesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var round *int
	if raw := r.URL.Query().Get("round"); raw != "" {
		value, parseErr := strconv.Atoi(raw)
		if parseErr != nil || value < 1 {
			badRequestResponse(w, errInvalidQueryParam("round"))
			return
		}
		round = &value
	}

	matches, err := h.matchService.ListByTournament(r.Context(), tournamentID, round)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}); err != nil {
		serverErrorResponse(w, err)
	}
}
