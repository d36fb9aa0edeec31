package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/kmadiyev/kumite/brackets"
	"github.com/kmadiyev/kumite/middleware"
	"github.com/kmadiyev/kumite/models"
	"github.com/kmadiyev/kumite/services"
)

// Default card geometry for the layout endpoint, overridable per request.
var defaultLayout = brackets.LayoutConfig{
	CardWidth:  220,
	CardHeight: 90,
	ColumnGap:  80,
	RowGap:     20,
}

type TournamentHandler struct {
	tournamentService services.TournamentService
	bracketService    services.BracketService
}

func NewTournamentHandler(tournamentService services.TournamentService, bracketService services.BracketService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: tournamentService,
		bracketService:    bracketService,
	}
}

type createTournamentRequest struct {
	Name            string  `json:"name"`
	Game            *string `json:"game"`
	MaxParticipants int     `json:"max_participants"`
	BestOf          int     `json:"best_of"`
}

func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input createTournamentRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament := &models.Tournament{
		Name:            input.Name,
		Game:            input.Game,
		OrganizerID:     userID,
		MaxParticipants: input.MaxParticipants,
		BestOf:          input.BestOf,
	}
	if err := h.tournamentService.Create(r.Context(), tournament); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	tournaments, err := h.tournamentService.List(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TournamentHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	view, err := h.bracketService.View(r.Context(), tournamentID, defaultLayout)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	tournament := view.Tournament
	for _, p := range view.Participants {
		tournament.Participants = append(tournament.Participants, *p)
	}
	for _, mv := range view.Matches {
		tournament.Matches = append(tournament.Matches, *mv.Match)
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.tournamentService.Delete(r.Context(), tournamentID, userID); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addParticipantRequest struct {
	DisplayName string  `json:"display_name"`
	Character   *string `json:"character"`
	Seed        *int    `json:"seed"`
}

func (h *TournamentHandler) AddParticipantHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input addParticipantRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	participant := &models.Participant{
		TournamentID: tournamentID,
		DisplayName:  input.DisplayName,
		Character:    input.Character,
		Seed:         input.Seed,
	}
	if err := h.tournamentService.AddParticipant(r.Context(), participant); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *TournamentHandler) RemoveParticipantHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if err := h.tournamentService.RemoveParticipant(r.Context(), tournamentID, participantID); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TournamentHandler) StartBracketHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	tournament, err := h.tournamentService.StartBracket(r.Context(), tournamentID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}); err != nil {
		serverErrorResponse(w, err)
	}
}

// LayoutHandler returns projected card positions and connectors. Card
// geometry can be tuned through query parameters.
func (h *TournamentHandler) LayoutHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	cfg := defaultLayout
	query := r.URL.Query()
	for param, dst := range map[string]*float64{
		"card_width":  &cfg.CardWidth,
		"card_height": &cfg.CardHeight,
		"column_gap":  &cfg.ColumnGap,
		"row_gap":     &cfg.RowGap,
	} {
		if raw := query.Get(param); raw != "" {
			value, parseErr := strconv.ParseFloat(raw, 64)
			if parseErr != nil || value <= 0 {
				badRequestResponse(w, errInvalidQueryParam(param))
				return
			}
			*dst = value
		}
	}

	view, err := h.bracketService.View(r.Context(), tournamentID, cfg)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"layout": view}); err != nil {
		serverErrorResponse(w, err)
	}
}

func errInvalidQueryParam(param string) error {
	return fmt.Errorf("invalid %s query parameter", param)
}
