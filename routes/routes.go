package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kmadiyev/kumite/handlers"
	"github.com/kmadiyev/kumite/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Public, read-only surface.
	router.Get("/tournaments", tournamentHandler.ListHandler)
	router.Get("/tournaments/{tournamentID}", tournamentHandler.GetHandler)
	router.Get("/tournaments/{tournamentID}/matches", matchHandler.ListTournamentMatchesHandler)
	router.Get("/tournaments/{tournamentID}/layout", tournamentHandler.LayoutHandler)
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	// Organizer surface, behind token verification.
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Post("/tournaments", tournamentHandler.CreateHandler)
		r.Delete("/tournaments/{tournamentID}", tournamentHandler.DeleteHandler)
		r.Post("/tournaments/{tournamentID}/participants", tournamentHandler.AddParticipantHandler)
		r.Delete("/tournaments/{tournamentID}/participants/{participantID}", tournamentHandler.RemoveParticipantHandler)
		r.Post("/tournaments/{tournamentID}/bracket", tournamentHandler.StartBracketHandler)
		r.Post("/matches/{matchID}/result", matchHandler.ReportResultHandler)
	})
}
