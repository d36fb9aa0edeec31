package services

import (
	"context"
	"errors"

	"github.com/kmadiyev/kumite/brackets"
	"github.com/kmadiyev/kumite/models"
	"github.com/kmadiyev/kumite/repositories"
	"golang.org/x/sync/errgroup"
)

// MatchView is a match plus its projected geometry.
type MatchView struct {
	Match     *models.Match       `json:"match"`
	Position  brackets.Point      `json:"position"`
	Connector *brackets.Connector `json:"connector,omitempty"`
}

// BracketView is everything a client needs to draw a bracket.
type BracketView struct {
	Tournament   *models.Tournament    `json:"tournament"`
	Participants []*models.Participant `json:"participants"`
	Matches      []*MatchView          `json:"matches"`
	Rounds       int                   `json:"rounds"`
}

type BracketService interface {
	// View loads the tournament, roster and matches in parallel and projects
	// card positions and connector curves for rendering.
	View(ctx context.Context, tournamentID int, cfg brackets.LayoutConfig) (*BracketView, error)
}

type bracketService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
}

func NewBracketService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
) BracketService {
	return &bracketService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
	}
}

func (s *bracketService) View(ctx context.Context, tournamentID int, cfg brackets.LayoutConfig) (*BracketView, error) {
	view := &BracketView{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tournament, err := s.tournamentRepo.GetByID(gCtx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		view.Tournament = tournament
		return nil
	})
	g.Go(func() error {
		participants, err := s.participantRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return err
		}
		view.Participants = participants
		return nil
	})
	var matches []*models.Match
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, tournamentID, nil, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view.Rounds = brackets.RoundCount(len(view.Participants))
	view.Matches = make([]*MatchView, 0, len(matches))
	for _, m := range matches {
		mv := &MatchView{
			Match:    m,
			Position: brackets.ComputePosition(cfg, m.Round, m.Slot),
		}
		if connector, ok := brackets.ComputeConnector(cfg, m.Round, m.Slot, view.Rounds); ok {
			mv.Connector = &connector
		}
		view.Matches = append(view.Matches, mv)
	}
	return view, nil
}
