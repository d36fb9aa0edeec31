package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/kmadiyev/kumite/brackets"
	"github.com/kmadiyev/kumite/models"
	"github.com/kmadiyev/kumite/repositories"
)

type TournamentService interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tournament, error)
	Delete(ctx context.Context, id, requesterID int) error

	AddParticipant(ctx context.Context, participant *models.Participant) error
	RemoveParticipant(ctx context.Context, tournamentID, participantID int) error

	// StartBracket seeds the roster, builds round 1 and flips the tournament
	// to in_progress, all in one transaction.
	StartBracket(ctx context.Context, tournamentID, requesterID int) (*models.Tournament, error)
}

type tournamentService struct {
	tx              repositories.TxRunner
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	shuffle         brackets.ShufflePolicy
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewTournamentService(
	tx repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	shuffle brackets.ShufflePolicy,
	hub *brackets.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tx:              tx,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		shuffle:         shuffle,
		hub:             hub,
		logger:          logger,
	}
}

// RoomID names the websocket room of a tournament.
func RoomID(tournamentID int) string {
	return "tournament_" + strconv.Itoa(tournamentID)
}

func (s *tournamentService) Create(ctx context.Context, tournament *models.Tournament) error {
	if tournament.Name == "" {
		return ErrTournamentNameRequired
	}
	if tournament.MaxParticipants < 2 {
		return ErrTournamentInvalidCapacity
	}
	if _, err := brackets.NewFormat(tournament.BestOf); err != nil {
		return err
	}
	tournament.Status = models.StatusRegistration

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return ErrTournamentNameConflict
		}
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, limit, offset int) ([]*models.Tournament, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.tournamentRepo.List(ctx, limit, offset)
}

func (s *tournamentService) Delete(ctx context.Context, id, requesterID int) error {
	tournament, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tournament.OrganizerID != requesterID {
		return ErrForbiddenOperation
	}

	// Matches carry FKs to both the tournament and its participants, so they
	// go first; participants cascade with the tournament row.
	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if deleteErr := s.matchRepo.DeleteByTournament(ctx, exec, id); deleteErr != nil {
			return deleteErr
		}
		return s.tournamentRepo.Delete(ctx, exec, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return nil
}

func (s *tournamentService) AddParticipant(ctx context.Context, participant *models.Participant) error {
	tournament, err := s.GetByID(ctx, participant.TournamentID)
	if err != nil {
		return err
	}
	if tournament.Status != models.StatusRegistration {
		return ErrRegistrationClosed
	}

	count, err := s.participantRepo.CountByTournament(ctx, tournament.ID)
	if err != nil {
		return err
	}
	if count >= tournament.MaxParticipants {
		return ErrTournamentFull
	}
	return s.participantRepo.Create(ctx, participant)
}

func (s *tournamentService) RemoveParticipant(ctx context.Context, tournamentID, participantID int) error {
	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return err
	}
	if tournament.Status != models.StatusRegistration {
		return ErrRegistrationClosed
	}

	if err := s.participantRepo.Delete(ctx, participantID); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}
	return nil
}

func (s *tournamentService) StartBracket(ctx context.Context, tournamentID, requesterID int) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.OrganizerID != requesterID {
		return nil, ErrForbiddenOperation
	}
	if tournament.Status != models.StatusRegistration {
		return nil, ErrTournamentInvalidStatusTransition
	}

	format, err := brackets.NewFormat(tournament.BestOf)
	if err != nil {
		return nil, err
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	seeded := make([]*models.Participant, len(participants))
	copy(seeded, participants)
	s.shuffle(seeded)

	matches, err := brackets.BuildInitialRound(tournamentID, seeded, format)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, m := range matches {
			if createErr := s.matchRepo.Create(ctx, exec, m); createErr != nil {
				return createErr
			}
		}
		return s.tournamentRepo.UpdateStatus(ctx, exec, tournamentID, models.StatusInProgress)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist bracket for tournament %d: %w", tournamentID, err)
	}

	tournament.Status = models.StatusInProgress
	tournament.Matches = derefMatches(matches)
	tournament.Participants = derefParticipants(participants)

	s.logger.Info("bracket built",
		slog.Int("tournament_id", tournamentID),
		slog.Int("participants", len(participants)),
		slog.Int("round1_matches", len(matches)),
		slog.Int("rounds", brackets.RoundCount(len(participants))))

	if s.hub != nil {
		s.hub.BroadcastToRoom(RoomID(tournamentID), brackets.Message{
			Type:    brackets.EventBracketCreated,
			Payload: tournament,
		})
	}
	return tournament, nil
}

func derefMatches(in []*models.Match) []models.Match {
	out := make([]models.Match, 0, len(in))
	for _, m := range in {
		out = append(out, *m)
	}
	return out
}

func derefParticipants(in []*models.Participant) []models.Participant {
	out := make([]models.Participant, 0, len(in))
	for _, p := range in {
		out = append(out, *p)
	}
	return out
}
