package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kmadiyev/kumite/brackets"
	"github.com/kmadiyev/kumite/models"
	"github.com/kmadiyev/kumite/repositories"
)

// ReportResultOutput is what a successful (or idempotent) report produced.
type ReportResultOutput struct {
	Match      *models.Match   `json:"match"`
	NewMatches []*models.Match `json:"new_matches,omitempty"`
	Finished   bool            `json:"finished"`
	ChampionID *int            `json:"champion_id,omitempty"`
	Commentary string          `json:"commentary,omitempty"`
}

type MatchService interface {
	// ReportResult applies a score report and persists everything the report
	// caused: the updated match, any next-round matches, and the finished
	// tournament status.
	ReportResult(ctx context.Context, matchID, score1, score2 int) (*ReportResultOutput, error)
	ListByTournament(ctx context.Context, tournamentID int, round *int) ([]*models.Match, error)
}

type matchService struct {
	tx              repositories.TxRunner
	matchRepo       repositories.MatchRepository
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	commentary      CommentaryProvider
	hub             *brackets.Hub
	logger          *slog.Logger

	// Round advance is a check-then-act over the whole round, so reports for
	// the same tournament must not interleave.
	locksMu sync.Mutex
	locks   map[int]*sync.Mutex
}

func NewMatchService(
	tx repositories.TxRunner,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	commentary CommentaryProvider,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	if commentary == nil {
		commentary = NoopCommentary{}
	}
	return &matchService{
		tx:              tx,
		matchRepo:       matchRepo,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		commentary:      commentary,
		hub:             hub,
		logger:          logger,
		locks:           make(map[int]*sync.Mutex),
	}
}

func (s *matchService) tournamentLock(tournamentID int) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[tournamentID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[tournamentID] = lock
	}
	return lock
}

// releaseTournamentLock drops a finished tournament's entry so the map does
// not grow with every tournament ever played. A straggler still holding the
// old mutex can only observe a completed bracket, where replay rejects every
// report, so handing later callers a fresh mutex is harmless.
func (s *matchService) releaseTournamentLock(tournamentID int) {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	delete(s.locks, tournamentID)
}

func (s *matchService) ReportResult(ctx context.Context, matchID, score1, score2 int) (*ReportResultOutput, error) {
	reported, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, brackets.ErrMatchNotFound
		}
		return nil, err
	}

	lock := s.tournamentLock(reported.TournamentID)
	lock.Lock()
	defer lock.Unlock()

	tournament, err := s.tournamentRepo.GetByID(ctx, reported.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	format, err := brackets.NewFormat(tournament.BestOf)
	if err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.ListByTournament(ctx, tournament.ID, nil, nil)
	if err != nil {
		return nil, err
	}

	bracket := brackets.NewBracket(format, matches)
	outcome, err := bracket.ReportResult(matchID, score1, score2)
	if err != nil {
		return nil, err
	}

	output := &ReportResultOutput{
		Match:      outcome.Match,
		NewMatches: outcome.NewMatches,
		Finished:   outcome.Finished,
		ChampionID: outcome.ChampionID,
	}
	if outcome.NoOp {
		return output, nil
	}

	err = s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		m := outcome.Match
		if updateErr := s.matchRepo.UpdateResult(ctx, exec, m.ID, m.Score1, m.Score2, m.Status, m.WinnerID); updateErr != nil {
			return updateErr
		}
		for _, nm := range outcome.NewMatches {
			if createErr := s.matchRepo.Create(ctx, exec, nm); createErr != nil {
				return createErr
			}
		}
		if outcome.Finished {
			return s.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.StatusCompleted)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist result for match %d: %w", matchID, err)
	}

	if outcome.Finished {
		s.releaseTournamentLock(tournament.ID)
	}
	if outcome.Match.Decided() {
		output.Commentary = s.commentaryFor(ctx, tournament, outcome.Match)
	}
	s.broadcast(tournament.ID, output)
	return output, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, round *int) ([]*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.matchRepo.ListByTournament(ctx, tournamentID, round, nil)
}

// commentaryFor asks the external provider for flavor text. Failures are
// logged and swallowed: commentary never blocks a result.
func (s *matchService) commentaryFor(ctx context.Context, tournament *models.Tournament, match *models.Match) string {
	p1 := s.participantOrNil(ctx, match.P1ParticipantID)
	p2 := s.participantOrNil(ctx, match.P2ParticipantID)

	text, err := s.commentary.MatchCommentary(ctx, tournament, match, p1, p2)
	if err != nil {
		s.logger.Warn("commentary provider failed",
			slog.Int("match_id", match.ID), slog.Any("error", err))
		return ""
	}
	return text
}

func (s *matchService) participantOrNil(ctx context.Context, id *int) *models.Participant {
	if id == nil {
		return nil
	}
	p, err := s.participantRepo.GetByID(ctx, *id)
	if err != nil {
		return nil
	}
	return p
}

func (s *matchService) broadcast(tournamentID int, output *ReportResultOutput) {
	if s.hub == nil {
		return
	}
	room := RoomID(tournamentID)
	s.hub.BroadcastToRoom(room, brackets.Message{
		Type: brackets.EventMatchUpdated,
		Payload: map[string]interface{}{
			"match":      output.Match,
			"commentary": output.Commentary,
		},
	})
	if len(output.NewMatches) > 0 {
		s.hub.BroadcastToRoom(room, brackets.Message{
			Type:    brackets.EventRoundCreated,
			Payload: output.NewMatches,
		})
	}
	if output.Finished {
		s.hub.BroadcastToRoom(room, brackets.Message{
			Type: brackets.EventTournamentFinished,
			Payload: map[string]interface{}{
				"tournament_id": tournamentID,
				"champion_id":   output.ChampionID,
			},
		})
	}
}
