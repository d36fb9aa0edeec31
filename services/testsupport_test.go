package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/kmadiyev/kumite/models"
	"github.com/kmadiyev/kumite/repositories"
	"github.com/stretchr/testify/require"
)

// In-memory stand-ins for the Postgres repositories. They ignore the
// SQLExecutor: the fake TxRunner hands them a nil executor.

type fakeTxRunner struct {
	failNext bool
}

func (r *fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	if r.failNext {
		r.failNext = false
		return context.DeadlineExceeded
	}
	return fn(nil)
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	nextID      int
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament), nextID: 1}
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	t.ID = r.nextID
	r.nextID++
	clone := *t
	r.tournaments[t.ID] = &clone
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, limit, offset int) ([]*models.Tournament, error) {
	out := make([]*models.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		clone := *t
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

type fakeParticipantRepo struct {
	participants map[int]*models.Participant
	nextID       int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[int]*models.Participant), nextID: 1}
}

func (r *fakeParticipantRepo) Create(ctx context.Context, p *models.Participant) error {
	p.ID = r.nextID
	r.nextID++
	clone := *p
	r.participants[p.ID] = &clone
	return nil
}

func (r *fakeParticipantRepo) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	p, ok := r.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeParticipantRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	out := make([]*models.Participant, 0)
	for _, p := range r.participants {
		if p.TournamentID == tournamentID {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeParticipantRepo) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	list, _ := r.ListByTournament(ctx, tournamentID)
	return len(list), nil
}

func (r *fakeParticipantRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.participants[id]; !ok {
		return repositories.ErrParticipantNotFound
	}
	delete(r.participants, id)
	return nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	m.ID = r.nextID
	r.nextID++
	clone := *m
	r.matches[m.ID] = &clone
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if round != nil && m.Round != *round {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		clone := *m
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].Slot < out[j].Slot
	})
	return out, nil
}

func (r *fakeMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, id int, score1, score2 int, status models.MatchStatus, winnerID *int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Score1, m.Score2 = score1, score2
	m.Status = status
	m.WinnerID = winnerID
	return nil
}

func (r *fakeMatchRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	for id, m := range r.matches {
		if m.TournamentID == tournamentID {
			delete(r.matches, id)
		}
	}
	return nil
}

type testEnv struct {
	tx           *fakeTxRunner
	tournaments  *fakeTournamentRepo
	participants *fakeParticipantRepo
	matches      *fakeMatchRepo
	logger       *slog.Logger
}

func newTestEnv() *testEnv {
	return &testEnv{
		tx:           &fakeTxRunner{},
		tournaments:  newFakeTournamentRepo(),
		participants: newFakeParticipantRepo(),
		matches:      newFakeMatchRepo(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (e *testEnv) seedTournament(t *testing.T, participantNames []string, bestOf int) *models.Tournament {
	t.Helper()
	tournament := &models.Tournament{
		Name:            "Friday Night Clash",
		OrganizerID:     1,
		Status:          models.StatusRegistration,
		MaxParticipants: 32,
		BestOf:          bestOf,
	}
	require.NoError(t, e.tournaments.Create(context.Background(), tournament))

	for _, name := range participantNames {
		p := &models.Participant{TournamentID: tournament.ID, DisplayName: name}
		require.NoError(t, e.participants.Create(context.Background(), p))
	}
	return tournament
}
