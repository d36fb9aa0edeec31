package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kmadiyev/kumite/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound          = errors.New("participant not found")
	ErrParticipantTournamentInvalid = errors.New("participant references an unknown tournament")
)

type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
	CountByTournament(ctx context.Context, tournamentID int) (int, error)
	Delete(ctx context.Context, id int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	query := `
		INSERT INTO participants (tournament_id, display_name, character, seed)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		participant.TournamentID,
		participant.DisplayName,
		participant.Character,
		participant.Seed,
	).Scan(&participant.ID, &participant.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "participants_tournament_id_fkey" {
			return ErrParticipantTournamentInvalid
		}
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `
		SELECT id, tournament_id, display_name, character, seed, created_at
		FROM participants
		WHERE id = $1`

	participant := &models.Participant{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&participant.ID,
		&participant.TournamentID,
		&participant.DisplayName,
		&participant.Character,
		&participant.Seed,
		&participant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant %d: %w", id, err)
	}
	return participant, nil
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	query := `
		SELECT id, tournament_id, display_name, character, seed, created_at
		FROM participants
		WHERE tournament_id = $1
		ORDER BY seed NULLS LAST, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		if scanErr := rows.Scan(
			&p.ID,
			&p.TournamentID,
			&p.DisplayName,
			&p.Character,
			&p.Seed,
			&p.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		participants = append(participants, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE tournament_id = $1`, tournamentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}
