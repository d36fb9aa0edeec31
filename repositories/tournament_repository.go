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
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, game, organizer_id, status, max_participants, best_of)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		tournament.Name,
		tournament.Game,
		tournament.OrganizerID,
		tournament.Status,
		tournament.MaxParticipants,
		tournament.BestOf,
	).Scan(&tournament.ID, &tournament.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, game, organizer_id, status, max_participants, best_of, created_at
		FROM tournaments
		WHERE id = $1`

	tournament := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tournament.ID,
		&tournament.Name,
		&tournament.Game,
		&tournament.OrganizerID,
		&tournament.Status,
		&tournament.MaxParticipants,
		&tournament.BestOf,
		&tournament.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, limit, offset int) ([]*models.Tournament, error) {
	query := `
		SELECT id, name, game, organizer_id, status, max_participants, best_of, created_at
		FROM tournaments
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := rows.Scan(
			&t.ID,
			&t.Name,
			&t.Game,
			&t.OrganizerID,
			&t.Status,
			&t.MaxParticipants,
			&t.BestOf,
			&t.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	query := `DELETE FROM tournaments WHERE id = $1`
	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Constraint == "tournaments_name_key" {
		return ErrTournamentNameConflict
	}
	return err
}
