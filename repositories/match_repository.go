package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kmadiyev/kumite/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchTournamentInvalid  = errors.New("match references an unknown tournament")
	ErrMatchParticipantInvalid = errors.New("match references an unknown participant")
	ErrMatchUIDConflict        = errors.New("bracket uid already used for this tournament")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, score1, score2 int, status models.MatchStatus, winnerID *int) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, bracket_uid, round, slot, p1_participant_id,
	p2_participant_id, score1, score2, winner_participant_id, status, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, bracket_uid, round, slot, p1_participant_id, p2_participant_id,
			 score1, score2, winner_participant_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.TournamentID,
		match.BracketUID,
		match.Round,
		match.Slot,
		match.P1ParticipantID,
		match.P2ParticipantID,
		match.Score1,
		match.Score2,
		match.WinnerID,
		match.Status,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.TournamentID,
		&match.BracketUID,
		&match.Round,
		&match.Slot,
		&match.P1ParticipantID,
		&match.P2ParticipantID,
		&match.Score1,
		&match.Score2,
		&match.WinnerID,
		&match.Status,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, round *int, status *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholder := 2

	if round != nil {
		queryBuilder.WriteString(" AND round = $" + strconv.Itoa(placeholder))
		args = append(args, *round)
		placeholder++
	}
	if status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(placeholder))
		args = append(args, *status)
	}
	queryBuilder.WriteString(" ORDER BY round ASC, slot ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := rows.Scan(
			&m.ID,
			&m.TournamentID,
			&m.BracketUID,
			&m.Round,
			&m.Slot,
			&m.P1ParticipantID,
			&m.P2ParticipantID,
			&m.Score1,
			&m.Score2,
			&m.WinnerID,
			&m.Status,
			&m.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, score1, score2 int, status models.MatchStatus, winnerID *int) error {
	query := `
		UPDATE matches
		SET score1 = $1, score2 = $2, status = $3, winner_participant_id = $4
		WHERE id = $5`

	result, err := exec.ExecContext(ctx, query, score1, score2, status, winnerID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete matches for tournament %d: %w", tournamentID, err)
	}
	return nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_p1_participant_id_fkey", "matches_p2_participant_id_fkey",
			"matches_winner_participant_id_fkey":
			return ErrMatchParticipantInvalid
		case "matches_tournament_id_bracket_uid_key":
			return ErrMatchUIDConflict
		}
	}
	return err
}
