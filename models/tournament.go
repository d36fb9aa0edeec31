package models

import "time"

// TournamentStatus mirrors the tournament_status ENUM in the database.
type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusInProgress   TournamentStatus = "in_progress"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

// Tournament is a single-elimination event. BestOf is fixed for every match of
// the tournament at creation time and must be odd.
type Tournament struct {
	ID              int              `json:"id" db:"id"`
	Name            string           `json:"name" db:"name"`
	Game            *string          `json:"game,omitempty" db:"game"`
	OrganizerID     int              `json:"organizer_id" db:"organizer_id"`
	Status          TournamentStatus `json:"status" db:"status"`
	MaxParticipants int              `json:"max_participants" db:"max_participants"`
	BestOf          int              `json:"best_of" db:"best_of"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`

	// Related entities, loaded on demand.
	Participants []Participant `json:"participants,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
}
