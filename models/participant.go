package models

import "time"

// Participant is one entrant of a tournament. The roster is immutable once the
// bracket has been built.
type Participant struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	Character    *string   `json:"character,omitempty" db:"character"`
	Seed         *int      `json:"seed,omitempty" db:"seed"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
