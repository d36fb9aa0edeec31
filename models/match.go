package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
)

// Match is one node of the bracket tree. Round is 1-based and grows toward the
// final; Slot is the 0-based position within the round, so the feeders of round
// R slot S are round R-1 slots 2S and 2S+1.
//
// P1ParticipantID/P2ParticipantID are nil while the corresponding feeder match
// is undecided. A nil P2 on a scheduled-then-completed match with a preset
// winner is a bye.
type Match struct {
	ID              int         `json:"id" db:"id"`
	TournamentID    int         `json:"tournament_id" db:"tournament_id"`
	BracketUID      string      `json:"bracket_uid" db:"bracket_uid"`
	Round           int         `json:"round" db:"round"`
	Slot            int         `json:"slot" db:"slot"`
	P1ParticipantID *int        `json:"p1_participant_id,omitempty" db:"p1_participant_id"`
	P2ParticipantID *int        `json:"p2_participant_id,omitempty" db:"p2_participant_id"`
	Score1          int         `json:"score1" db:"score1"`
	Score2          int         `json:"score2" db:"score2"`
	WinnerID        *int        `json:"winner_participant_id,omitempty" db:"winner_participant_id"`
	Status          MatchStatus `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}

// Decided reports whether the match has a winner.
func (m *Match) Decided() bool {
	return m.WinnerID != nil
}

// IsBye reports whether the match is a synthetic auto-advance for an unpaired
// participant.
func (m *Match) IsBye() bool {
	return m.P1ParticipantID != nil && m.P2ParticipantID == nil && m.WinnerID != nil
}
