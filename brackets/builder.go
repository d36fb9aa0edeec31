package brackets

import (
	"fmt"
	"math"
	"sort"

	"github.com/kmadiyev/kumite/models"
)

// matchUID builds the teacher-readable bracket identifier, e.g. "R2M1".
// Match numbers inside a round are 1-based.
func matchUID(round, slot int) string {
	return fmt.Sprintf("R%dM%d", round, slot+1)
}

// RoundCount returns the number of rounds a bracket with the given participant
// count plays, ceil(log2(n)).
func RoundCount(participants int) int {
	if participants < 2 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(participants))))
}

// BuildInitialRound pairs participants consecutively into the round-1 matches:
// slot i holds participants[2i] vs participants[2i+1]. The caller decides the
// seeding order, typically through a ShufflePolicy. An odd participant count
// leaves the last participant without an opponent; that slot becomes a bye with
// the winner preset.
func BuildInitialRound(tournamentID int, participants []*models.Participant, format Format) ([]*models.Match, error) {
	n := len(participants)
	if n < 2 {
		return nil, ErrInsufficientParticipants
	}

	matches := make([]*models.Match, 0, (n+1)/2)
	for slot := 0; slot*2 < n; slot++ {
		i := slot * 2
		p1 := participants[i].ID
		m := &models.Match{
			TournamentID:    tournamentID,
			BracketUID:      matchUID(1, slot),
			Round:           1,
			Slot:            slot,
			P1ParticipantID: &p1,
			Status:          models.MatchStatusScheduled,
		}
		if i+1 < n {
			p2 := participants[i+1].ID
			m.P2ParticipantID = &p2
		} else {
			winner := p1
			m.WinnerID = &winner
			m.Status = models.MatchStatusCompleted
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// BuildNextRound creates the matches of round N+1 from a fully decided round N.
// The input must be exactly the matches of one round, with slots covering
// 0..len-1. A single decided match is the final: the return is empty and the
// caller should mark the tournament finished.
func BuildNextRound(decided []*models.Match, format Format) ([]*models.Match, error) {
	n := len(decided)
	if n == 0 {
		return nil, ErrRoundNotComplete
	}

	round := make([]*models.Match, n)
	copy(round, decided)
	sort.Slice(round, func(i, j int) bool { return round[i].Slot < round[j].Slot })

	currentRound := round[0].Round
	for i, m := range round {
		if m.Round != currentRound || m.Slot != i {
			return nil, ErrRoundNotComplete
		}
		if !m.Decided() {
			return nil, ErrRoundNotComplete
		}
	}

	if n == 1 {
		return []*models.Match{}, nil
	}

	next := make([]*models.Match, 0, (n+1)/2)
	for slot := 0; slot*2 < n; slot++ {
		i := slot * 2
		p1 := *round[i].WinnerID
		m := &models.Match{
			TournamentID:    round[i].TournamentID,
			BracketUID:      matchUID(currentRound+1, slot),
			Round:           currentRound + 1,
			Slot:            slot,
			P1ParticipantID: &p1,
			Status:          models.MatchStatusScheduled,
		}
		if i+1 < n {
			p2 := *round[i+1].WinnerID
			m.P2ParticipantID = &p2
		} else {
			winner := p1
			m.WinnerID = &winner
			m.Status = models.MatchStatusCompleted
		}
		next = append(next, m)
	}
	return next, nil
}
