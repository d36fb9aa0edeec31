package brackets

import (
	"sort"
	"sync"

	"github.com/kmadiyev/kumite/models"
)

// Bracket is the in-memory state machine over a tournament's matches. All
// mutation goes through ReportResult, which serializes callers with the
// bracket's own mutex; multi-process deployments additionally need a
// per-tournament write lock around load-report-persist (see services).
type Bracket struct {
	mu      sync.Mutex
	format  Format
	matches []*models.Match
	byID    map[int]*models.Match
}

// Outcome describes everything a single report changed, so a persistence layer
// can replay it as one transaction.
type Outcome struct {
	// Match is the reported match after the update.
	Match *models.Match
	// NewMatches are the next-round matches created because the report
	// completed a round. They carry no store IDs yet.
	NewMatches []*models.Match
	// Finished is set when the reported result decided the final.
	Finished   bool
	ChampionID *int
	// NoOp marks an idempotent re-report of an identical decided result.
	NoOp bool
}

func NewBracket(format Format, matches []*models.Match) *Bracket {
	b := &Bracket{
		format:  format,
		matches: make([]*models.Match, 0, len(matches)),
		byID:    make(map[int]*models.Match, len(matches)),
	}
	for _, m := range matches {
		b.matches = append(b.matches, m)
		if m.ID != 0 {
			b.byID[m.ID] = m
		}
	}
	return b
}

// Matches returns the full match set, round-1 first, slots in order.
func (b *Bracket) Matches() []*models.Match {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*models.Match, len(b.matches))
	copy(out, b.matches)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].Slot < out[j].Slot
	})
	return out
}

// ReportResult applies a score report to a match.
//
// Partial reports (neither side at the win threshold yet) update the running
// scores and leave the match pending. Once a side reaches the threshold the
// winner is set; if that completed the round, the next round is built and
// returned in the Outcome, or the tournament is declared finished when the
// decided match was the final.
//
// Re-reporting the exact scores of a decided match is a no-op; any other report
// on a decided match fails with ErrMatchAlreadyDecided. Scores are monotonic
// within a match: a report lowering either side's score fails with
// ErrInvalidScore. A failed report changes nothing.
func (b *Bracket) ReportResult(matchID, score1, score2 int) (*Outcome, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m := b.match(matchID)
	if m == nil {
		return nil, ErrMatchNotFound
	}
	if m.Decided() {
		if m.Score1 == score1 && m.Score2 == score2 {
			return &Outcome{Match: m, NoOp: true}, nil
		}
		return nil, ErrMatchAlreadyDecided
	}
	if m.P1ParticipantID == nil || m.P2ParticipantID == nil {
		return nil, ErrMatchNotReady
	}
	if score1 < 0 || score2 < 0 {
		return nil, ErrInvalidScore
	}
	wins := b.format.WinsNeeded()
	if score1 >= wins && score2 >= wins {
		return nil, ErrInvalidScore
	}
	if score1 < m.Score1 || score2 < m.Score2 {
		return nil, ErrInvalidScore
	}

	m.Score1, m.Score2 = score1, score2
	out := &Outcome{Match: m}

	switch {
	case score1 >= wins:
		winner := *m.P1ParticipantID
		m.WinnerID = &winner
	case score2 >= wins:
		winner := *m.P2ParticipantID
		m.WinnerID = &winner
	default:
		// Game-by-game progress; nothing decided yet.
		return out, nil
	}
	m.Status = models.MatchStatusCompleted

	for round := m.Round; ; round++ {
		current := b.round(round)
		if !allDecided(current) {
			break
		}
		if len(current) == 1 {
			out.Finished = true
			out.ChampionID = current[0].WinnerID
			break
		}
		next, err := BuildNextRound(current, b.format)
		if err != nil {
			return nil, err
		}
		b.matches = append(b.matches, next...)
		out.NewMatches = append(out.NewMatches, next...)
	}
	return out, nil
}

// match resolves a store id, falling back to a scan of b.matches: matches
// built by a cascade enter the bracket with ID 0 and receive their serial
// through the Outcome.NewMatches pointers after persistence, so the index
// catches up here.
func (b *Bracket) match(matchID int) *models.Match {
	if m, ok := b.byID[matchID]; ok {
		return m
	}
	for _, m := range b.matches {
		if m.ID != 0 && m.ID == matchID {
			b.byID[m.ID] = m
			return m
		}
	}
	return nil
}

func (b *Bracket) round(round int) []*models.Match {
	var out []*models.Match
	for _, m := range b.matches {
		if m.Round == round {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

func allDecided(matches []*models.Match) bool {
	if len(matches) == 0 {
		return false
	}
	for _, m := range matches {
		if !m.Decided() {
			return false
		}
	}
	return true
}
