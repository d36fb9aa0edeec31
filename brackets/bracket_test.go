package brackets

import (
	"testing"

	"github.com/kmadiyev/kumite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assignIDs plays the role of the match store: freshly built matches get
// their serial ids before the next report.
func assignIDs(matches []*models.Match, next *int) {
	for _, m := range matches {
		if m.ID == 0 {
			m.ID = *next
			*next++
		}
	}
}

func newTestBracket(t *testing.T, participantCount, bestOf int) (*Bracket, []*models.Match, *int) {
	t.Helper()
	format := mustFormat(t, bestOf)
	matches, err := BuildInitialRound(1, makeParticipants(t, participantCount), format)
	require.NoError(t, err)

	nextID := 1
	assignIDs(matches, &nextID)
	return NewBracket(format, matches), matches, &nextID
}

func TestReportResultUnknownMatch(t *testing.T) {
	bracket, _, _ := newTestBracket(t, 4, 3)

	outcome, err := bracket.ReportResult(99, 2, 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.Nil(t, outcome)
}

func TestReportResultScoreValidation(t *testing.T) {
	testCases := []struct {
		name           string
		score1, score2 int
	}{
		{name: "negative score1", score1: -1, score2: 0},
		{name: "negative score2", score1: 0, score2: -2},
		{name: "both sides at the threshold", score1: 2, score2: 2},
		{name: "both sides beyond the threshold", score1: 3, score2: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bracket, matches, _ := newTestBracket(t, 4, 3)

			outcome, err := bracket.ReportResult(matches[0].ID, tc.score1, tc.score2)
			assert.ErrorIs(t, err, ErrInvalidScore)
			assert.Nil(t, outcome)

			// Failed reports leave the match untouched.
			assert.Equal(t, 0, matches[0].Score1)
			assert.Equal(t, 0, matches[0].Score2)
			assert.Nil(t, matches[0].WinnerID)
		})
	}
}

func TestReportResultPartialThenDecided(t *testing.T) {
	bracket, matches, _ := newTestBracket(t, 4, 3)
	m := matches[0]

	outcome, err := bracket.ReportResult(m.ID, 1, 0)
	require.NoError(t, err)
	assert.Nil(t, m.WinnerID)
	assert.Equal(t, models.MatchStatusScheduled, m.Status)
	assert.Empty(t, outcome.NewMatches)

	outcome, err = bracket.ReportResult(m.ID, 2, 1)
	require.NoError(t, err)
	require.NotNil(t, m.WinnerID)
	assert.Equal(t, *m.P1ParticipantID, *m.WinnerID)
	assert.Equal(t, models.MatchStatusCompleted, m.Status)
	assert.False(t, outcome.Finished)
}

func TestReportResultScoresAreMonotonic(t *testing.T) {
	bracket, matches, _ := newTestBracket(t, 4, 3)
	m := matches[0]

	_, err := bracket.ReportResult(m.ID, 1, 1)
	require.NoError(t, err)

	_, err = bracket.ReportResult(m.ID, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidScore)
	_, err = bracket.ReportResult(m.ID, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidScore)

	assert.Equal(t, 1, m.Score1)
	assert.Equal(t, 1, m.Score2)
}

func TestReportResultIdempotentOnDecidedMatch(t *testing.T) {
	bracket, matches, _ := newTestBracket(t, 4, 3)
	m := matches[0]

	first, err := bracket.ReportResult(m.ID, 2, 1)
	require.NoError(t, err)
	assert.False(t, first.NoOp)

	second, err := bracket.ReportResult(m.ID, 2, 1)
	require.NoError(t, err)
	assert.True(t, second.NoOp)
	assert.Empty(t, second.NewMatches, "re-report must not create duplicate matches")

	_, err = bracket.ReportResult(m.ID, 2, 0)
	assert.ErrorIs(t, err, ErrMatchAlreadyDecided)
}

func TestReportResultOnMatchMissingAParticipant(t *testing.T) {
	format := mustFormat(t, 3)
	p1 := 1
	pending := &models.Match{ID: 7, Round: 2, Slot: 0, P1ParticipantID: &p1}

	bracket := NewBracket(format, []*models.Match{pending})
	_, err := bracket.ReportResult(7, 2, 0)
	assert.ErrorIs(t, err, ErrMatchNotReady)
}

func TestReportResultCompletesRoundAndBuildsNext(t *testing.T) {
	bracket, matches, nextID := newTestBracket(t, 4, 3)

	outcome, err := bracket.ReportResult(matches[0].ID, 2, 0)
	require.NoError(t, err)
	assert.Empty(t, outcome.NewMatches, "round still has a pending match")

	outcome, err = bracket.ReportResult(matches[1].ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, outcome.NewMatches, 1)

	final := outcome.NewMatches[0]
	assert.Equal(t, 2, final.Round)
	assert.Equal(t, 0, final.Slot)
	assert.Equal(t, *matches[0].WinnerID, *final.P1ParticipantID)
	assert.Equal(t, *matches[1].WinnerID, *final.P2ParticipantID)

	assignIDs(outcome.NewMatches, nextID)
	outcome, err = bracket.ReportResult(final.ID, 0, 2)
	require.NoError(t, err)
	assert.True(t, outcome.Finished)
	require.NotNil(t, outcome.ChampionID)
	assert.Equal(t, *final.P2ParticipantID, *outcome.ChampionID)
	assert.Empty(t, outcome.NewMatches)
}

// Cascade-built matches join the bracket with ID 0 and get their serial
// through the Outcome.NewMatches pointers. Later reports must still find them.
func TestReportResultOnCascadeBuiltMatch(t *testing.T) {
	bracket, matches, nextID := newTestBracket(t, 4, 3)

	_, err := bracket.ReportResult(matches[0].ID, 2, 0)
	require.NoError(t, err)
	outcome, err := bracket.ReportResult(matches[1].ID, 2, 1)
	require.NoError(t, err)
	require.Len(t, outcome.NewMatches, 1)

	final := outcome.NewMatches[0]
	assert.Equal(t, 0, final.ID)

	// Before the store assigns an id, the final is unreachable.
	_, err = bracket.ReportResult(final.ID, 2, 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	assignIDs(outcome.NewMatches, nextID)

	outcome, err = bracket.ReportResult(final.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, final.Score1)

	// Second lookup goes through the refreshed index.
	outcome, err = bracket.ReportResult(final.ID, 2, 0)
	require.NoError(t, err)
	assert.True(t, outcome.Finished)
}

// The five-entrant walkthrough: A,B,C,D,E at best-of-3. E draws the round-1
// bye, then the bye repeats in round 2 before the final.
func TestFiveParticipantTournament(t *testing.T) {
	format := mustFormat(t, 3)
	participants := makeParticipants(t, 5)
	a, b, c, d, e := participants[0].ID, participants[1].ID, participants[2].ID, participants[3].ID, participants[4].ID

	matches, err := BuildInitialRound(1, participants, format)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	nextID := 1
	assignIDs(matches, &nextID)

	assert.Equal(t, a, *matches[0].P1ParticipantID)
	assert.Equal(t, b, *matches[0].P2ParticipantID)
	assert.Equal(t, c, *matches[1].P1ParticipantID)
	assert.Equal(t, d, *matches[1].P2ParticipantID)
	require.True(t, matches[2].IsBye())
	assert.Equal(t, e, *matches[2].WinnerID)

	bracket := NewBracket(format, matches)

	outcome, err := bracket.ReportResult(matches[0].ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, a, *matches[0].WinnerID)
	assert.Empty(t, outcome.NewMatches)

	outcome, err = bracket.ReportResult(matches[1].ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, d, *matches[1].WinnerID)

	// The bye was already decided, so this report completed round 1.
	require.Len(t, outcome.NewMatches, 2)
	semi, bye := outcome.NewMatches[0], outcome.NewMatches[1]
	assert.Equal(t, a, *semi.P1ParticipantID)
	assert.Equal(t, d, *semi.P2ParticipantID)
	require.True(t, bye.IsBye())
	assert.Equal(t, e, *bye.WinnerID)
	assert.False(t, outcome.Finished)

	assignIDs(outcome.NewMatches, &nextID)

	outcome, err = bracket.ReportResult(semi.ID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, d, *semi.WinnerID)

	// Round 2 is now fully decided (the bye auto-advanced E), so the final
	// D vs E appears immediately.
	require.Len(t, outcome.NewMatches, 1)
	final := outcome.NewMatches[0]
	assert.Equal(t, 3, final.Round)
	assert.Equal(t, d, *final.P1ParticipantID)
	assert.Equal(t, e, *final.P2ParticipantID)
	assert.False(t, outcome.Finished)

	assignIDs(outcome.NewMatches, &nextID)

	outcome, err = bracket.ReportResult(final.ID, 2, 1)
	require.NoError(t, err)
	assert.True(t, outcome.Finished)
	require.NotNil(t, outcome.ChampionID)
	assert.Equal(t, d, *outcome.ChampionID)

	// ceil(log2(5)) rounds were played.
	assert.Len(t, bracket.Matches(), 6)
	assert.Equal(t, 3, RoundCount(len(participants)))
}
