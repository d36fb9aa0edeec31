package services

import (
	"context"

	"github.com/kmadiyev/kumite/models"
)

// CommentaryProvider produces a short write-up for a decided match. The real
// implementation lives outside this service (a hosted text-generation API);
// the engine only consumes the string and never fails a report because of it.
type CommentaryProvider interface {
	MatchCommentary(ctx context.Context, tournament *models.Tournament, match *models.Match, p1, p2 *models.Participant) (string, error)
}

// NoopCommentary is the default provider: no commentary.
type NoopCommentary struct{}

func (NoopCommentary) MatchCommentary(context.Context, *models.Tournament, *models.Match, *models.Participant, *models.Participant) (string, error) {
	return "", nil
}
