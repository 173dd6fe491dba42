package service

import (
	"context"

	perr "codegap/internal/platform/errors"
	"codegap/internal/services/api/papers/domain"
	"codegap/internal/services/api/papers/repo"
	auditdomain "codegap/internal/services/audit/domain"
)

// ApplyVote toggles the popularity upvote. Idempotent: re-upvoting or
// clearing a vote that does not exist returns current state, not an error.
// Ledger first, then counter; the counter bump only follows an actual
// ledger change so a duplicate-key race never double-counts
func (s *Svc) ApplyVote(ctx context.Context, paperID, userID, voteType string) (domain.Paper, error) {
	if userID == "" {
		return domain.Paper{}, perr.Unauthorizedf("sign in to vote")
	}
	if err := checkID(paperID); err != nil {
		return domain.Paper{}, err
	}
	if _, err := s.Repo.Get(ctx, paperID); err != nil {
		return domain.Paper{}, notFound(err, paperID)
	}

	switch voteType {
	case "up":
		inserted, err := s.Repo.InsertAction(ctx, paperID, userID, repo.KindUpvote)
		if err != nil {
			return domain.Paper{}, perr.FromPostgres(err, "record upvote")
		}
		if inserted {
			if err := s.Repo.BumpUpvotes(ctx, paperID); err != nil {
				// ledger landed, counter did not: recoverable by re-read, never a crash
				return domain.Paper{}, perr.FromPostgres(err, "bump upvote count")
			}
			s.record(ctx, auditdomain.Event{
				PaperID: paperID, UserID: userID, Event: auditdomain.EventUpvote,
			})
		}
	case "none":
		deleted, err := s.Repo.DeleteAction(ctx, paperID, userID, repo.KindUpvote)
		if err != nil {
			return domain.Paper{}, perr.FromPostgres(err, "clear upvote")
		}
		if deleted {
			if err := s.Repo.DropUpvote(ctx, paperID); err != nil {
				return domain.Paper{}, perr.FromPostgres(err, "drop upvote count")
			}
			s.record(ctx, auditdomain.Event{
				PaperID: paperID, UserID: userID, Event: auditdomain.EventUnvote,
			})
		}
	default:
		return domain.Paper{}, perr.Invalidf("vote_type must be up or none")
	}

	return s.project(ctx, paperID, userID)
}
