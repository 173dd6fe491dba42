package service

import (
	"context"

	"codegap/internal/core/moderation"
	perr "codegap/internal/platform/errors"
	"codegap/internal/services/api/papers/domain"
	auditdomain "codegap/internal/services/audit/domain"
)

// ForceStatus is the owner override. It bypasses community thresholds and
// always discards the stance ledger first
func (s *Svc) ForceStatus(ctx context.Context, paperID, userID, statusToSet string) (domain.Paper, error) {
	if err := s.requireOwner(userID); err != nil {
		return domain.Paper{}, err
	}
	if err := checkID(paperID); err != nil {
		return domain.Paper{}, err
	}
	p, err := s.Repo.Get(ctx, paperID)
	if err != nil {
		return domain.Paper{}, notFound(err, paperID)
	}

	var next moderation.Status
	switch statusToSet {
	case "voting":
		next = moderation.StatusImplementable
	case string(moderation.StatusConfirmedImp):
		next = moderation.StatusConfirmedImp
	case string(moderation.StatusConfirmedNonImp):
		next = moderation.StatusConfirmedNonImp
	default:
		return domain.Paper{}, perr.Invalidf("status_to_set must be confirmed_implementable, confirmed_non_implementable or voting")
	}

	if _, err := s.Repo.PurgeStances(ctx, paperID); err != nil {
		return domain.Paper{}, perr.FromPostgres(err, "purge stance ledger")
	}
	if next == moderation.StatusImplementable {
		err = s.Repo.ReopenVoting(ctx, paperID)
	} else {
		err = s.Repo.Override(ctx, paperID, next)
	}
	if err != nil {
		return domain.Paper{}, perr.FromPostgres(err, "override status")
	}

	s.record(ctx, auditdomain.Event{
		PaperID: paperID, UserID: userID, Event: auditdomain.EventOwnerOverride,
		OldStatus: string(p.Status), NewStatus: string(next),
	})
	return s.project(ctx, paperID, userID)
}

// Remove archives the paper, purges its entire ledger, then deletes the live
// record. An archive that lands without the live delete is reported as a
// distinguishable partial outcome, never a silent success or an opaque 500
func (s *Svc) Remove(ctx context.Context, paperID, userID string) (domain.RemovalAck, error) {
	if err := s.requireOwner(userID); err != nil {
		return domain.RemovalAck{}, err
	}
	if err := checkID(paperID); err != nil {
		return domain.RemovalAck{}, err
	}
	p, err := s.Repo.Get(ctx, paperID)
	if err != nil {
		return domain.RemovalAck{}, notFound(err, paperID)
	}

	if err := s.Repo.Archive(ctx, p, userID); err != nil {
		return domain.RemovalAck{}, perr.FromPostgres(err, "archive paper")
	}

	s.record(ctx, auditdomain.Event{
		PaperID: paperID, UserID: userID, Event: auditdomain.EventRemoved,
		OldStatus: string(p.Status),
	})

	if _, err := s.Repo.PurgeActions(ctx, paperID); err != nil {
		return domain.RemovalAck{
			Message:   "paper archived but its ledger could not be fully purged",
			CleanedUp: false,
		}, nil
	}
	deleted, err := s.Repo.DeletePaper(ctx, paperID)
	if err != nil || !deleted {
		return domain.RemovalAck{
			Message:   "paper archived but the live record could not be deleted",
			CleanedUp: false,
		}, nil
	}
	return domain.RemovalAck{Message: "paper removed", CleanedUp: true}, nil
}
