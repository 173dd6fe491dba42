package service

import (
	"context"

	"codegap/internal/core/moderation"
	"codegap/internal/modkit/repokit"
	perr "codegap/internal/platform/errors"
	"codegap/internal/services/api/papers/domain"
	auditdomain "codegap/internal/services/audit/domain"
)

// transitionRetries bounds the status compare-and-swap loop; a concurrent
// winner is re-read and re-evaluated, never surfaced as an error
const transitionRetries = 3

// ApplyStance applies a confirm/dispute/retract implementability action and
// then evaluates the threshold rules against the post-mutation counters.
// Wire mapping: "confirm" is the thumbs-up (votes IS implementable),
// "dispute" votes NOT implementable
func (s *Svc) ApplyStance(ctx context.Context, paperID, userID, action string) (domain.Paper, error) {
	if userID == "" {
		return domain.Paper{}, perr.Unauthorizedf("sign in to vote")
	}
	if err := checkID(paperID); err != nil {
		return domain.Paper{}, err
	}
	p, err := s.Repo.Get(ctx, paperID)
	if err != nil {
		return domain.Paper{}, notFound(err, paperID)
	}

	locked := p.ConfirmedBy != nil && *p.ConfirmedBy == string(moderation.ConfirmedByOwner)
	if locked && action != "retract" {
		return domain.Paper{}, perr.Forbiddenf("implementability decided by the owner")
	}

	cur, hasStance, err := s.Repo.UserStance(ctx, paperID, userID)
	if err != nil {
		return domain.Paper{}, perr.FromPostgres(err, "load user stance")
	}

	switch action {
	case "retract":
		if !hasStance {
			return domain.Paper{}, perr.Invalidf("no implementability vote to retract")
		}
		var deleted bool
		err = s.db.Tx(ctx, func(q repokit.Queryer) error {
			r := s.binder.Bind(q)
			var err error
			deleted, err = r.DeleteAction(ctx, paperID, userID, string(cur))
			if err != nil || !deleted {
				return err
			}
			d := moderation.Delta(cur)
			return r.AddStanceCounters(ctx, paperID, moderation.Counters{Confirm: -d.Confirm, Dispute: -d.Dispute})
		})
		if err != nil {
			return domain.Paper{}, perr.FromPostgres(err, "retract stance")
		}
		// a lost delete race means someone else already removed the stance
		if deleted {
			s.record(ctx, auditdomain.Event{
				PaperID: paperID, UserID: userID, Event: auditdomain.EventStanceRetract, Detail: string(cur),
			})
		}

	case "confirm", "dispute":
		want := moderation.StanceIsImplementable
		evName := auditdomain.EventStanceConfirm
		if action == "dispute" {
			want = moderation.StanceNotImplementable
			evName = auditdomain.EventStanceDispute
		}
		switch {
		case hasStance && cur == want:
			return domain.Paper{}, perr.Conflictf("implementability vote already recorded")
		case hasStance:
			// switch stances atomically relative to both counters
			var switched bool
			err = s.db.Tx(ctx, func(q repokit.Queryer) error {
				r := s.binder.Bind(q)
				var err error
				switched, err = r.SwitchStance(ctx, paperID, userID, cur, want)
				if err != nil || !switched {
					return err
				}
				return r.AddStanceCounters(ctx, paperID, moderation.SwitchDelta(cur, want))
			})
			if err != nil {
				return domain.Paper{}, perr.FromPostgres(err, "switch stance")
			}
			// while implementable the only possible prior stance is
			// is-implementable, so this switch is the first ever
			// not-implementable vote and must raise the flag
			if switched && moderation.ShouldFlag(p.Status, want) {
				if err := s.Repo.MarkFlagged(ctx, paperID, userID); err != nil {
					return domain.Paper{}, perr.FromPostgres(err, "flag paper")
				}
			}
			evName = auditdomain.EventStanceSwitch
		default:
			inserted, err := s.Repo.InsertAction(ctx, paperID, userID, string(want))
			if err != nil {
				return domain.Paper{}, perr.FromPostgres(err, "record stance")
			}
			// a lost duplicate-key race means the vote is already recorded
			if inserted {
				if err := s.Repo.AddStanceCounters(ctx, paperID, moderation.Delta(want)); err != nil {
					return domain.Paper{}, perr.FromPostgres(err, "bump stance counters")
				}
				if moderation.ShouldFlag(p.Status, want) {
					if err := s.Repo.MarkFlagged(ctx, paperID, userID); err != nil {
						return domain.Paper{}, perr.FromPostgres(err, "flag paper")
					}
				}
			}
		}
		s.record(ctx, auditdomain.Event{
			PaperID: paperID, UserID: userID, Event: evName, Detail: string(want),
		})

	default:
		return domain.Paper{}, perr.Invalidf("action must be confirm, dispute or retract")
	}

	if err := s.settle(ctx, paperID, userID); err != nil {
		return domain.Paper{}, err
	}
	return s.project(ctx, paperID, userID)
}

// settle evaluates the threshold rules and applies at most one transition.
// The status write is a compare-and-swap on the previous status; losing the
// race re-reads state and re-evaluates up to transitionRetries times
func (s *Svc) settle(ctx context.Context, paperID, userID string) error {
	for attempt := 0; attempt < transitionRetries; attempt++ {
		p, err := s.Repo.Get(ctx, paperID)
		if err != nil {
			return notFound(err, paperID)
		}
		if p.ConfirmedBy != nil && *p.ConfirmedBy == string(moderation.ConfirmedByOwner) {
			return nil
		}
		out := moderation.Evaluate(p.Status,
			moderation.Counters{Confirm: p.ConfirmVotes, Dispute: p.DisputeVotes}, s.cfg.Thresholds)
		if !out.Transitioned {
			return nil
		}
		ok, err := s.Repo.Transition(ctx, paperID, p.Status, out)
		if err != nil {
			return perr.FromPostgres(err, "apply transition")
		}
		if !ok {
			continue
		}
		if out.PurgeStances {
			if _, err := s.Repo.PurgeStances(ctx, paperID); err != nil {
				return perr.FromPostgres(err, "purge stance ledger")
			}
		}
		s.record(ctx, auditdomain.Event{
			PaperID: paperID, UserID: userID, Event: auditdomain.EventTransition,
			OldStatus: string(p.Status), NewStatus: string(out.Status),
		})
		return nil
	}
	return nil
}
