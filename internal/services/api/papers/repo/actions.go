package repo

import (
	"context"

	"codegap/internal/core/moderation"
	"codegap/internal/platform/store"
)

func (r *queries) UserUpvoted(ctx context.Context, paperID, userID string) (bool, error) {
	const sql = `select count(1) from paper_actions where paper_id = $1 and user_id = $2 and kind = $3`
	n, err := store.Scalar[int](ctx, r.q, sql, paperID, userID, KindUpvote)
	return n > 0, err
}

func (r *queries) UserStance(ctx context.Context, paperID, userID string) (moderation.Stance, bool, error) {
	const sql = `
select kind from paper_actions
where paper_id = $1 and user_id = $2 and kind <> $3
`
	rows, err := r.q.Query(ctx, sql, paperID, userID, KindUpvote)
	if err != nil {
		return "", false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return "", false, rows.Err()
	}
	var kind string
	if err := rows.Scan(&kind); err != nil {
		return "", false, err
	}
	return moderation.Stance(kind), true, rows.Err()
}

// InsertAction adds a ledger record. A duplicate-key race loses quietly and
// reports inserted=false so the caller skips the counter bump
func (r *queries) InsertAction(ctx context.Context, paperID, userID, kind string) (bool, error) {
	const sql = `
insert into paper_actions (paper_id, user_id, kind)
values ($1, $2, $3)
on conflict do nothing
`
	n, err := store.ExecAffected(ctx, r.q, sql, paperID, userID, kind)
	return n > 0, err
}

func (r *queries) DeleteAction(ctx context.Context, paperID, userID, kind string) (bool, error) {
	const sql = `delete from paper_actions where paper_id = $1 and user_id = $2 and kind = $3`
	n, err := store.ExecAffected(ctx, r.q, sql, paperID, userID, kind)
	return n > 0, err
}

// SwitchStance flips the user's stance kind in place, keyed on the current
// kind so a concurrent switch cannot apply twice
func (r *queries) SwitchStance(ctx context.Context, paperID, userID string, from, to moderation.Stance) (bool, error) {
	const sql = `
update paper_actions set kind = $4
where paper_id = $1 and user_id = $2 and kind = $3
`
	n, err := store.ExecAffected(ctx, r.q, sql, paperID, userID, string(from), string(to))
	return n > 0, err
}

func (r *queries) BumpUpvotes(ctx context.Context, paperID string) error {
	const sql = `update papers set upvote_count = upvote_count + 1, updated_at = now() where id = $1`
	_, err := store.Exec(ctx, r.q, sql, paperID)
	return err
}

// DropUpvote decrements with a corrective clamp so the counter never goes negative
func (r *queries) DropUpvote(ctx context.Context, paperID string) error {
	const sql = `update papers set upvote_count = greatest(upvote_count - 1, 0), updated_at = now() where id = $1`
	_, err := store.Exec(ctx, r.q, sql, paperID)
	return err
}

// AddStanceCounters applies both deltas in one atomic update so a switch can
// never leave both counters incremented or both decremented
func (r *queries) AddStanceCounters(ctx context.Context, paperID string, d moderation.Counters) error {
	const sql = `
update papers set
confirm_votes = greatest(confirm_votes + $2, 0),
dispute_votes = greatest(dispute_votes + $3, 0),
updated_at = now()
where id = $1
`
	_, err := store.Exec(ctx, r.q, sql, paperID, d.Confirm, d.Dispute)
	return err
}

// MarkFlagged flips an implementable paper to flagged and stamps the first
// flagging user. Conditional on the current status so only the first
// not-implementable vote wins
func (r *queries) MarkFlagged(ctx context.Context, paperID, userID string) error {
	const sql = `
update papers set
implementability_status = $3,
flagged_by = coalesce(flagged_by, $2),
updated_at = now()
where id = $1 and implementability_status = $4
`
	_, err := store.Exec(ctx, r.q, sql, paperID, userID,
		string(moderation.StatusFlagged), string(moderation.StatusImplementable))
	return err
}

// Transition applies a threshold outcome with a compare-and-swap on the
// previous status. Returns false when a concurrent transition already won
func (r *queries) Transition(ctx context.Context, paperID string, from moderation.Status, out moderation.Outcome) (bool, error) {
	sql := `update papers set implementability_status = $3, updated_at = now()`
	if out.ClearConfirmed {
		sql += `, confirmed_by = null`
	} else if out.ConfirmedBy != moderation.ConfirmedByNone {
		sql += `, confirmed_by = $4`
	}
	if out.ClearCounters {
		sql += `, confirm_votes = 0, dispute_votes = 0`
	}
	if out.ClearFlaggedBy {
		sql += `, flagged_by = null`
	}
	sql += ` where id = $1 and implementability_status = $2`

	args := []any{paperID, string(from), string(out.Status)}
	if !out.ClearConfirmed && out.ConfirmedBy != moderation.ConfirmedByNone {
		args = append(args, string(out.ConfirmedBy))
	}
	n, err := store.ExecAffected(ctx, r.q, sql, args...)
	return n > 0, err
}

// Override force-sets a confirmed status on behalf of the owner
func (r *queries) Override(ctx context.Context, paperID string, status moderation.Status) error {
	const sql = `
update papers set
implementability_status = $2,
confirmed_by = $3,
confirm_votes = 0,
dispute_votes = 0,
flagged_by = null,
updated_at = now()
where id = $1
`
	_, err := store.Exec(ctx, r.q, sql, paperID, string(status), string(moderation.ConfirmedByOwner))
	return err
}

// ReopenVoting resets every implementability field so community voting can resume
func (r *queries) ReopenVoting(ctx context.Context, paperID string) error {
	const sql = `
update papers set
implementability_status = $2,
confirmed_by = null,
confirm_votes = 0,
dispute_votes = 0,
flagged_by = null,
updated_at = now()
where id = $1
`
	_, err := store.Exec(ctx, r.q, sql, paperID, string(moderation.StatusImplementable))
	return err
}

func (r *queries) PurgeStances(ctx context.Context, paperID string) (int64, error) {
	const sql = `delete from paper_actions where paper_id = $1 and kind <> $2`
	return store.ExecAffected(ctx, r.q, sql, paperID, KindUpvote)
}

func (r *queries) PurgeActions(ctx context.Context, paperID string) (int64, error) {
	const sql = `delete from paper_actions where paper_id = $1`
	return store.ExecAffected(ctx, r.q, sql, paperID)
}
