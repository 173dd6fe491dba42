package repo

import (
	"context"
	"encoding/json"
	"time"

	"codegap/internal/platform/store"
)

// snapshot is the archived projection of a removed paper. The paper_id column
// keeps the original identity as a back-reference
type snapshot struct {
	ID           string     `json:"id"`
	SourceURL    string     `json:"source_url"`
	ArxivID      *string    `json:"arxiv_id,omitempty"`
	Title        string     `json:"title"`
	Abstract     string     `json:"abstract,omitempty"`
	Authors      []string   `json:"authors"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	Venue        *string    `json:"venue,omitempty"`
	Tasks        []string   `json:"tasks"`
	UpvoteCount  int        `json:"upvote_count"`
	Status       string     `json:"implementability_status"`
	ConfirmVotes int        `json:"confirm_votes"`
	DisputeVotes int        `json:"dispute_votes"`
	ConfirmedBy  *string    `json:"confirmed_by,omitempty"`
	FlaggedBy    *string    `json:"flagged_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (r *queries) Archive(ctx context.Context, p PaperRow, actorID string) error {
	snap, err := json.Marshal(snapshot{
		ID:           p.ID,
		SourceURL:    p.SourceURL,
		ArxivID:      p.ArxivID,
		Title:        p.Title,
		Abstract:     p.Abstract,
		Authors:      p.Authors,
		PublishedAt:  p.PublishedAt,
		Venue:        p.Venue,
		Tasks:        p.Tasks,
		UpvoteCount:  p.UpvoteCount,
		Status:       string(p.Status),
		ConfirmVotes: p.ConfirmVotes,
		DisputeVotes: p.DisputeVotes,
		ConfirmedBy:  p.ConfirmedBy,
		FlaggedBy:    p.FlaggedBy,
		CreatedAt:    p.CreatedAt,
	})
	if err != nil {
		return err
	}
	const sql = `
insert into removed_papers (paper_id, removed_by, snapshot)
values ($1, $2, $3)
on conflict (paper_id) do update set removed_by = excluded.removed_by, removed_at = now(), snapshot = excluded.snapshot
`
	_, err = store.Exec(ctx, r.q, sql, p.ID, actorID, snap)
	return err
}

func (r *queries) DeletePaper(ctx context.Context, paperID string) (bool, error) {
	const sql = `delete from papers where id = $1`
	n, err := store.ExecAffected(ctx, r.q, sql, paperID)
	return n > 0, err
}
