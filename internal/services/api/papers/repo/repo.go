// Package repo provides postgres access for the papers catalog and its
// moderation ledger
package repo

import (
	"context"
	"time"

	"codegap/internal/core/moderation"
	"codegap/internal/modkit/repokit"
	"codegap/internal/platform/store"
)

// KindUpvote is the ledger kind for the popularity upvote.
// Stance kinds come from the moderation package
const KindUpvote = "upvote"

// Repo is the persistence surface the paper engines run on
type Repo interface {
	Get(ctx context.Context, paperID string) (PaperRow, error)
	List(ctx context.Context, f ListFilter) ([]PaperRow, int, error)
	Insert(ctx context.Context, p PaperRow, searchText string) error

	UserUpvoted(ctx context.Context, paperID, userID string) (bool, error)
	UserStance(ctx context.Context, paperID, userID string) (moderation.Stance, bool, error)

	InsertAction(ctx context.Context, paperID, userID, kind string) (bool, error)
	DeleteAction(ctx context.Context, paperID, userID, kind string) (bool, error)
	SwitchStance(ctx context.Context, paperID, userID string, from, to moderation.Stance) (bool, error)

	BumpUpvotes(ctx context.Context, paperID string) error
	DropUpvote(ctx context.Context, paperID string) error
	AddStanceCounters(ctx context.Context, paperID string, d moderation.Counters) error

	MarkFlagged(ctx context.Context, paperID, userID string) error
	Transition(ctx context.Context, paperID string, from moderation.Status, out moderation.Outcome) (bool, error)
	Override(ctx context.Context, paperID string, status moderation.Status) error
	ReopenVoting(ctx context.Context, paperID string) error

	PurgeStances(ctx context.Context, paperID string) (int64, error)
	PurgeActions(ctx context.Context, paperID string) (int64, error)

	Archive(ctx context.Context, p PaperRow, actorID string) error
	DeletePaper(ctx context.Context, paperID string) (bool, error)
}

// PaperRow mirrors one papers row
type PaperRow struct {
	ID          string
	SourceURL   string
	ArxivID     *string
	Title       string
	Abstract    string
	Authors     []string
	PublishedAt *time.Time
	Venue       *string
	Tasks       []string

	UpvoteCount  int
	Status       moderation.Status
	ConfirmVotes int
	DisputeVotes int
	ConfirmedBy  *string
	FlaggedBy    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListFilter carries catalog browse filters
type ListFilter struct {
	// Query is the already-normalized search needle, empty for no search
	Query string

	Status string
	Task   string
	// Sort is top or new
	Sort   string
	Limit  int
	Offset int
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const paperCols = `
id, source_url, arxiv_id, title, abstract, authors, published_at, venue, tasks,
upvote_count, implementability_status, confirm_votes, dispute_votes,
confirmed_by, flagged_by, created_at, updated_at
`

func scanPaper(r store.Row) (PaperRow, error) {
	var p PaperRow
	var status string
	err := r.Scan(
		&p.ID, &p.SourceURL, &p.ArxivID, &p.Title, &p.Abstract, &p.Authors,
		&p.PublishedAt, &p.Venue, &p.Tasks,
		&p.UpvoteCount, &status, &p.ConfirmVotes, &p.DisputeVotes,
		&p.ConfirmedBy, &p.FlaggedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return PaperRow{}, err
	}
	p.Status = moderation.Status(status)
	return p, nil
}

func (r *queries) Get(ctx context.Context, paperID string) (PaperRow, error) {
	const sql = `select ` + paperCols + ` from papers where id = $1`
	return store.One(ctx, r.q, scanPaper, sql, paperID)
}

func (r *queries) List(ctx context.Context, f ListFilter) ([]PaperRow, int, error) {
	order := `created_at desc`
	if f.Sort == "top" {
		order = `upvote_count desc, created_at desc`
	}
	const where = `
where ($1 = '' or search_text like '%' || $1 || '%')
and ($2 = '' or implementability_status = $2)
and ($3 = '' or $3 = any(tasks))
`
	sel := `select ` + paperCols + ` from papers ` + where +
		` order by ` + order + ` limit $4 offset $5`

	rows, err := store.Many(ctx, r.q, scanPaper, sel, f.Query, f.Status, f.Task, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := store.Scalar[int](ctx, r.q, `select count(1) from papers `+where, f.Query, f.Status, f.Task)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *queries) Insert(ctx context.Context, p PaperRow, searchText string) error {
	const sql = `
insert into papers (id, source_url, arxiv_id, title, abstract, authors, published_at, venue, tasks, search_text)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := store.Exec(ctx, r.q, sql,
		p.ID, p.SourceURL, p.ArxivID, p.Title, p.Abstract, p.Authors,
		p.PublishedAt, p.Venue, p.Tasks, searchText,
	)
	return err
}
