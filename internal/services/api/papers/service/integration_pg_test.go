//go:build integration_pg
// +build integration_pg

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"codegap/internal/core/moderation"
	perr "codegap/internal/platform/errors"
	"codegap/internal/platform/store"
	"codegap/internal/services/api/papers/domain"
	"codegap/internal/services/api/papers/repo"
)

const testSchema = `
create table if not exists papers (
    id                       uuid primary key,
    source_url               text not null unique,
    arxiv_id                 text,
    title                    text not null,
    abstract                 text not null default '',
    authors                  text[] not null default '{}',
    published_at             date,
    venue                    text,
    tasks                    text[] not null default '{}',
    search_text              text not null default '',
    upvote_count             int not null default 0 check (upvote_count >= 0),
    implementability_status  text not null default 'implementable',
    confirm_votes            int not null default 0 check (confirm_votes >= 0),
    dispute_votes            int not null default 0 check (dispute_votes >= 0),
    confirmed_by             text,
    flagged_by               text,
    created_at               timestamptz not null default now(),
    updated_at               timestamptz not null default now()
);

create table if not exists paper_actions (
    paper_id   uuid not null references papers (id) on delete cascade,
    user_id    text not null,
    kind       text not null,
    created_at timestamptz not null default now(),
    primary key (paper_id, user_id, kind)
);

create unique index if not exists paper_actions_one_stance_idx
    on paper_actions (paper_id, user_id)
    where kind <> 'upvote';

create table if not exists removed_papers (
    paper_id   uuid primary key,
    removed_by text not null,
    removed_at timestamptz not null default now(),
    snapshot   jsonb not null
);
`

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func openTestStore(t *testing.T, ctx context.Context, dsn string) *store.Store {
	t.Helper()
	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	if _, err := st.PG.Exec(ctx, testSchema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return st
}

func TestEnginesEndToEnd_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st := openTestStore(t, ctx, dsn)
	s := New(st.PG, repo.NewPG(), Config{OwnerUserID: "owner"}, nil, nil)

	p, err := s.Create(ctx, domain.CreateInput{
		SourceURL: "https://arxiv.org/abs/2105.01234",
		ArxivID:   "2105.01234",
		Title:     "Paper Without Code",
		Abstract:  "An abstract.",
		Tasks:     []string{"nlp"},
	}, "owner")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := p.ID

	// duplicate url is rejected at the constraint, mapped to validation
	_, err = s.Create(ctx, domain.CreateInput{
		SourceURL: "https://arxiv.org/abs/2105.01234",
		Title:     "Duplicate",
	}, "owner")
	if perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("duplicate create code = %v", perr.CodeOf(err))
	}

	// upvote toggle against the real on-conflict path
	if p, err = s.ApplyVote(ctx, id, "u1", "up"); err != nil || p.UpvoteCount != 1 {
		t.Fatalf("upvote: count=%d err=%v", p.UpvoteCount, err)
	}
	if p, err = s.ApplyVote(ctx, id, "u1", "up"); err != nil || p.UpvoteCount != 1 {
		t.Fatalf("repeat upvote: count=%d err=%v", p.UpvoteCount, err)
	}
	if p, err = s.ApplyVote(ctx, id, "u1", "none"); err != nil || p.UpvoteCount != 0 {
		t.Fatalf("clear upvote: count=%d err=%v", p.UpvoteCount, err)
	}

	// three not-implementable stances confirm the flag at the default margin
	for i, u := range []string{"u1", "u2", "u3"} {
		if p, err = s.ApplyStance(ctx, id, u, "dispute"); err != nil {
			t.Fatalf("dispute %d: %v", i, err)
		}
	}
	if p.ImplementabilityStatus != string(moderation.StatusConfirmedNonImp) {
		t.Fatalf("status = %q, want confirmed_non_implementable", p.ImplementabilityStatus)
	}
	if p.ConfirmVotes != 3 {
		t.Fatalf("confirm_votes = %d, want 3 kept", p.ConfirmVotes)
	}

	// owner reopens, community confirms implementable, slate resets
	if _, err = s.ForceStatus(ctx, id, "owner", "voting"); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	for _, u := range []string{"u1", "u2", "u3"} {
		if p, err = s.ApplyStance(ctx, id, u, "confirm"); err != nil {
			t.Fatalf("confirm by %s: %v", u, err)
		}
	}
	if p.ImplementabilityStatus != string(moderation.StatusConfirmedImp) {
		t.Fatalf("status = %q, want confirmed_implementable", p.ImplementabilityStatus)
	}
	if p.ConfirmVotes != 0 || p.DisputeVotes != 0 || p.CurrentUserImplementabilityVote != "none" {
		t.Fatalf("slate not reset: %d/%d %q", p.ConfirmVotes, p.DisputeVotes, p.CurrentUserImplementabilityVote)
	}

	// search hits the folded search_text column
	got, total, err := s.List(ctx, domain.ListInput{Query: "PAPER WITHOUT"}, "")
	if err != nil || total != 1 || len(got) != 1 {
		t.Fatalf("search: total=%d err=%v", total, err)
	}

	// removal archives the snapshot and deletes the live row
	ack, err := s.Remove(ctx, id, "owner")
	if err != nil || !ack.CleanedUp {
		t.Fatalf("remove: ack=%+v err=%v", ack, err)
	}
	if _, err = s.Get(ctx, id, ""); perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("removed paper still resolves: %v", err)
	}
	var n int
	n, err = store.Scalar[int](ctx, st.PG, `select count(1) from removed_papers where paper_id = $1`, id)
	if err != nil || n != 1 {
		t.Fatalf("snapshot rows = %d err=%v", n, err)
	}
}
