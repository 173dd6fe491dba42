// Package service contains the paper catalog and moderation engines
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"codegap/internal/core/moderation"
	"codegap/internal/core/normalize"
	"codegap/internal/modkit/repokit"
	perr "codegap/internal/platform/errors"
	"codegap/internal/services/api/papers/domain"
	"codegap/internal/services/api/papers/repo"
	auditdomain "codegap/internal/services/audit/domain"
)

// Service defines the papers service contract
type Service interface {
	domain.ServicePort
}

// Config carries the moderation knobs
type Config struct {
	// OwnerUserID is the single designated maintainer identity
	OwnerUserID string
	Thresholds  moderation.Thresholds
}

// Svc implements the papers service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	cfg   Config
	norm  *normalize.Normalizer
	audit auditdomain.RecorderPort
	trail auditdomain.ReaderPort
}

// New constructs a papers service. audit and trail may be nil
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Repo],
	cfg Config,
	audit auditdomain.RecorderPort,
	trail auditdomain.ReaderPort,
) *Svc {
	if db == nil {
		panic("papers.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("papers.Service requires a non nil Repo binder")
	}
	if cfg.Thresholds.Confirm <= 0 || cfg.Thresholds.Implementable <= 0 {
		cfg.Thresholds = moderation.DefaultThresholds()
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		cfg:    cfg,
		norm:   normalize.New(),
		audit:  audit,
		trail:  trail,
	}
}

// List returns a catalog page. Per-user vote fields stay "none" on list views
func (s *Svc) List(ctx context.Context, in domain.ListInput, _ string) ([]domain.Paper, int, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PageSize < 1 {
		in.PageSize = 20
	}
	if in.PageSize > 100 {
		in.PageSize = 100
	}
	if in.Status != "" {
		if _, err := moderation.ParseStatus(in.Status); err != nil {
			return nil, 0, err
		}
	}
	switch in.Sort {
	case "", "top", "new":
	default:
		return nil, 0, perr.Invalidf("sort must be top or new")
	}
	rows, total, err := s.Repo.List(ctx, repo.ListFilter{
		Query:  s.norm.Normalize(in.Query),
		Status: in.Status,
		Task:   in.Task,
		Sort:   in.Sort,
		Limit:  in.PageSize,
		Offset: (in.Page - 1) * in.PageSize,
	})
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "list papers")
	}
	out := make([]domain.Paper, 0, len(rows))
	for _, p := range rows {
		out = append(out, toDTO(p, false, "", false))
	}
	return out, total, nil
}

// Get returns the full projection including the caller's own votes
func (s *Svc) Get(ctx context.Context, paperID, userID string) (domain.Paper, error) {
	if err := checkID(paperID); err != nil {
		return domain.Paper{}, err
	}
	return s.project(ctx, paperID, userID)
}

// Create is the owner-only ingest seam for the offline harvesting pipeline
func (s *Svc) Create(ctx context.Context, in domain.CreateInput, userID string) (domain.Paper, error) {
	if err := s.requireOwner(userID); err != nil {
		return domain.Paper{}, err
	}
	row := repo.PaperRow{
		ID:        uuid.NewString(),
		SourceURL: in.SourceURL,
		Title:     in.Title,
		Abstract:  in.Abstract,
		Authors:   in.Authors,
		Tasks:     in.Tasks,
	}
	if in.ArxivID != "" {
		row.ArxivID = &in.ArxivID
	}
	if in.Venue != "" {
		row.Venue = &in.Venue
	}
	if in.PublishedAt != "" {
		d, err := time.Parse("2006-01-02", in.PublishedAt)
		if err != nil {
			return domain.Paper{}, perr.Invalidf("published_at must be YYYY-MM-DD")
		}
		row.PublishedAt = &d
	}
	if row.Authors == nil {
		row.Authors = []string{}
	}
	if row.Tasks == nil {
		row.Tasks = []string{}
	}
	searchText := s.norm.Normalize(in.Title + " " + in.Abstract)
	if err := s.Repo.Insert(ctx, row, searchText); err != nil {
		if perr.IsDuplicateKey(err) {
			return domain.Paper{}, perr.Invalidf("a paper with this source_url already exists")
		}
		return domain.Paper{}, perr.FromPostgres(err, "insert paper")
	}
	s.record(ctx, auditdomain.Event{
		PaperID: row.ID, UserID: userID, Event: auditdomain.EventCreated, Detail: in.SourceURL,
	})
	return s.project(ctx, row.ID, userID)
}

// History returns the audit trail for a paper
func (s *Svc) History(ctx context.Context, paperID string) ([]domain.HistoryEvent, error) {
	if err := checkID(paperID); err != nil {
		return nil, err
	}
	if _, err := s.Repo.Get(ctx, paperID); err != nil {
		return nil, notFound(err, paperID)
	}
	if s.trail == nil {
		return []domain.HistoryEvent{}, nil
	}
	evs, err := s.trail.History(ctx, paperID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.HistoryEvent, 0, len(evs))
	for _, ev := range evs {
		out = append(out, domain.HistoryEvent{
			TS:        ev.TS.UTC().Format(time.RFC3339),
			UserID:    ev.UserID,
			Event:     ev.Event,
			Detail:    ev.Detail,
			OldStatus: ev.OldStatus,
			NewStatus: ev.NewStatus,
		})
	}
	return out, nil
}

func (s *Svc) requireOwner(userID string) error {
	if userID == "" {
		return perr.Unauthorizedf("sign in required")
	}
	if s.cfg.OwnerUserID == "" || userID != s.cfg.OwnerUserID {
		return perr.Forbiddenf("owner only")
	}
	return nil
}

func checkID(paperID string) error {
	if _, err := uuid.Parse(paperID); err != nil {
		return perr.Invalidf("malformed paper id")
	}
	return nil
}

// notFound hides store internals from the client while keeping 404 for missing rows
func notFound(err error, paperID string) error {
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return perr.NotFoundf("paper %s not found", paperID)
	}
	return perr.FromPostgres(err, "load paper")
}

// record appends an audit event best-effort, logging is done by the audit sink callers
func (s *Svc) record(ctx context.Context, ev auditdomain.Event) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, ev)
}

// project reloads the paper and materializes the caller's view
func (s *Svc) project(ctx context.Context, paperID, userID string) (domain.Paper, error) {
	p, err := s.Repo.Get(ctx, paperID)
	if err != nil {
		return domain.Paper{}, notFound(err, paperID)
	}
	upvoted := false
	var stance moderation.Stance
	hasStance := false
	if userID != "" {
		if upvoted, err = s.Repo.UserUpvoted(ctx, paperID, userID); err != nil {
			return domain.Paper{}, perr.FromPostgres(err, "load user vote")
		}
		if stance, hasStance, err = s.Repo.UserStance(ctx, paperID, userID); err != nil {
			return domain.Paper{}, perr.FromPostgres(err, "load user stance")
		}
	}
	return toDTO(p, upvoted, stance, hasStance), nil
}

func toDTO(p repo.PaperRow, upvoted bool, stance moderation.Stance, hasStance bool) domain.Paper {
	d := domain.Paper{
		ID:        p.ID,
		SourceURL: p.SourceURL,
		Title:     p.Title,
		Abstract:  p.Abstract,
		Authors:   p.Authors,
		Tasks:     p.Tasks,

		UpvoteCount:     p.UpvoteCount,
		CurrentUserVote: "none",

		ImplementabilityStatus:          string(p.Status),
		ConfirmVotes:                    p.ConfirmVotes,
		DisputeVotes:                    p.DisputeVotes,
		CurrentUserImplementabilityVote: "none",

		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if d.Authors == nil {
		d.Authors = []string{}
	}
	if d.Tasks == nil {
		d.Tasks = []string{}
	}
	if p.ArxivID != nil {
		d.ArxivID = *p.ArxivID
	}
	if p.Venue != nil {
		d.Venue = *p.Venue
	}
	if p.PublishedAt != nil {
		d.PublishedAt = p.PublishedAt.Format("2006-01-02")
	}
	if p.ConfirmedBy != nil {
		d.ConfirmedBy = *p.ConfirmedBy
	}
	if p.FlaggedBy != nil {
		d.FlaggedBy = *p.FlaggedBy
	}
	if upvoted {
		d.CurrentUserVote = "up"
	}
	if hasStance {
		// thumbs up means the user voted is-implementable
		if stance == moderation.StanceIsImplementable {
			d.CurrentUserImplementabilityVote = "up"
		} else {
			d.CurrentUserImplementabilityVote = "down"
		}
	}
	return d
}
