// Package service appends and reads the moderation audit trail on clickhouse
package service

import (
	"context"
	"time"

	perr "codegap/internal/platform/errors"
	"codegap/internal/platform/store"
	"codegap/internal/services/audit/domain"
)

// Service defines the audit service contract
type Service interface {
	domain.RecorderPort
	domain.ReaderPort
}

// Svc implements the audit service over the clickhouse seam.
// A nil seam disables the trail without breaking callers
type Svc struct {
	ch store.Clickhouse
}

// New constructs an audit service
func New(ch store.Clickhouse) *Svc {
	return &Svc{ch: ch}
}

// Record appends one event to moderation_events
func (s *Svc) Record(ctx context.Context, ev domain.Event) error {
	if s.ch == nil {
		return nil
	}
	if ev.TS.IsZero() {
		ev.TS = time.Now().UTC()
	}
	row := []any{ev.TS, ev.PaperID, ev.UserID, ev.Event, ev.Detail, ev.OldStatus, ev.NewStatus}
	if err := s.ch.Insert(ctx, "moderation_events (ts, paper_id, user_id, event, detail, old_status, new_status)", [][]any{row}); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "audit append failed")
	}
	return nil
}

// History returns a paper's trail oldest first
func (s *Svc) History(ctx context.Context, paperID string) ([]domain.Event, error) {
	if s.ch == nil {
		return nil, nil
	}
	const sql = `
select ts, user_id, event, detail, old_status, new_status
from moderation_events
where paper_id = ?
order by ts asc
`
	rows, err := s.ch.Query(ctx, sql, paperID)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "audit query failed")
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		ev := domain.Event{PaperID: paperID}
		if err := rows.Scan(&ev.TS, &ev.UserID, &ev.Event, &ev.Detail, &ev.OldStatus, &ev.NewStatus); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
