package repo

import (
	"context"
	"strings"
	"testing"

	"codegap/internal/core/moderation"
	"codegap/internal/platform/store"
)

// The ledger-then-counter protocol leans on specific SQL shapes: guarded
// inserts, clamped decrements, and compare-and-swap status writes. These
// tests pin those shapes against a recording querier

type fakeTag int64

func (t fakeTag) String() string      { return "FAKE" }
func (t fakeTag) RowsAffected() int64 { return int64(t) }

type fakeQuerier struct {
	affected int64

	sqls []string
	args [][]any
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.sqls = append(f.sqls, sql)
	f.args = append(f.args, args)
	return fakeTag(f.affected), nil
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	f.sqls = append(f.sqls, sql)
	f.args = append(f.args, args)
	return emptyRows{}, nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	f.sqls = append(f.sqls, sql)
	f.args = append(f.args, args)
	return zeroRow{}
}

type emptyRows struct{}

func (emptyRows) Next() bool        { return false }
func (emptyRows) Scan(...any) error { return nil }
func (emptyRows) Err() error        { return nil }
func (emptyRows) Close()            {}
func (emptyRows) Columns() []string { return nil }

type zeroRow struct{}

func (zeroRow) Scan(...any) error { return nil }

func (f *fakeQuerier) lastSQL() string {
	if len(f.sqls) == 0 {
		return ""
	}
	return f.sqls[len(f.sqls)-1]
}

func mustContain(t *testing.T, sql string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(sql, w) {
			t.Fatalf("sql missing %q:\n%s", w, sql)
		}
	}
}

func TestInsertActionGuardedByConflict(t *testing.T) {
	f := &fakeQuerier{affected: 1}
	r := NewPG().Bind(f)

	inserted, err := r.InsertAction(context.Background(), "p1", "u1", KindUpvote)
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Fatal("affected row should report inserted")
	}
	mustContain(t, f.lastSQL(), "on conflict do nothing")

	// a lost duplicate race reports zero affected rows, not an error
	f.affected = 0
	inserted, err = r.InsertAction(context.Background(), "p1", "u1", KindUpvote)
	if err != nil || inserted {
		t.Fatalf("lost race: inserted=%v err=%v", inserted, err)
	}
}

func TestDropUpvoteClampsAtZero(t *testing.T) {
	f := &fakeQuerier{}
	r := NewPG().Bind(f)

	if err := r.DropUpvote(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}
	mustContain(t, f.lastSQL(), "greatest(upvote_count - 1, 0)")
}

func TestAddStanceCountersIsOneClampedUpdate(t *testing.T) {
	f := &fakeQuerier{}
	r := NewPG().Bind(f)

	err := r.AddStanceCounters(context.Background(), "p1", moderation.Counters{Confirm: -1, Dispute: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(f.sqls) != 1 {
		t.Fatalf("switch deltas must land in one statement, got %d", len(f.sqls))
	}
	mustContain(t, f.lastSQL(),
		"greatest(confirm_votes + $2, 0)",
		"greatest(dispute_votes + $3, 0)",
	)
}

func TestMarkFlaggedIsConditional(t *testing.T) {
	f := &fakeQuerier{}
	r := NewPG().Bind(f)

	if err := r.MarkFlagged(context.Background(), "p1", "u1"); err != nil {
		t.Fatal(err)
	}
	// only the first not-implementable vote on an implementable paper flips it
	mustContain(t, f.lastSQL(),
		"coalesce(flagged_by, $2)",
		"where id = $1 and implementability_status = $4",
	)
	got := f.args[len(f.args)-1]
	if got[3] != string(moderation.StatusImplementable) {
		t.Fatalf("guard status arg = %v", got[3])
	}
}

func TestSwitchStanceKeyedOnOldKind(t *testing.T) {
	f := &fakeQuerier{affected: 1}
	r := NewPG().Bind(f)

	ok, err := r.SwitchStance(context.Background(), "p1", "u1",
		moderation.StanceNotImplementable, moderation.StanceIsImplementable)
	if err != nil || !ok {
		t.Fatalf("switch: ok=%v err=%v", ok, err)
	}
	mustContain(t, f.lastSQL(), "kind = $3")
	got := f.args[len(f.args)-1]
	if got[2] != string(moderation.StanceNotImplementable) || got[3] != string(moderation.StanceIsImplementable) {
		t.Fatalf("switch args = %v", got)
	}
}

func TestTransitionCompareAndSwap(t *testing.T) {
	cases := []struct {
		name string
		out  moderation.Outcome
		want []string
		not  []string
	}{
		{
			name: "confirm keeps counters",
			out: moderation.Outcome{
				Transitioned: true,
				Status:       moderation.StatusConfirmedNonImp,
				ConfirmedBy:  moderation.ConfirmedByCommunity,
			},
			want: []string{"confirmed_by = $4", "where id = $1 and implementability_status = $2"},
			not:  []string{"confirm_votes = 0"},
		},
		{
			name: "implementable clears the slate",
			out: moderation.Outcome{
				Transitioned:   true,
				Status:         moderation.StatusConfirmedImp,
				ConfirmedBy:    moderation.ConfirmedByCommunity,
				ClearCounters:  true,
				ClearFlaggedBy: true,
			},
			want: []string{"confirmed_by = $4", "confirm_votes = 0, dispute_votes = 0", "flagged_by = null"},
		},
		{
			name: "revert clears confirmation too",
			out: moderation.Outcome{
				Transitioned:   true,
				Status:         moderation.StatusImplementable,
				ClearCounters:  true,
				ClearFlaggedBy: true,
				ClearConfirmed: true,
			},
			want: []string{"confirmed_by = null", "confirm_votes = 0, dispute_votes = 0"},
			not:  []string{"$4"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeQuerier{affected: 1}
			r := NewPG().Bind(f)

			ok, err := r.Transition(context.Background(), "p1", moderation.StatusFlagged, tc.out)
			if err != nil || !ok {
				t.Fatalf("transition: ok=%v err=%v", ok, err)
			}
			mustContain(t, f.lastSQL(), tc.want...)
			for _, n := range tc.not {
				if strings.Contains(f.lastSQL(), n) {
					t.Fatalf("sql should not contain %q:\n%s", n, f.lastSQL())
				}
			}
		})
	}
}

func TestTransitionLosesRace(t *testing.T) {
	f := &fakeQuerier{affected: 0}
	r := NewPG().Bind(f)

	ok, err := r.Transition(context.Background(), "p1", moderation.StatusFlagged, moderation.Outcome{
		Transitioned: true,
		Status:       moderation.StatusConfirmedNonImp,
		ConfirmedBy:  moderation.ConfirmedByCommunity,
	})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("zero affected rows must report a lost race")
	}
}

func TestPurgeStancesSparesUpvotes(t *testing.T) {
	f := &fakeQuerier{affected: 2}
	r := NewPG().Bind(f)

	n, err := r.PurgeStances(context.Background(), "p1")
	if err != nil || n != 2 {
		t.Fatalf("purge: n=%d err=%v", n, err)
	}
	mustContain(t, f.lastSQL(), "kind <> $2")
	got := f.args[len(f.args)-1]
	if got[1] != KindUpvote {
		t.Fatalf("spared kind arg = %v", got[1])
	}

	// full purge takes everything
	if _, err := r.PurgeActions(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(f.lastSQL(), "kind") {
		t.Fatalf("full purge must not filter by kind:\n%s", f.lastSQL())
	}
}

func TestListFilterShape(t *testing.T) {
	f := &fakeQuerier{}
	r := NewPG().Bind(f)

	_, _, err := r.List(context.Background(), ListFilter{Query: "bert", Sort: "top", Limit: 20})
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, f.sqls[0],
		"search_text like '%' || $1 || '%'",
		"$3 = any(tasks)",
		"order by upvote_count desc",
	)
}
