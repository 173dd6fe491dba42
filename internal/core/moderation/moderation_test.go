package moderation

import "testing"

func TestEvaluateConfirmsNonImplementableAtMargin(t *testing.T) {
	// three distinct not-implementable votes against zero disputes
	out := Evaluate(StatusFlagged, Counters{Confirm: 3, Dispute: 0}, DefaultThresholds())
	if !out.Transitioned {
		t.Fatalf("expected a transition")
	}
	if out.Status != StatusConfirmedNonImp {
		t.Fatalf("status = %q, want %q", out.Status, StatusConfirmedNonImp)
	}
	if out.ConfirmedBy != ConfirmedByCommunity {
		t.Fatalf("confirmedBy = %q, want community", out.ConfirmedBy)
	}
	// this branch preserves counters and ledger for audit
	if out.ClearCounters || out.PurgeStances || out.ClearFlaggedBy {
		t.Fatalf("non-implementable confirmation must not clear state: %+v", out)
	}
}

func TestEvaluateConfirmsImplementableAndResets(t *testing.T) {
	out := Evaluate(StatusFlagged, Counters{Confirm: 0, Dispute: 3}, DefaultThresholds())
	if !out.Transitioned || out.Status != StatusConfirmedImp {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if !out.ClearCounters || !out.ClearFlaggedBy || !out.PurgeStances {
		t.Fatalf("implementable confirmation must reset community state: %+v", out)
	}
	if out.ClearConfirmed {
		t.Fatalf("confirmedBy is being set, not cleared")
	}
}

func TestEvaluateFlaggedRevert(t *testing.T) {
	cases := []struct {
		name   string
		c      Counters
		revert bool
	}{
		{"dispute wins", Counters{Confirm: 1, Dispute: 2}, true},
		{"tie favors action", Counters{Confirm: 0, Dispute: 0}, true},
		{"confirm still ahead", Counters{Confirm: 2, Dispute: 1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Evaluate(StatusFlagged, tc.c, DefaultThresholds())
			if tc.revert {
				if !out.Transitioned || out.Status != StatusImplementable {
					t.Fatalf("expected revert, got %+v", out)
				}
				if !out.ClearCounters || !out.ClearFlaggedBy || !out.ClearConfirmed || !out.PurgeStances {
					t.Fatalf("revert must fully reset: %+v", out)
				}
			} else if out.Transitioned {
				t.Fatalf("expected no transition, got %+v", out)
			}
		})
	}
}

func TestEvaluateNoRevertOutsideFlagged(t *testing.T) {
	// the dispute>=confirm revert only applies while flagged
	out := Evaluate(StatusImplementable, Counters{Confirm: 0, Dispute: 1}, DefaultThresholds())
	if out.Transitioned {
		t.Fatalf("implementable paper must not transition on a lone dispute: %+v", out)
	}
}

func TestEvaluateAlreadyConfirmedIsStable(t *testing.T) {
	out := Evaluate(StatusConfirmedNonImp, Counters{Confirm: 4, Dispute: 0}, DefaultThresholds())
	if out.Transitioned {
		t.Fatalf("re-confirming the same status must be a no-op: %+v", out)
	}
}

func TestEvaluateConfirmMarginWinsOverImplementable(t *testing.T) {
	// both margins can never be met at once with positive thresholds, but the
	// confirm branch is checked first with zero thresholds
	t0 := Thresholds{Confirm: 0, Implementable: 0}
	out := Evaluate(StatusFlagged, Counters{Confirm: 1, Dispute: 1}, t0)
	if out.Status != StatusConfirmedNonImp {
		t.Fatalf("confirm branch should win ties, got %+v", out)
	}
}

func TestSwitchDeltaNeverDoubleCounts(t *testing.T) {
	d := SwitchDelta(StanceNotImplementable, StanceIsImplementable)
	if d.Confirm != -1 || d.Dispute != 1 {
		t.Fatalf("switch deltas = %+v, want confirm -1 dispute +1", d)
	}
	d = SwitchDelta(StanceIsImplementable, StanceNotImplementable)
	if d.Confirm != 1 || d.Dispute != -1 {
		t.Fatalf("switch deltas = %+v, want confirm +1 dispute -1", d)
	}
}

func TestShouldFlag(t *testing.T) {
	if !ShouldFlag(StatusImplementable, StanceNotImplementable) {
		t.Fatalf("first not-implementable vote must flag")
	}
	if ShouldFlag(StatusImplementable, StanceIsImplementable) {
		t.Fatalf("an is-implementable vote never flags")
	}
	if ShouldFlag(StatusFlagged, StanceNotImplementable) {
		t.Fatalf("already flagged papers stay flagged")
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("confirmed_implementable"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseStatus("definitely_not_a_status"); err == nil {
		t.Fatalf("expected an error for unknown status")
	}
}

func TestStanceOpposite(t *testing.T) {
	if StanceNotImplementable.Opposite() != StanceIsImplementable {
		t.Fatalf("wrong opposite")
	}
	if StanceIsImplementable.Opposite() != StanceNotImplementable {
		t.Fatalf("wrong opposite")
	}
}
