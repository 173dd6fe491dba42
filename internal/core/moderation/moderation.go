// Package moderation holds the implementability state machine for catalog papers.
//
// The engine code in services applies ledger and counter mutations; this
// package decides, from the post-mutation counters, which status transition
// fires and which side effects the caller must apply. Keeping the rules pure
// makes every branch table-testable without a store.
package moderation

import (
	perr "codegap/internal/platform/errors"
)

// Status is the implementability lifecycle of a paper
type Status string

// Status values
const (
	StatusImplementable   Status = "implementable"
	StatusFlagged         Status = "flagged"
	StatusConfirmedNonImp Status = "confirmed_non_implementable"
	StatusConfirmedImp    Status = "confirmed_implementable"
)

// ParseStatus validates a wire status string
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusImplementable, StatusFlagged, StatusConfirmedNonImp, StatusConfirmedImp:
		return Status(s), nil
	}
	return "", perr.Invalidf("unknown status %q", s)
}

// ConfirmedBy records which authority confirmed a terminal status
type ConfirmedBy string

// ConfirmedBy values. Empty means not confirmed
const (
	ConfirmedByNone      ConfirmedBy = ""
	ConfirmedByCommunity ConfirmedBy = "community"
	ConfirmedByOwner     ConfirmedBy = "owner"
)

// Stance is a user's implementability position on a paper
type Stance string

// Stance values. The ledger kind strings are stored as-is in paper_actions
const (
	// StanceNotImplementable asserts the paper cannot be reproduced in code
	StanceNotImplementable Stance = "vote_not_implementable"
	// StanceIsImplementable asserts the paper can be reproduced in code
	StanceIsImplementable Stance = "vote_is_implementable"
)

// Opposite returns the other stance
func (s Stance) Opposite() Stance {
	if s == StanceNotImplementable {
		return StanceIsImplementable
	}
	return StanceNotImplementable
}

// Counters are the paper's stance tallies.
// Confirm mirrors not-implementable stances, Dispute mirrors is-implementable
type Counters struct {
	Confirm int
	Dispute int
}

// Delta returns the counter deltas for entering a stance fresh
func Delta(s Stance) Counters {
	if s == StanceNotImplementable {
		return Counters{Confirm: 1}
	}
	return Counters{Dispute: 1}
}

// SwitchDelta returns the combined counter deltas for switching from one
// stance to the other. Exactly -1 on the old counter and +1 on the new one
func SwitchDelta(from, to Stance) Counters {
	d := Delta(to)
	u := Delta(from)
	return Counters{Confirm: d.Confirm - u.Confirm, Dispute: d.Dispute - u.Dispute}
}

// Thresholds are the confirmation margins. Comparisons use >= so ties favor action
type Thresholds struct {
	// Confirm is the margin of not-implementable over is-implementable votes
	// needed to confirm a paper as non implementable
	Confirm int
	// Implementable is the margin the other way needed to confirm a paper
	// as implementable
	Implementable int
}

// DefaultThresholds returns the stock margins
func DefaultThresholds() Thresholds { return Thresholds{Confirm: 3, Implementable: 3} }

// Outcome tells the caller what to persist after a ledger+counter mutation.
// A zero Outcome (Transitioned false) means counters only
type Outcome struct {
	Transitioned bool
	Status       Status
	ConfirmedBy  ConfirmedBy

	// side effects the caller must apply along with the status write
	ClearCounters  bool
	ClearFlaggedBy bool
	ClearConfirmed bool
	PurgeStances   bool
}

// ShouldFlag reports whether a fresh not-implementable stance flips an
// implementable paper to flagged
func ShouldFlag(cur Status, s Stance) bool {
	return cur == StatusImplementable && s == StanceNotImplementable
}

// Evaluate applies the threshold rules to post-mutation counters.
//
// Order matters: the non-implementable confirmation wins over the
// implementable one, and the flagged revert only applies when neither
// margin is met
func Evaluate(cur Status, c Counters, t Thresholds) Outcome {
	switch {
	case c.Confirm >= c.Dispute+t.Confirm:
		if cur == StatusConfirmedNonImp {
			return Outcome{}
		}
		// counters are kept for audit on this branch
		return Outcome{
			Transitioned: true,
			Status:       StatusConfirmedNonImp,
			ConfirmedBy:  ConfirmedByCommunity,
		}
	case c.Dispute >= c.Confirm+t.Implementable:
		if cur == StatusConfirmedImp {
			return Outcome{}
		}
		return Outcome{
			Transitioned:   true,
			Status:         StatusConfirmedImp,
			ConfirmedBy:    ConfirmedByCommunity,
			ClearCounters:  true,
			ClearFlaggedBy: true,
			PurgeStances:   true,
		}
	case cur == StatusFlagged && c.Dispute >= c.Confirm:
		return Outcome{
			Transitioned:   true,
			Status:         StatusImplementable,
			ConfirmedBy:    ConfirmedByNone,
			ClearCounters:  true,
			ClearFlaggedBy: true,
			ClearConfirmed: true,
			PurgeStances:   true,
		}
	default:
		return Outcome{}
	}
}
