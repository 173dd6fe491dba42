// Package domain holds DTOs for the papers http and service contracts
package domain

// Paper is the full paper projection returned by every engine operation
type Paper struct {
	ID          string   `json:"id" example:"6b1f4e9a-0b0c-4c62-9f2d-6a1a1c9b7d10"`
	SourceURL   string   `json:"source_url" example:"https://arxiv.org/abs/2105.01234"`
	ArxivID     string   `json:"arxiv_id,omitempty" example:"2105.01234"`
	Title       string   `json:"title" example:"Attention Is All You Need"`
	Abstract    string   `json:"abstract,omitempty"`
	Authors     []string `json:"authors"`
	PublishedAt string   `json:"published_at,omitempty" example:"2021-05-04"`
	Venue       string   `json:"venue,omitempty" example:"NeurIPS"`
	Tasks       []string `json:"tasks"`

	UpvoteCount     int    `json:"upvote_count" example:"12"`
	CurrentUserVote string `json:"current_user_vote" example:"none"`

	ImplementabilityStatus string `json:"implementability_status" example:"flagged"`
	ConfirmVotes           int    `json:"confirm_votes" example:"2"`
	DisputeVotes           int    `json:"dispute_votes" example:"1"`
	// "up" votes is-implementable, "down" votes not-implementable
	CurrentUserImplementabilityVote string `json:"current_user_implementability_vote" example:"none"`
	ConfirmedBy                     string `json:"confirmed_by,omitempty" example:"community"`
	FlaggedBy                       string `json:"flagged_by,omitempty"`

	CreatedAt string `json:"created_at" example:"2026-08-01T12:00:00Z"`
}

// ListInput carries browse/search filters parsed from query params
type ListInput struct {
	Query    string
	Status   string
	Task     string
	Sort     string // top | new
	Page     int
	PageSize int
}

// CreateInput is the owner-only ingest payload, the seam for the offline
// harvesting pipeline
type CreateInput struct {
	SourceURL   string   `json:"source_url" validate:"required,url" example:"https://arxiv.org/abs/2105.01234"`
	ArxivID     string   `json:"arxiv_id,omitempty" validate:"omitempty,arxiv_id" example:"2105.01234"`
	Title       string   `json:"title" validate:"required,min=1,max=500"`
	Abstract    string   `json:"abstract,omitempty" validate:"omitempty,max=10000"`
	Authors     []string `json:"authors,omitempty" validate:"omitempty,max=100,dive,min=1,max=200"`
	PublishedAt string   `json:"published_at,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2021-05-04"`
	Venue       string   `json:"venue,omitempty" validate:"omitempty,max=200"`
	Tasks       []string `json:"tasks,omitempty" validate:"omitempty,max=50,dive,min=1,max=100"`
}

// VoteInput toggles the popularity upvote
type VoteInput struct {
	VoteType string `json:"vote_type" validate:"required,oneof=up none" example:"up"`
}

// FlagInput casts, switches, or retracts an implementability stance.
// "confirm" is the thumbs-up meaning the paper IS implementable,
// "dispute" asserts it is not
type FlagInput struct {
	Action string `json:"action" validate:"required,oneof=confirm dispute retract" example:"confirm"`
}

// OverrideInput force-sets the implementability status, owner only
type OverrideInput struct {
	StatusToSet string `json:"status_to_set" validate:"required,oneof=confirmed_implementable confirmed_non_implementable voting" example:"voting"`
}

// RemovalAck reports the removal outcome. CleanedUp false means the paper was
// archived but the live record could not be deleted
type RemovalAck struct {
	Message   string `json:"message" example:"paper removed"`
	CleanedUp bool   `json:"cleaned_up" example:"true"`
}

// HistoryEvent is one audit trail entry for a paper
type HistoryEvent struct {
	TS        string `json:"ts" example:"2026-08-01T12:00:00Z"`
	UserID    string `json:"user_id,omitempty"`
	Event     string `json:"event" example:"stance_confirm"`
	Detail    string `json:"detail,omitempty"`
	OldStatus string `json:"old_status,omitempty" example:"flagged"`
	NewStatus string `json:"new_status,omitempty" example:"confirmed_implementable"`
}
