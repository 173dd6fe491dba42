package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	List(ctx context.Context, in ListInput, userID string) ([]Paper, int, error)
	Get(ctx context.Context, paperID, userID string) (Paper, error)
	Create(ctx context.Context, in CreateInput, userID string) (Paper, error)

	ApplyVote(ctx context.Context, paperID, userID, voteType string) (Paper, error)
	ApplyStance(ctx context.Context, paperID, userID, action string) (Paper, error)
	ForceStatus(ctx context.Context, paperID, userID, statusToSet string) (Paper, error)
	Remove(ctx context.Context, paperID, userID string) (RemovalAck, error)

	History(ctx context.Context, paperID string) ([]HistoryEvent, error)
}
