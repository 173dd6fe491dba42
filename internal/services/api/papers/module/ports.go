package module

import (
	"context"

	"codegap/internal/services/api/papers/domain"
	psvc "codegap/internal/services/api/papers/service"
)

// Ports returns the module ports (parity with audit)
func (m *Module) Ports() any { return m.ports }

// adaptPapersPort exposes service methods as module ports for cross-module usage
type adaptPapersPort struct{ svc psvc.Service }

func (a adaptPapersPort) Get(ctx context.Context, paperID, userID string) (domain.Paper, error) {
	return a.svc.Get(ctx, paperID, userID)
}

func (a adaptPapersPort) List(ctx context.Context, in domain.ListInput, userID string) ([]domain.Paper, int, error) {
	return a.svc.List(ctx, in, userID)
}
