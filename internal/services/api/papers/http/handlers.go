// Package http provides http transport for papers
package http

import (
	stdhttp "net/http"
	"strconv"

	"codegap/internal/modkit/httpkit"
	pnet "codegap/internal/platform/net"
	"codegap/internal/services/api/papers/domain"
	svc "codegap/internal/services/api/papers/service"
)

// Register mounts paper endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// catalog browse and ingest
	httpkit.Get(r, "/", h.list)
	httpkit.PostJSON[domain.CreateInput](r, "/", h.create)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.Get(r, "/{id}/history", h.history)

	// the moderation engines
	httpkit.PostJSON[domain.VoteInput](r, "/{id}/vote", h.vote)
	httpkit.PostJSON[domain.FlagInput](r, "/{id}/flag_implementability", h.flag)
	httpkit.PostJSON[domain.OverrideInput](r, "/{id}/set_implementability", h.override)
	httpkit.Delete(r, "/{id}", h.remove)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /papers Papers papersList
// @Summary Browse the paper catalog
// @Tags Papers
// @Produce json
// @Param q query string false "Search needle matched against title and abstract"
// @Param status query string false "Filter by implementability status"
// @Param task query string false "Filter by task tag"
// @Param sort query string false "top or new" default(new)
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size, capped at 100" default(20)
// @Success 200 {array} domain.Paper "ok"
// @Router /papers [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	in := domain.ListInput{
		Query:  q.Get("q"),
		Status: q.Get("status"),
		Task:   q.Get("task"),
		Sort:   q.Get("sort"),
	}
	in.Page, _ = strconv.Atoi(q.Get("page"))
	in.PageSize, _ = strconv.Atoi(q.Get("page_size"))
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PageSize < 1 {
		in.PageSize = 20
	}

	items, total, err := h.svc.List(r.Context(), in, pnet.UserID(r.Context()))
	if err != nil {
		return nil, err
	}
	return httpkit.List(items, total, in.Page, in.PageSize), nil
}

// swagger:route GET /papers/{id} Papers papersGet
// @Summary Fetch one paper with the caller's vote state
// @Tags Papers
// @Produce json
// @Param id path string true "Paper id"
// @Success 200 {object} domain.Paper "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /papers/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "id"), pnet.UserID(r.Context()))
}

// swagger:route POST /papers Papers papersCreate
// @Summary Ingest a paper, owner only
// @Tags Papers
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Paper"
// @Success 201 {object} domain.Paper "created"
// @Failure 403 {object} httpkit.Envelope "not the owner"
// @Router /papers [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	p, err := h.svc.Create(r.Context(), in, pnet.UserID(r.Context()))
	if err != nil {
		return nil, err
	}
	return httpkit.Created(p), nil
}

// swagger:route POST /papers/{id}/vote Papers papersVote
// @Summary Toggle the popularity upvote
// @Tags Papers
// @Accept json
// @Produce json
// @Param id path string true "Paper id"
// @Param payload body domain.VoteInput true "Vote"
// @Success 200 {object} domain.Paper "ok"
// @Failure 401 {object} httpkit.Envelope "missing user identity"
// @Router /papers/{id}/vote [post]
func (h *handlers) vote(r *stdhttp.Request, in domain.VoteInput) (any, error) {
	return h.svc.ApplyVote(r.Context(), httpkit.Param(r, "id"), pnet.UserID(r.Context()), in.VoteType)
}

// swagger:route POST /papers/{id}/flag_implementability Papers papersFlag
// @Summary Cast, switch, or retract an implementability stance
// @Tags Papers
// @Accept json
// @Produce json
// @Param id path string true "Paper id"
// @Param payload body domain.FlagInput true "Stance action"
// @Success 200 {object} domain.Paper "ok"
// @Failure 400 {object} httpkit.Envelope "stance already recorded"
// @Failure 403 {object} httpkit.Envelope "status decided by the owner"
// @Router /papers/{id}/flag_implementability [post]
func (h *handlers) flag(r *stdhttp.Request, in domain.FlagInput) (any, error) {
	return h.svc.ApplyStance(r.Context(), httpkit.Param(r, "id"), pnet.UserID(r.Context()), in.Action)
}

// swagger:route POST /papers/{id}/set_implementability Papers papersOverride
// @Summary Force the implementability status, owner only
// @Tags Papers
// @Accept json
// @Produce json
// @Param id path string true "Paper id"
// @Param payload body domain.OverrideInput true "Target status"
// @Success 200 {object} domain.Paper "ok"
// @Failure 403 {object} httpkit.Envelope "not the owner"
// @Router /papers/{id}/set_implementability [post]
func (h *handlers) override(r *stdhttp.Request, in domain.OverrideInput) (any, error) {
	return h.svc.ForceStatus(r.Context(), httpkit.Param(r, "id"), pnet.UserID(r.Context()), in.StatusToSet)
}

// swagger:route DELETE /papers/{id} Papers papersRemove
// @Summary Archive and delete a paper, owner only
// @Tags Papers
// @Produce json
// @Param id path string true "Paper id"
// @Success 200 {object} domain.RemovalAck "removed"
// @Success 207 {object} domain.RemovalAck "archived but not fully removed"
// @Failure 403 {object} httpkit.Envelope "not the owner"
// @Router /papers/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	ack, err := h.svc.Remove(r.Context(), httpkit.Param(r, "id"), pnet.UserID(r.Context()))
	if err != nil {
		return nil, err
	}
	if !ack.CleanedUp {
		return httpkit.Status(stdhttp.StatusMultiStatus, ack), nil
	}
	return httpkit.OK(ack), nil
}

// swagger:route GET /papers/{id}/history Papers papersHistory
// @Summary Moderation audit trail for a paper
// @Tags Papers
// @Produce json
// @Param id path string true "Paper id"
// @Success 200 {array} domain.HistoryEvent "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /papers/{id}/history [get]
func (h *handlers) history(r *stdhttp.Request) (any, error) {
	return h.svc.History(r.Context(), httpkit.Param(r, "id"))
}
