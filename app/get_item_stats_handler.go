package app

import (
	"context"

	"lostfound/domain"
	"lostfound/pkg/httperror"
)

type GetItemStatsHandler struct {
	repository Repository
}

func NewGetItemStatsHandler(repository Repository) *GetItemStatsHandler {
	return &GetItemStatsHandler{
		repository: repository,
	}
}

type GetItemStatsRequest struct{}

type GetItemStatsResponse struct {
	Counts domain.StatusCounts `json:"counts"`
}

func (h *GetItemStatsHandler) Handle(ctx context.Context, _ *GetItemStatsRequest) (*GetItemStatsResponse, error) {
	viewer, err := viewerFrom(ctx, "item.stats")
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(viewer, "item.stats"); err != nil {
		return nil, err
	}

	items, err := h.repository.ListItems(ctx)
	if err != nil {
		return nil, httperror.InternalServerError("item.stats.failed", "Failed to retrieve items", nil)
	}

	return &GetItemStatsResponse{
		Counts: domain.CountByStatus(domain.VisibleTo(viewer.Role, items, domain.FilterAll)),
	}, nil
}
