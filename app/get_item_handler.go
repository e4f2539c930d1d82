package app

import (
	"context"

	"lostfound/domain"
)

type GetItemHandler struct {
	repository Repository
}

func NewGetItemHandler(repository Repository) *GetItemHandler {
	return &GetItemHandler{
		repository: repository,
	}
}

type GetItemRequest struct {
	ItemID string `params:"id"`
}

type GetItemResponse struct {
	Item domain.Item `json:"item"`
}

func (h *GetItemHandler) Handle(ctx context.Context, req *GetItemRequest) (*GetItemResponse, error) {
	viewer, err := viewerFrom(ctx, "item.show")
	if err != nil {
		return nil, err
	}

	item, err := visibleItem(ctx, h.repository, viewer, req.ItemID, "item.show")
	if err != nil {
		return nil, err
	}

	return &GetItemResponse{
		Item: item,
	}, nil
}
