package app

import (
	"context"

	"lostfound/domain"
	"lostfound/pkg/httperror"

	"github.com/gofiber/fiber/v2"
)

type GetItemsHandler struct {
	repository Repository
}

func NewGetItemsHandler(repository Repository) *GetItemsHandler {
	return &GetItemsHandler{
		repository: repository,
	}
}

type GetItemsRequest struct {
	Status   string `query:"status"`
	Query    string `query:"q"`
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
}

type GetItemsResponse struct {
	Items []domain.Item `json:"items"`
	pagination
}

func (h *GetItemsHandler) Handle(ctx context.Context, req *GetItemsRequest) (*GetItemsResponse, error) {
	viewer, err := viewerFrom(ctx, "item.index")
	if err != nil {
		return nil, err
	}

	filter, err := domain.ParseStatusFilter(req.Status)
	if err != nil {
		return nil, httperror.BadRequest(
			"item.index.invalid_status",
			"Unknown status filter",
			fiber.Map{"field": "status", "error": err.Error()},
		)
	}

	items, err := h.repository.ListItems(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.index.failed",
			"Failed to retrieve items",
			nil,
		)
	}

	visible := domain.Search(domain.VisibleTo(viewer.Role, items, filter), req.Query)
	page, start, end := paginate(len(visible), req.Page, req.PageSize)

	return &GetItemsResponse{
		Items:      visible[start:end],
		pagination: page,
	}, nil
}
