package app

import (
	"context"

	"lostfound/domain"
)

type GetCommentsHandler struct {
	repository Repository
}

func NewGetCommentsHandler(repository Repository) *GetCommentsHandler {
	return &GetCommentsHandler{
		repository: repository,
	}
}

type GetCommentsRequest struct {
	ID       string `params:"id"`
	Page     int    `query:"page"`
	PageSize int    `query:"limit"`
}

type GetCommentsResponse struct {
	Comments []domain.Comment `json:"comments"`
	pagination
}

func (h *GetCommentsHandler) Handle(ctx context.Context, req *GetCommentsRequest) (*GetCommentsResponse, error) {
	viewer, err := viewerFrom(ctx, "comments.index")
	if err != nil {
		return nil, err
	}

	item, err := visibleItem(ctx, h.repository, viewer, req.ID, "comments.index")
	if err != nil {
		return nil, err
	}

	page, start, end := paginate(len(item.Comments), req.Page, req.PageSize)

	return &GetCommentsResponse{
		Comments:   item.Comments[start:end],
		pagination: page,
	}, nil
}
