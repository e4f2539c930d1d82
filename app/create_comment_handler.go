package app

import (
	"context"

	"lostfound/domain"
	"lostfound/pkg/events"
	"lostfound/pkg/metrics"
)

type CreateCommentHandler struct {
	repository     Repository
	eventPublisher events.Publisher
	recorder       metrics.Recorder
}

func NewCreateCommentHandler(repository Repository, eventPublisher events.Publisher, recorder metrics.Recorder) *CreateCommentHandler {
	return &CreateCommentHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
		recorder:       recorder,
	}
}

type CreateCommentRequest struct {
	ItemID  string `params:"id" validate:"required"`
	Content string `json:"content"`
}

type CreateCommentResponse struct {
	Item    domain.Item    `json:"item"`
	Comment domain.Comment `json:"comment"`
}

func (h *CreateCommentHandler) Handle(ctx context.Context, req *CreateCommentRequest) (*CreateCommentResponse, error) {
	viewer, err := viewerFrom(ctx, "comment.create")
	if err != nil {
		return nil, err
	}
	if err := validateRequest("comment.create", req); err != nil {
		return nil, err
	}

	if _, err := visibleItem(ctx, h.repository, viewer, req.ItemID, "comment.create"); err != nil {
		return nil, err
	}

	item, err := h.repository.AddComment(ctx, req.ItemID, viewer.Email, req.Content)
	if err != nil {
		return nil, storeError("comment.create", err)
	}

	comment := item.Comments[len(item.Comments)-1]
	h.recorder.RecordComment()

	publishItemEvent(ctx, h.eventPublisher, events.ItemCommentCreatedEvent, item.ID, events.ItemCommentCreatedPayload{
		ID:          comment.ID,
		ItemID:      item.ID,
		AuthorEmail: comment.AuthorEmail,
		Content:     comment.Content,
		CreatedAt:   comment.CreatedAt,
	})

	return &CreateCommentResponse{
		Item:    item,
		Comment: comment,
	}, nil
}
