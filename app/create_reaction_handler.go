package app

import (
	"context"

	"lostfound/domain"
	"lostfound/pkg/events"
	"lostfound/pkg/metrics"
)

type CreateReactionHandler struct {
	repository     Repository
	eventPublisher events.Publisher
	recorder       metrics.Recorder
}

func NewCreateReactionHandler(repository Repository, eventPublisher events.Publisher, recorder metrics.Recorder) *CreateReactionHandler {
	return &CreateReactionHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
		recorder:       recorder,
	}
}

type CreateReactionRequest struct {
	ItemID string `params:"id" validate:"required"`
	Kind   string `json:"kind" validate:"required"`
}

type CreateReactionResponse struct {
	Item domain.Item `json:"item"`
}

func (h *CreateReactionHandler) Handle(ctx context.Context, req *CreateReactionRequest) (*CreateReactionResponse, error) {
	viewer, err := viewerFrom(ctx, "reaction.create")
	if err != nil {
		return nil, err
	}
	if err := validateRequest("reaction.create", req); err != nil {
		return nil, err
	}

	kind, err := domain.ParseReactionKind(req.Kind)
	if err != nil {
		return nil, storeError("reaction.create", err)
	}

	if _, err := visibleItem(ctx, h.repository, viewer, req.ItemID, "reaction.create"); err != nil {
		return nil, err
	}

	item, err := h.repository.AddReaction(ctx, req.ItemID, kind)
	if err != nil {
		return nil, storeError("reaction.create", err)
	}

	h.recorder.RecordReaction(string(kind))

	publishItemEvent(ctx, h.eventPublisher, events.ItemReactionAddedEvent, item.ID, events.ItemReactionAddedPayload{
		ItemID:    item.ID,
		Kind:      string(kind),
		Count:     item.Reactions.Count(kind),
		ReactedBy: viewer.Email,
		ReactedAt: timeNow().UTC(),
	})

	return &CreateReactionResponse{
		Item: item,
	}, nil
}
