package app

import (
	"context"

	"lostfound/domain"
	"lostfound/pkg/events"
	"lostfound/pkg/metrics"

	"go.uber.org/zap"
)

type DecideItemHandler struct {
	repository     Repository
	eventPublisher events.Publisher
	recorder       metrics.Recorder
}

func NewDecideItemHandler(repository Repository, eventPublisher events.Publisher, recorder metrics.Recorder) *DecideItemHandler {
	return &DecideItemHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
		recorder:       recorder,
	}
}

type DecideItemRequest struct {
	ItemID   string `params:"id" validate:"required"`
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

type DecideItemResponse struct {
	Item domain.Item `json:"item"`
}

func (h *DecideItemHandler) Handle(ctx context.Context, req *DecideItemRequest) (*DecideItemResponse, error) {
	viewer, err := viewerFrom(ctx, "item.decision")
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(viewer, "item.decision"); err != nil {
		return nil, err
	}
	if err := validateRequest("item.decision", req); err != nil {
		return nil, err
	}

	target, err := domain.Decision(req.Decision).Target()
	if err != nil {
		return nil, storeError("item.decision", err)
	}

	item, err := h.repository.SetStatus(ctx, req.ItemID, target)
	if err != nil {
		return nil, storeError("item.decision", err)
	}

	h.recorder.RecordDecision(req.Decision)
	zap.L().Info("Item moderated",
		zap.String("itemId", item.ID),
		zap.String("status", string(item.Status)),
		zap.String("moderator", viewer.Email),
	)

	eventName := events.ItemApprovedEvent
	if item.Status == domain.StatusRejected {
		eventName = events.ItemRejectedEvent
	}
	publishItemEvent(ctx, h.eventPublisher, eventName, item.ID, events.ItemModeratedPayload{
		ID:          item.ID,
		Status:      string(item.Status),
		ModeratedBy: viewer.Email,
		ModeratedAt: timeNow().UTC(),
	})

	return &DecideItemResponse{
		Item: item,
	}, nil
}
