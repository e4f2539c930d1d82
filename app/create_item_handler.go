package app

import (
	"context"

	"lostfound/domain"
	"lostfound/pkg/events"
	"lostfound/pkg/metrics"

	"github.com/shopspring/decimal"
)

type CreateItemHandler struct {
	repository     Repository
	eventPublisher events.Publisher
	recorder       metrics.Recorder
}

type CreateItemRequest struct {
	FullName     string          `json:"fullName"`
	PhoneNumber  string          `json:"phoneNumber"`
	Email        string          `json:"email"`
	City         string          `json:"city"`
	Country      string          `json:"country"`
	Description  string          `json:"description"`
	RewardAmount decimal.Decimal `json:"rewardAmount"`
}

type CreateItemResponse struct {
	Item domain.Item `json:"item"`
}

func NewCreateItemHandler(repository Repository, eventPublisher events.Publisher, recorder metrics.Recorder) *CreateItemHandler {
	return &CreateItemHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
		recorder:       recorder,
	}
}

func (h *CreateItemHandler) Handle(ctx context.Context, req *CreateItemRequest) (*CreateItemResponse, error) {
	viewer, err := viewerFrom(ctx, "item.create")
	if err != nil {
		return nil, err
	}

	item, err := h.repository.Create(ctx, domain.Report{
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		City:         req.City,
		Country:      req.Country,
		Description:  req.Description,
		RewardAmount: req.RewardAmount,
	})
	if err != nil {
		return nil, storeError("item.create", err)
	}

	h.recorder.RecordItemCreated()

	publishItemEvent(ctx, h.eventPublisher, events.ItemCreatedEvent, item.ID, events.ItemCreatedPayload{
		ID:           item.ID,
		City:         item.City,
		Country:      item.Country,
		RewardAmount: item.RewardAmount,
		Status:       string(item.Status),
		ReportedBy:   viewer.Email,
		ReportedAt:   item.ReportedAt,
	})

	return &CreateItemResponse{
		Item: item,
	}, nil
}
