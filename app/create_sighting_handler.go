package app

import (
	"context"

	"lostfound/domain"
	"lostfound/pkg/events"
	"lostfound/pkg/metrics"
)

type CreateSightingHandler struct {
	repository     Repository
	eventPublisher events.Publisher
	recorder       metrics.Recorder
}

func NewCreateSightingHandler(repository Repository, eventPublisher events.Publisher, recorder metrics.Recorder) *CreateSightingHandler {
	return &CreateSightingHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
		recorder:       recorder,
	}
}

type CreateSightingRequest struct {
	ItemID   string `params:"id" validate:"required"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

type CreateSightingResponse struct {
	Item     domain.Item     `json:"item"`
	Sighting domain.Sighting `json:"sighting"`
}

func (h *CreateSightingHandler) Handle(ctx context.Context, req *CreateSightingRequest) (*CreateSightingResponse, error) {
	viewer, err := viewerFrom(ctx, "sighting.create")
	if err != nil {
		return nil, err
	}
	if err := validateRequest("sighting.create", req); err != nil {
		return nil, err
	}

	if _, err := visibleItem(ctx, h.repository, viewer, req.ItemID, "sighting.create"); err != nil {
		return nil, err
	}

	item, err := h.repository.AddSighting(ctx, req.ItemID, domain.SightingInput{
		ReporterEmail: viewer.Email,
		Location:      req.Location,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, storeError("sighting.create", err)
	}

	sighting := item.Sightings[len(item.Sightings)-1]
	h.recorder.RecordSighting()

	publishItemEvent(ctx, h.eventPublisher, events.ItemSightingCreatedEvent, item.ID, events.ItemSightingCreatedPayload{
		ID:              sighting.ID,
		ItemID:          item.ID,
		ReportedByEmail: sighting.ReportedByEmail,
		Location:        sighting.Location,
		ReportedAt:      sighting.ReportedAt,
	})

	return &CreateSightingResponse{
		Item:     item,
		Sighting: sighting,
	}, nil
}
