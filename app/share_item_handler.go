package app

import (
	"context"
	"strings"

	"lostfound/domain"
)

type ShareItemHandler struct {
	repository    Repository
	publicBaseURL string
}

// NewShareItemHandler builds share links under publicBaseURL. An empty base
// leaves the link out of the tweet intent.
func NewShareItemHandler(repository Repository, publicBaseURL string) *ShareItemHandler {
	return &ShareItemHandler{
		repository:    repository,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

type ShareItemRequest struct {
	ItemID string `params:"id"`
}

type ShareItemResponse struct {
	Text       string `json:"text"`
	URL        string `json:"url,omitempty"`
	TwitterURL string `json:"twitterUrl"`
}

func (h *ShareItemHandler) Handle(ctx context.Context, req *ShareItemRequest) (*ShareItemResponse, error) {
	viewer, err := viewerFrom(ctx, "item.share")
	if err != nil {
		return nil, err
	}

	item, err := visibleItem(ctx, h.repository, viewer, req.ItemID, "item.share")
	if err != nil {
		return nil, err
	}

	var link string
	if h.publicBaseURL != "" {
		link = h.publicBaseURL + "/items/" + item.ID
	}
	text := domain.ShareText(item)

	return &ShareItemResponse{
		Text:       text,
		URL:        link,
		TwitterURL: domain.TwitterIntentURL(text, link),
	}, nil
}
