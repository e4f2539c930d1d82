package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const ItemExchange = "lostfound.item"

// Event names
const (
	ItemCreatedEvent         = "item.created"
	ItemApprovedEvent        = "item.approved"
	ItemRejectedEvent        = "item.rejected"
	ItemSightingCreatedEvent = "item.sighting.created"
	ItemCommentCreatedEvent  = "item.comment.created"
	ItemReactionAddedEvent   = "item.reaction.added"
)

// Event versions
const (
	EventVersionV1 = "v1"
)

type ItemCreatedPayload struct {
	ID           string          `json:"id"`
	City         string          `json:"city"`
	Country      string          `json:"country"`
	RewardAmount decimal.Decimal `json:"rewardAmount"`
	Status       string          `json:"status"`
	ReportedBy   string          `json:"reportedBy"`
	ReportedAt   time.Time       `json:"reportedAt"`
}

// ItemModeratedPayload is shared by item.approved and item.rejected.
type ItemModeratedPayload struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	ModeratedBy string    `json:"moderatedBy"`
	ModeratedAt time.Time `json:"moderatedAt"`
}

type ItemSightingCreatedPayload struct {
	ID              string    `json:"id"`
	ItemID          string    `json:"itemId"`
	ReportedByEmail string    `json:"reportedByEmail"`
	Location        string    `json:"location"`
	ReportedAt      time.Time `json:"reportedAt"`
}

type ItemCommentCreatedPayload struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"itemId"`
	AuthorEmail string    `json:"authorEmail"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ItemReactionAddedPayload struct {
	ItemID    string    `json:"itemId"`
	Kind      string    `json:"kind"`
	Count     uint64    `json:"count"`
	ReactedBy string    `json:"reactedBy"`
	ReactedAt time.Time `json:"reactedAt"`
}
