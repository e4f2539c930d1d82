package app

import (
	"context"

	"lostfound/domain"
)

// Repository is the item store. Mutations append or overwrite without any
// status gate; who may call them is decided by the handlers through the
// visibility rules.
type Repository interface {
	Close() error
	Create(ctx context.Context, report domain.Report) (domain.Item, error)
	GetItem(ctx context.Context, id string) (domain.Item, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
	CountItems(ctx context.Context) (int, error)
	SetStatus(ctx context.Context, id string, status domain.Status) (domain.Item, error)
	AddSighting(ctx context.Context, id string, input domain.SightingInput) (domain.Item, error)
	AddComment(ctx context.Context, id, authorEmail, content string) (domain.Item, error)
	AddReaction(ctx context.Context, id string, kind domain.ReactionKind) (domain.Item, error)
}
