package identity

import (
	"context"

	"lostfound/domain"
)

type viewerKey struct{}

func WithViewer(ctx context.Context, viewer domain.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, viewer)
}

func FromContext(ctx context.Context) (domain.Viewer, bool) {
	viewer, ok := ctx.Value(viewerKey{}).(domain.Viewer)
	return viewer, ok
}
