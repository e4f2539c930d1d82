package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"lostfound/app"
	"lostfound/domain"
	"lostfound/pkg/events"
	"lostfound/pkg/httperror"
	"lostfound/pkg/identity"
	"lostfound/pkg/metrics"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ItemServiceServer is the admin-side gRPC surface over the item store. It
// shares the store with the HTTP API when both run in one process.
type ItemServiceServer struct {
	repository app.Repository
	decide     *app.DecideItemHandler
}

func NewItemServiceServer(repository app.Repository, eventPublisher events.Publisher, recorder metrics.Recorder) *ItemServiceServer {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &ItemServiceServer{
		repository: repository,
		decide:     app.NewDecideItemHandler(repository, eventPublisher, recorder),
	}
}

func (s *ItemServiceServer) GetItem(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "item id is required")
	}

	item, err := s.repository.GetItem(ctx, req.GetValue())
	if err != nil {
		return nil, s.mapError(err)
	}

	return toStruct(item)
}

// ListItems reads "role" (default admin), "status" and "q" from the request.
func (s *ItemServiceServer) ListItems(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	role := domain.RoleAdmin
	if v, ok := fields["role"]; ok {
		parsed, err := domain.ParseRole(v.GetStringValue())
		if err != nil {
			return nil, s.mapError(err)
		}
		role = parsed
	}

	filter, err := domain.ParseStatusFilter(fields["status"].GetStringValue())
	if err != nil {
		return nil, s.mapError(err)
	}

	items, err := s.repository.ListItems(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}

	visible := domain.Search(domain.VisibleTo(role, items, filter), fields["q"].GetStringValue())

	return toStruct(map[string]any{
		"items":      visible,
		"totalItems": len(visible),
	})
}

// DecideItem applies {"id", "decision", "moderator"}. Callers of this
// service are trusted operators: the moderator is taken as an admin without
// further checks, and is required so every decision event names who made it.
func (s *ItemServiceServer) DecideItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	id := fields["id"].GetStringValue()
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	moderator := strings.TrimSpace(fields["moderator"].GetStringValue())
	if moderator == "" {
		return nil, status.Error(codes.InvalidArgument, "moderator is required")
	}

	ctx = identity.WithViewer(ctx, domain.Viewer{Email: moderator, Role: domain.RoleAdmin})
	res, err := s.decide.Handle(ctx, &app.DecideItemRequest{
		ItemID:   id,
		Decision: strings.ToLower(strings.TrimSpace(fields["decision"].GetStringValue())),
	})
	if err != nil {
		return nil, statusFromHTTP(err)
	}

	return toStruct(res.Item)
}

// statusFromHTTP maps handler errors shared with the HTTP API onto gRPC codes.
func statusFromHTTP(err error) error {
	var httpErr *httperror.Error
	if !errors.As(err, &httpErr) {
		return status.Error(codes.Internal, "internal error")
	}

	switch httpErr.Status {
	case http.StatusBadRequest:
		return status.Error(codes.InvalidArgument, httpErr.Error())
	case http.StatusUnauthorized:
		return status.Error(codes.Unauthenticated, httpErr.Error())
	case http.StatusForbidden:
		return status.Error(codes.PermissionDenied, httpErr.Error())
	case http.StatusNotFound:
		return status.Error(codes.NotFound, httpErr.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *ItemServiceServer) mapError(err error) error {
	switch {
	case domain.IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case domain.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// toStruct converts any JSON-serialisable value into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}

	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return out, nil
}
