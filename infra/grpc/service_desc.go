package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ItemServiceName = "lostfound.item.v1.ItemService"

// ItemService is implemented by ItemServiceServer. Messages are protobuf
// well-known types, so no generated code is needed.
type ItemService interface {
	GetItem(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListItems(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DecideItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var ItemServiceDesc = grpc.ServiceDesc{
	ServiceName: ItemServiceName,
	HandlerType: (*ItemService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetItem", Handler: getItemHandler},
		{MethodName: "ListItems", Handler: listItemsHandler},
		{MethodName: "DecideItem", Handler: decideItemHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lostfound/item/v1/item_service.proto",
}

func RegisterItemServiceServer(registrar grpc.ServiceRegistrar, srv ItemService) {
	registrar.RegisterService(&ItemServiceDesc, srv)
}

func getItemHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ItemService).GetItem(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ItemServiceName + "/GetItem"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ItemService).GetItem(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func listItemsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ItemService).ListItems(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ItemServiceName + "/ListItems"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ItemService).ListItems(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func decideItemHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ItemService).DecideItem(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ItemServiceName + "/DecideItem"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ItemService).DecideItem(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
