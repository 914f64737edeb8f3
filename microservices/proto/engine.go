// Package proto describes the blobwar.Engine gRPC service. Messages are
// well-known google.protobuf.Struct values so no generated code is needed.
package proto

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"blobwar/internal/domain"
)

const (
	EngineService     = "blobwar.Engine"
	ComputeMoveMethod = "/" + EngineService + "/ComputeMove"
)

type EngineServer interface {
	ComputeMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

func RegisterEngineServer(s grpc.ServiceRegistrar, srv EngineServer) {
	s.RegisterService(&EngineServiceDesc, srv)
}

var EngineServiceDesc = grpc.ServiceDesc{
	ServiceName: EngineService,
	HandlerType: (*EngineServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ComputeMove", Handler: computeMoveHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "blobwar/engine",
}

func computeMoveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServer).ComputeMove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ComputeMoveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EngineServer).ComputeMove(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func MoveRequestToRPC(req domain.MoveRequest) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"board":    req.Board,
		"strategy": req.Strategy,
	})
}

func MoveRequestFromRPC(in *structpb.Struct) domain.MoveRequest {
	return domain.MoveRequest{
		Board:    in.GetFields()["board"].GetStringValue(),
		Strategy: in.GetFields()["strategy"].GetStringValue(),
	}
}

func MoveResponseToRPC(resp domain.MoveResponse) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"move":  resp.Move,
		"found": resp.Found,
		"value": float64(resp.Value),
	})
}

func MoveResponseFromRPC(out *structpb.Struct) (domain.MoveResponse, error) {
	fields := out.GetFields()
	value := fields["value"].GetNumberValue()
	if value < -64 || value > 64 {
		return domain.MoveResponse{}, fmt.Errorf("engine returned value %v out of range", value)
	}
	return domain.MoveResponse{
		Move:  fields["move"].GetStringValue(),
		Found: fields["found"].GetBoolValue(),
		Value: int8(value),
	}, nil
}
