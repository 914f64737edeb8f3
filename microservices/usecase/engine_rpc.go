package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"blobwar/internal/domain"
	blobwarErrors "blobwar/internal/errors"
	engineRPC "blobwar/microservices/proto"
)

type EngineStore interface {
	ComputeMove(ctx context.Context, req domain.MoveRequest) (domain.MoveResponse, error)
}

type EngineUseCase struct {
	store EngineStore
	log   *zap.SugaredLogger
}

var _ engineRPC.EngineServer = (*EngineUseCase)(nil)

func NewEngineUseCase(store EngineStore, log *zap.SugaredLogger) *EngineUseCase {
	return &EngineUseCase{
		store: store,
		log:   log,
	}
}

func (e *EngineUseCase) ComputeMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := engineRPC.MoveRequestFromRPC(in)
	if req.Board == "" || req.Strategy == "" {
		return nil, status.Error(codes.InvalidArgument, "board and strategy are required")
	}

	resp, err := e.store.ComputeMove(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := engineRPC.MoveResponseToRPC(resp)
	if err != nil {
		e.log.Errorw("encode move response", "error", err)
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, blobwarErrors.ErrBadNotation), errors.Is(err, blobwarErrors.ErrUnknownStrategy):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, blobwarErrors.ErrGameOver):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
