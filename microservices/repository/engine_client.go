package repository

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"blobwar/internal/domain"
	blobwarErrors "blobwar/internal/errors"
	engineRPC "blobwar/microservices/proto"
)

// EngineClient computes moves on a remote engine service.
type EngineClient struct {
	conn grpc.ClientConnInterface
}

func DialEngine(addr string) (*EngineClient, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial engine %s: %w", addr, err)
	}
	return NewEngineClient(conn), conn, nil
}

func NewEngineClient(conn grpc.ClientConnInterface) *EngineClient {
	return &EngineClient{conn: conn}
}

func (c *EngineClient) ComputeMove(ctx context.Context, req domain.MoveRequest) (domain.MoveResponse, error) {
	in, err := engineRPC.MoveRequestToRPC(req)
	if err != nil {
		return domain.MoveResponse{}, err
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, engineRPC.ComputeMoveMethod, in, out); err != nil {
		return domain.MoveResponse{}, fromStatus(err)
	}
	return engineRPC.MoveResponseFromRPC(out)
}

// fromStatus restores the sentinel behind a status so callers can keep
// using errors.Is across the wire.
func fromStatus(err error) error {
	st := status.Convert(err)
	switch st.Code() {
	case codes.InvalidArgument:
		if strings.HasPrefix(st.Message(), blobwarErrors.ErrBadNotation.Error()) {
			return fmt.Errorf("%w: %s", blobwarErrors.ErrBadNotation, st.Message())
		}
		return fmt.Errorf("%w: %s", blobwarErrors.ErrUnknownStrategy, st.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", blobwarErrors.ErrGameOver, st.Message())
	default:
		return fmt.Errorf("engine rpc: %w", err)
	}
}
