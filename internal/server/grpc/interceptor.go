package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/kracker/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// requestIDMetadataKey mirrors the X-Request-Id HTTP header. gRPC metadata
// keys are lower case.
const requestIDMetadataKey = "x-request-id"

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(requestIDMetadataKey); len(ids) > 0 && ids[0] != "" {
			ctx = logging.WithRequestID(ctx, ids[0])
		}
	}

	start := time.Now()

	resp, err := handler(ctx, req)

	s.logger.Debug(ctx, "grpc call",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)

	return resp, err
}
