package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/common"
	"google.golang.org/grpc"
)

// UnaryRequestID tags every unary call with a request ID and logs the
// call outcome. Handlers pick the ID up via common.RequestIDFromContext.
func UnaryRequestID(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := uuid.NewString()
		ctx = common.WithRequestID(ctx, requestID)

		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Warn("rpc failed",
				"method", info.FullMethod,
				"request_id", requestID,
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err,
			)
			return resp, err
		}
		logger.Debug("rpc ok",
			"method", info.FullMethod,
			"request_id", requestID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}
