package server

import (
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// StreamLoggingInterceptor logs the opening and the end of every server stream.
func StreamLoggingInterceptor(log *slog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		log.Debug("gRPC stream opened", "method", info.FullMethod)

		err := handler(srv, ss)

		st, _ := status.FromError(err)
		attrs := []any{
			"method", info.FullMethod,
			"code", st.Code().String(),
			"duration", time.Since(start),
		}
		if err != nil {
			log.Warn("gRPC stream ended with error", append(attrs, "error", err)...)
			return err
		}
		log.Info("gRPC stream ended", attrs...)
		return nil
	}
}
