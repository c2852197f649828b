// Package interceptors holds gRPC unary interceptors shared by the
// server binary.
package interceptors

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
)

// Logger logs every unary RPC's method name before invoking the handler.
func Logger(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	slog.Info("rpc", "method", info.FullMethod)
	return handler(ctx, req)
}
