package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"jobsight/internal/logging"
	"jobsight/pkg/utils"
)

// LoggingInterceptor returns a gRPC unary interceptor that logs each call
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		startTime := time.Now()
		resp, err := handler(ctx, req)
		logCall(info.FullMethod, "grpc_request", startTime, err)
		return resp, err
	}
}

// StreamLoggingInterceptor returns a gRPC streaming interceptor that logs each stream
func StreamLoggingInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		startTime := time.Now()
		err := handler(srv, ss)
		logCall(info.FullMethod, "grpc_stream", startTime, err)
		return err
	}
}

func logCall(method, kind string, startTime time.Time, err error) {
	fields := map[string]interface{}{
		"request_id":      utils.GenerateRequestID(),
		"method":          method,
		"processing_time": time.Since(startTime).String(),
		"status_code":     statusCode(err).String(),
		"type":            kind,
	}

	logger := logging.GetGlobalLogger()
	if err != nil {
		fields["error"] = err.Error()
		logger.Error("gRPC call failed", fields)
		return
	}
	logger.Debug("gRPC call completed", fields)
}

func statusCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	return codes.Internal
}
