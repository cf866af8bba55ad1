package server

import (
	"context"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"jobsight/internal/config"
	"jobsight/internal/grpc/interceptors"
	"jobsight/internal/logging"
)

// ServiceName is the health service key reported for the whole process
const ServiceName = "jobsight"

// ReadyFunc reports whether the service's required dependencies answer
type ReadyFunc func(ctx context.Context) bool

// Server exposes grpc.health.v1 next to the HTTP API
type Server struct {
	cfg    *config.Config
	ready  ReadyFunc
	health *health.Server
	logger logging.Logger

	mu   sync.Mutex
	grpc *grpc.Server
}

// NewServer creates a server; ready is polled to keep the health status current
func NewServer(cfg *config.Config, ready ReadyFunc) *Server {
	return &Server{
		cfg:    cfg,
		ready:  ready,
		health: health.NewServer(),
		logger: logging.GetGlobalLogger().WithField("component", "grpc"),
	}
}

// Health returns the health service for status updates
func (s *Server) Health() *health.Server {
	return s.health
}

// Start serves on lis until Stop is called
func (s *Server) Start(lis net.Listener) error {
	grpcServer := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 5 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.ChainUnaryInterceptor(
			interceptors.RecoveryInterceptor(),
			interceptors.LoggingInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamRecoveryInterceptor(),
			interceptors.StreamLoggingInterceptor(),
		),
	)

	healthpb.RegisterHealthServer(grpcServer, s.health)
	reflection.Register(grpcServer)

	s.mu.Lock()
	s.grpc = grpcServer
	s.mu.Unlock()

	s.Refresh(context.Background())
	s.logger.Info("Starting gRPC server", map[string]interface{}{"address": lis.Addr().String()})

	return grpcServer.Serve(lis)
}

// Refresh re-evaluates readiness and publishes it for the service and the
// server as a whole
func (s *Server) Refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.ready != nil && !s.ready(ctx) {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Stop marks the server not serving and stops it gracefully
func (s *Server) Stop() {
	s.logger.Info("Shutting down gRPC server...")
	s.health.Shutdown()

	s.mu.Lock()
	g := s.grpc
	s.mu.Unlock()
	if g != nil {
		g.GracefulStop()
	}
}
