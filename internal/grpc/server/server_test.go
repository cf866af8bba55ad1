package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"jobsight/internal/config"
)

func TestRefresh(t *testing.T) {
	ready := true
	s := NewServer(config.Default(), func(context.Context) bool { return ready })

	check := func() healthpb.HealthCheckResponse_ServingStatus {
		resp, err := s.Health().Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		require.NoError(t, err)
		return resp.Status
	}

	s.Refresh(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check())

	ready = false
	s.Refresh(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check())
}
