// Package grpcserver exposes the standard gRPC health service so orchestrators
// can check the API without going through HTTP.
package grpcserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/metrics"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const ServiceName = "university.v1.UniversityAPI"

// Pinger is satisfied by *bun.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	grpc   *grpc.Server
	health *health.Server
	db      Pinger
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(db Pinger, logger *slog.Logger, m *metrics.Metrics) *Server {
	s := &Server{
		grpc:    grpc.NewServer(grpc.UnaryInterceptor(m.Grpc.UnaryServerInterceptor())),
		health:  health.NewServer(),
		db:      db,
		logger:  logger,
		metrics: m,
	}
	grpc_health_v1.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return s
}

// Serve blocks until the listener fails or Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server starting", "addr", lis.Addr().String())
	return s.grpc.Serve(lis)
}

func (s *Server) ListenAndServe(port string) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}
	return s.Serve(lis)
}

// Watch flips the serving status with database reachability until ctx is done.
func (s *Server) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Check pings the database once and updates the serving status.
func (s *Server) Check(ctx context.Context) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := s.db.PingContext(pingCtx)
	s.metrics.Dependencies.RecordCheck(ctx, "database", time.Since(start), err)
	if err != nil {
		s.logger.WarnContext(ctx, "database unreachable", "error", err)
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
