// Package grpc serves the standard gRPC health protocol for the generation
// services.
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServicePrefix qualifies the per-service health names, e.g. "arcitek.image".
const ServicePrefix = "arcitek."

// Server exposes grpc.health.v1.Health and server reflection.
type Server struct {
	addr   string
	srv    *grpc.Server
	health *health.Server
}

// New creates a gRPC server that will listen on addr.
func New(addr string) *Server {
	srv := grpc.NewServer()
	hs := health.NewServer()

	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &Server{
		addr:   addr,
		srv:    srv,
		health: hs,
	}
}

// ServiceName returns the health check name of a generation service.
func ServiceName(name string) string {
	return ServicePrefix + name
}

// Update publishes per-service availability. The overall ("") status is
// SERVING while the process runs.
func (s *Server) Update(availability map[string]bool) {
	for name, ok := range availability {
		status := healthpb.HealthCheckResponse_SERVING
		if !ok {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		s.health.SetServingStatus(ServiceName(name), status)
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// Stop marks every service NOT_SERVING and stops gracefully.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("grpc server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("gRPC server listening", "addr", lis.Addr().String())
		if err := s.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down gRPC server")
	s.Stop()

	return nil
}
