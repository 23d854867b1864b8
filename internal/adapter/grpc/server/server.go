// Package server runs the gRPC health endpoint of the service.
package server

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/seu-repo/vox-site/internal/adapter/grpc/interceptors"
)

// ReadinessFunc reports whether the service can take traffic.
type ReadinessFunc func(ctx context.Context) bool

type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	log    *zap.Logger
}

func NewGRPCServer(log *zap.Logger) *GRPCServer {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.UnaryLoggingInterceptor(log),
			interceptors.UnaryMetricsInterceptor(),
		),
	)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	// Enable reflection for debugging (e.g. grpcurl)
	reflection.Register(s)

	return &GRPCServer{
		server: s,
		health: hs,
		log:    log,
	}
}

// SetServing flips the overall serving status reported to health clients.
func (s *GRPCServer) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
}

// WatchReadiness polls ready every interval and mirrors it in the health
// status until ctx is done.
func (s *GRPCServer) WatchReadiness(ctx context.Context, ready ReadinessFunc, interval time.Duration) {
	last := ready(ctx)
	s.SetServing(last)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := ready(ctx)
			if now != last {
				s.log.Info("gRPC serving status changed", zap.Bool("serving", now))
				last = now
			}
			s.SetServing(now)
		}
	}
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

// Stop marks the server as not serving and drains in-flight calls.
func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
