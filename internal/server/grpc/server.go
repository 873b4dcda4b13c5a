package grpc

import (
	"context"
	"sync"
	"time"

	"github.com/Meesho/BharatMLStack/maskfill/pkg/middleware"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name reported to grpc.health.v1 for the fill-mask backend readiness
const ServiceName = "maskfill"

type ReadinessChecker interface {
	Ready(ctx context.Context) (bool, error)
}

type Server struct {
	GRPCServer *grpc.Server
	Health     *health.Server
}

var (
	server *Server
	once   sync.Once
)

// Init builds the process wide gRPC server
func Init() {
	once.Do(func() {
		server = NewServer()
	})
}

// NewServer creates a gRPC server exposing health and reflection
func NewServer() *Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(ServerInterceptor, middleware.GRPCRecovery),
	)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	return &Server{GRPCServer: grpcServer, Health: healthServer}
}

// WatchReadiness polls checker every interval and mirrors the answer into the health service until ctx is done
func (s *Server) WatchReadiness(ctx context.Context, checker ReadinessChecker, interval time.Duration) {
	s.updateReadiness(ctx, checker)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.updateReadiness(ctx, checker)
		}
	}
}

func (s *Server) updateReadiness(ctx context.Context, checker ReadinessChecker) {
	servingStatus := grpc_health_v1.HealthCheckResponse_SERVING
	ready, err := checker.Ready(ctx)
	if err != nil || !ready {
		servingStatus = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		log.Warn().Err(err).Bool("ready", ready).Msg("Inference backend not ready")
	}
	s.Health.SetServingStatus(ServiceName, servingStatus)
}

// Instance returns the grpc instance
func Instance() *Server {
	if server == nil {
		log.Panic().Msg("Server not initialized, call Init first")
	}
	return server
}
