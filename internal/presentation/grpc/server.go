package grpc

import (
	"fmt"
	"log/slog"
	"net"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/LibertytechX/seeds-metrics/pkg/auth"
	"github.com/LibertytechX/seeds-metrics/pkg/tlsutil"
)

const healthServiceName = "seeds-metrics"

// methodRoles lists the roles allowed to call each guarded method. Reads only
// need a valid token.
var methodRoles = map[string][]string{
	MethodComputeSnapshot:    {auth.RoleAdmin, auth.RoleService, auth.RoleRiskAnalyst},
	MethodRecomputePortfolio: {auth.RoleAdmin, auth.RoleService},
}

// ServerConfig holds listener and transport settings.
type ServerConfig struct {
	Port         int
	TLSCertFile  string
	TLSKeyFile   string
	ClientCAFile string
	Reflection   bool
}

// Server wraps the gRPC server with loan metrics handlers.
type Server struct {
	grpcServer   *grpclib.Server
	healthServer *health.Server
	port         int
	logger       *slog.Logger
}

// NewServer creates a new gRPC server with the provided handler. TLS is
// enabled when a certificate and key are configured.
func NewServer(handler *LoanMetricsHandler, cfg ServerConfig, jwtService *auth.JWTService, logger *slog.Logger) (*Server, error) {
	authInterceptor := auth.UnaryAuthInterceptor(jwtService, []string{
		"/grpc.health.v1.Health/Check",
		"/grpc.health.v1.Health/Watch",
	})

	opts := []grpclib.ServerOption{
		grpclib.ChainUnaryInterceptor(authInterceptor, auth.RequireMethodRoles(methodRoles)),
	}

	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		creds, err := tlsutil.ServerCredentials(cfg.TLSCertFile, cfg.TLSKeyFile, cfg.ClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("grpc tls: %w", err)
		}
		opts = append(opts, grpclib.Creds(creds))
	} else {
		logger.Warn("gRPC server running without TLS")
	}

	grpcServer := grpclib.NewServer(opts...)
	healthServer := health.NewServer()

	healthpb.RegisterHealthServer(grpcServer, healthServer)
	RegisterLoanMetricsServiceServer(grpcServer, handler)

	if cfg.Reflection {
		reflection.Register(grpcServer)
	}

	return &Server{
		grpcServer:   grpcServer,
		healthServer: healthServer,
		port:         cfg.Port,
		logger:       logger,
	}, nil
}

// Start begins listening for gRPC connections.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}

	s.logger.Info("gRPC server starting", "port", s.port)
	s.healthServer.SetServingStatus(healthServiceName, healthpb.HealthCheckResponse_SERVING)

	if err := s.grpcServer.Serve(listener); err != nil {
		return fmt.Errorf("gRPC server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the gRPC server.
func (s *Server) Stop() {
	s.logger.Info("stopping gRPC server")
	s.healthServer.SetServingStatus(healthServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	s.grpcServer.GracefulStop()
}
