package grpc

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"StorefrontService/pkg/server"
)

// ServiceName - имя сервиса в grpc.health.v1
const ServiceName = "storefront"

// healthService отвечает на Check по текущему состоянию хранилищ.
// Watch и List обслуживает стандартный health.Server.
type healthService struct {
	*health.Server
	checker server.HealthCheckerInterface
}

// Check проверяет PostgreSQL при каждом запросе
func (h *healthService) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if name := req.GetService(); name != "" && name != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", name)
	}

	servingStatus := healthpb.HealthCheckResponse_SERVING
	if !h.checker.IsDatabaseHealthy(ctx) {
		servingStatus = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.SetServingStatus(req.GetService(), servingStatus)

	return &healthpb.HealthCheckResponse{Status: servingStatus}, nil
}

// Server представляет собой gRPC сервер проверки здоровья
type Server struct {
	grpcServer *grpc.Server
	health     *healthService
	logger     *zap.Logger
	port       int
}

// NewServer создает новый экземпляр gRPC сервера
func NewServer(checker server.HealthCheckerInterface, logger *zap.Logger, port int) *Server {
	s := &Server{
		logger: logger,
		port:   port,
		health: &healthService{Server: health.NewServer(), checker: checker},
	}

	s.grpcServer = grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			server.TracingUnaryInterceptor(logger),
			server.MetricsUnaryInterceptor(),
			s.recoveryInterceptor(),
		),
	)
	healthpb.RegisterHealthServer(s.grpcServer, s.health)

	// Включаем reflection для удобства отладки через grpcurl
	reflection.Register(s.grpcServer)

	return s
}

// Run запускает gRPC сервер на настроенном порту
func (s *Server) Run() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		s.logger.Error("Failed to listen", zap.Error(err), zap.Int("port", s.port))
		return err
	}
	return s.Serve(lis)
}

// Serve обслуживает соединения на переданном listener
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

// Stop останавливает gRPC сервер, дожидаясь завершения текущих вызовов
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping gRPC server")
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		s.grpcServer.Stop()
		return ctx.Err()
	}
}

// recoveryInterceptor превращает панику обработчика в codes.Internal
func (s *Server) recoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Recovered from panic",
					zap.Any("panic", r),
					zap.String("method", info.FullMethod))
				err = status.Error(codes.Internal, "internal error")
			}
		}()

		return handler(ctx, req)
	}
}
