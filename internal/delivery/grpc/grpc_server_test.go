package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type stubChecker struct {
	healthy bool
}

func (s *stubChecker) IsDatabaseHealthy(ctx context.Context) bool { return s.healthy }
func (s *stubChecker) IsRedisHealthy(ctx context.Context) bool    { return true }
func (s *stubChecker) HasRedis() bool                             { return false }

// startServer поднимает сервер на bufconn и возвращает клиент health
func startServer(t *testing.T, checker *stubChecker) healthpb.HealthClient {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := NewServer(checker, zap.NewNop(), 0)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})

	return healthpb.NewHealthClient(conn)
}

func TestHealthCheckFollowsDatabase(t *testing.T) {
	checker := &stubChecker{healthy: true}
	client := startServer(t, checker)
	ctx := context.Background()

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("Expected SERVING, got %v", resp.GetStatus())
	}

	// Состояние проверяется при каждом запросе
	checker.healthy = false
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("Expected NOT_SERVING, got %v", resp.GetStatus())
	}
}

func TestHealthCheckUnknownService(t *testing.T) {
	client := startServer(t, &stubChecker{healthy: true})

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "billing"})
	if status.Code(err) != codes.NotFound {
		t.Errorf("Expected NotFound, got %v", err)
	}
}

func TestRecoveryInterceptor(t *testing.T) {
	srv := NewServer(&stubChecker{}, zap.NewNop(), 0)
	interceptor := srv.recoveryInterceptor()

	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/test"},
		func(ctx context.Context, req interface{}) (interface{}, error) {
			panic("boom")
		})

	if status.Code(err) != codes.Internal {
		t.Errorf("Expected Internal, got %v", err)
	}
}
