package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/kushwaha-yash/loan-risk/pkg/observability"
)

func startBufServer(t *testing.T) *grpclib.ClientConn {
	t.Helper()

	srv, err := NewServer(buildTestHandler(t), ServerConfig{ServiceName: "loan-risk-service"}, observability.NopLogger())
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
		grpclib.WithDefaultCallOptions(grpclib.CallContentSubtype("json")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestServer_JSONRoundTrip(t *testing.T) {
	conn := startBufServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req := map[string]any{
		"applicant_id": "00000000-0000-0000-0000-000000000001",
		"answers": map[string]any{
			"income_stability": 2,
			"delinquency":      "0",
			"debt_burden":      3,
			"credit_behavior":  1,
		},
	}
	var resp AssessApplicantResponse
	err := conn.Invoke(ctx, "/loanrisk.v1.RiskService/AssessApplicant", req, &resp)

	require.NoError(t, err)
	require.NotNil(t, resp.Assessment)
	assert.Equal(t, "HIGH", resp.Assessment.Risk)
	assert.Equal(t, "Do Not Approve", resp.Assessment.Recommendation)
	assert.Equal(t, 45.0, resp.Assessment.Probability)
}

func TestServer_InvalidInputStatus(t *testing.T) {
	conn := startBufServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req := map[string]any{
		"applicant_id": "00000000-0000-0000-0000-000000000001",
		"answers":      map[string]any{"income_stability": 2},
	}
	var resp AssessApplicantResponse
	err := conn.Invoke(ctx, "/loanrisk.v1.RiskService/AssessApplicant", req, &resp)

	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "delinquency")
}

func TestServer_Health(t *testing.T) {
	conn := startBufServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: "loan-risk-service"},
		grpclib.CallContentSubtype("proto"))
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestNewServer_BadTLSPair(t *testing.T) {
	_, err := NewServer(buildTestHandler(t), ServerConfig{
		TLSCertFile: "testdata/missing.crt",
		TLSKeyFile:  "testdata/missing.key",
	}, observability.NopLogger())
	assert.Error(t, err)
}
