package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// HealthProbe queries grpc.health.v1 on the server's ops endpoint.
type HealthProbe struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

func NewHealthProbe(addr string, opts ...grpc.DialOption) (*HealthProbe, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc client: %w", err)
	}
	return &HealthProbe{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Check returns the serving status of service ("" for the whole server).
func (p *HealthProbe) Check(ctx context.Context, service string) (string, error) {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		if status.Code(err) == codes.Unavailable || status.Code(err) == codes.DeadlineExceeded {
			return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return "", err
	}
	return resp.GetStatus().String(), nil
}

func (p *HealthProbe) Close() error {
	return p.conn.Close()
}
