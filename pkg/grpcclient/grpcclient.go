package grpcclient

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/Meesho/BharatMLStack/maskfill/pkg/metric"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/resolver"
	"google.golang.org/grpc/status"
)

const (
	ResolverDefaultScheme = "dns"
	defaultServiceConfig  = `{"loadBalancingPolicy":"round_robin"}`
)

type Config struct {
	Host      string
	Port      string
	PlainText bool
}

// GRPCClient wraps a client connection and records latency and count for every unary call
type GRPCClient struct {
	Conn                *grpc.ClientConn
	externalServiceName string
}

// NewConnFromConfig dials host:port and panics when the target cannot be parsed
func NewConnFromConfig(config *Config, externalServiceName string, opts ...grpc.DialOption) *GRPCClient {
	conn, err := getGRPCConnection(config, opts...)
	if err != nil {
		log.Panic().Msgf("error while GRPC connection initialization. %s", err)
	}
	return Wrap(conn, externalServiceName)
}

// Wrap instruments an existing connection
func Wrap(conn *grpc.ClientConn, externalServiceName string) *GRPCClient {
	return &GRPCClient{Conn: conn, externalServiceName: externalServiceName}
}

func getGRPCConnection(config *Config, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	resolver.SetDefaultScheme(ResolverDefaultScheme)
	creds := insecure.NewCredentials()
	if !config.PlainText {
		creds = credentials.NewTLS(&tls.Config{InsecureSkipVerify: true})
	}
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultServiceConfig(defaultServiceConfig),
	}, opts...)
	return grpc.NewClient(config.Host+":"+config.Port, dialOpts...)
}

// Invoke is a wrapper around grpc.ClientConn.Invoke with metrics support
func (c *GRPCClient) Invoke(ctx context.Context, method string, args any, reply any, opts ...grpc.CallOption) error {
	startTime := time.Now()
	err := c.Conn.Invoke(ctx, method, args, reply, opts...)
	tags := metric.BuildExternalGRPCServiceTags(c.externalServiceName, method, int(status.Code(err)))
	metric.Timing(metric.ExternalApiRequestLatency, time.Since(startTime), tags)
	metric.Incr(metric.ExternalApiRequestCount, tags)
	return err
}

// NewStream is not implemented for this client
func (c *GRPCClient) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("NewStream is not implemented")
}

func (c *GRPCClient) Close() error {
	return c.Conn.Close()
}
