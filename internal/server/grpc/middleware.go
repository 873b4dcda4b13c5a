package grpc

import (
	"context"
	"time"

	"github.com/Meesho/BharatMLStack/maskfill/pkg/metric"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const (
	grpcServerRequestCount   = "grpc_server_request_count"
	grpcServerRequestLatency = "grpc_server_request_latency"
)

func ServerInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	startTime := time.Now()
	resp, err = handler(ctx, req)
	tags := metric.BuildTag(
		metric.NewTag(metric.TagCommunicationProtocol, metric.TagValueCommunicationProtocolGrpc),
		metric.NewTag(metric.TagMethod, info.FullMethod),
		metric.NewTag(metric.TagGrpcStatusCode, status.Code(err).String()),
	)
	metric.Incr(grpcServerRequestCount, tags)
	metric.Timing(grpcServerRequestLatency, time.Since(startTime), tags)
	return resp, err
}
