package api

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GrpcToHttpStatus maps the gRPC code of a backend failure onto the status a caller of
// the HTTP surface sees. Anything that is not a deadline is reported as a bad gateway.
func GrpcToHttpStatus(err error) int {
	st, ok := status.FromError(err)
	if !ok {
		return http.StatusBadGateway
	}
	switch st.Code() {
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
