package mux

import (
	"errors"
	"net"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/soheilhy/cmux"
	"google.golang.org/grpc"
)

// Server multiplexes HTTP/1 and gRPC on one listener
type Server struct {
	listener net.Listener
	mux      cmux.CMux
}

// Init listens on addr
func Init(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return New(listener), nil
}

func New(listener net.Listener) *Server {
	return &Server{
		listener: listener,
		mux:      cmux.New(listener),
	}
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Run serves httpHandler and grpcServer until the listener is closed
func (s *Server) Run(httpHandler http.Handler, grpcServer *grpc.Server) error {
	httpListener := s.mux.Match(cmux.HTTP1Fast())
	grpcListener := s.mux.Match(cmux.HTTP2(), cmux.HTTP2HeaderField("content-type", "application/grpc"), cmux.Any())

	go func() {
		if err := http.Serve(httpListener, httpHandler); err != nil && !closed(err) {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()
	go func() {
		if err := grpcServer.Serve(grpcListener); err != nil && !closed(err) {
			log.Error().Err(err).Msg("gRPC server stopped")
		}
	}()

	if err := s.mux.Serve(); err != nil && !closed(err) {
		return err
	}
	return nil
}

// Close stops accepting connections
func (s *Server) Close() error {
	return s.listener.Close()
}

func closed(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, cmux.ErrListenerClosed) || errors.Is(err, http.ErrServerClosed)
}
