package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jimzord12/hybrid-kem-go/internal/logger"
)

type httpServer struct {
	server *http.Server
}

func newHTTPServer(handler http.Handler, addr string, requestTimeout time.Duration) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  requestTimeout,
			WriteTimeout: requestTimeout,
		},
	}
}

func (h *httpServer) RunServer() {
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Printf("HTTP server ListenAndServe: %v\n", err)
	}
}

func (h *httpServer) Shutdown() {
	if h.server == nil {
		return
	}
	if err := h.server.Shutdown(context.Background()); err != nil {
		fmt.Printf("HTTP server Shutdown: %v\n", err)
	}
}

type server struct {
	httpServer *httpServer
}

// NewServer wraps handler in a graceful-shutdown HTTP server listening on
// addr, using requestTimeout for both read and write deadlines.
func NewServer(handler http.Handler, addr string, requestTimeout time.Duration, log *logger.Logger) (Server, error) {
	log.Info().Str("address", addr).Msg("creating new server...")

	return &server{
		httpServer: newHTTPServer(handler, addr, requestTimeout),
	}, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		fmt.Printf("Error running server: %v \n", err)
	}
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()
}

func (s *server) run() error {
	if s.httpServer == nil {
		return errNoServersAreCreated
	}

	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	go func() {
		<-ctx.Done()
		s.httpServer.Shutdown()
		close(idleConnectionsClosed)
	}()

	fmt.Println("Launching HTTP server")
	go s.httpServer.RunServer()

	<-idleConnectionsClosed
	fmt.Println("server Shutdown gracefully")

	return nil
}
