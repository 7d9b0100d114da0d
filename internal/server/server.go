// ABOUTME: Server lifecycle: construction, dual-listener startup, graceful shutdown
// ABOUTME: Owns the store, auth service, HTTP server, and gRPC server

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"

	"github.com/2389/blog-server/internal/auth"
	"github.com/2389/blog-server/internal/config"
	"github.com/2389/blog-server/internal/store"
	"github.com/2389/blog-server/rpc/blogrpc"
)

// Server hosts the blog service over HTTP and gRPC.
type Server struct {
	config     *config.Config
	store      store.Store
	authCache  *auth.CachingAuthenticator
	grpcServer *grpc.Server
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Server from the given configuration. The store is opened
// and the schema created; both transport servers are built but not yet
// listening.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	codec, err := auth.NewTokenCodec([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenLifetime)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("creating token codec: %w", err)
	}

	authService := auth.NewService(codec, s, auth.NewBcryptHasher(0), logger)
	blog := NewBlog(s, logger)

	// Cached resolutions must expire well before the tokens they resolve.
	authCache := auth.NewCachingAuthenticator(authService, time.Minute, 10_000)

	srv := &Server{
		config:    cfg,
		store:     s,
		authCache: authCache,
		logger:    logger.With("component", "server"),
	}

	// gRPC server with authentication on everything but register/login
	public := blogrpc.PublicMethods()
	srv.grpcServer = grpc.NewServer(
		grpc.UnaryInterceptor(auth.UnaryInterceptor(authCache, public, logger)),
		grpc.StreamInterceptor(auth.StreamInterceptor(authCache, public, logger)),
	)
	blogrpc.RegisterBlogServiceServer(srv.grpcServer, NewBlogService(authService, blog, logger))

	// HTTP server with middleware on the protected route group
	mux := http.NewServeMux()
	api := &httpAPI{
		authService:     authService,
		authn:           authCache,
		blog:            blog,
		tokenOnRegister: cfg.Auth.TokenOnRegister,
		logger:          logger,
	}
	api.registerRoutes(mux)

	srv.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv, nil
}

// setupListeners creates TCP listeners for both transports.
func (s *Server) setupListeners() (grpcLn, httpLn net.Listener, err error) {
	s.logger.Info("starting server",
		"http_addr", s.config.Server.HTTPAddr,
		"grpc_addr", s.config.Server.GRPCAddr,
	)

	grpcLn, err = net.Listen("tcp", s.config.Server.GRPCAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("listening on gRPC address: %w", err)
	}

	httpLn, err = net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		_ = grpcLn.Close()
		return nil, nil, fmt.Errorf("listening on HTTP address: %w", err)
	}

	return grpcLn, httpLn, nil
}

// startServers starts both servers in goroutines, returning an error channel.
func (s *Server) startServers(grpcLn, httpLn net.Listener) chan error {
	errCh := make(chan error, 2)

	go func() {
		s.logger.Info("gRPC server listening", "addr", grpcLn.Addr().String())
		if err := s.grpcServer.Serve(grpcLn); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()

	go func() {
		s.logger.Info("HTTP server listening", "addr", httpLn.Addr().String())
		if err := s.httpServer.Serve(httpLn); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// waitForShutdownSignal waits for context cancellation or a server error.
func (s *Server) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	}
}

// Run starts both servers and blocks until the context is canceled or a
// server fails. Returns nil on graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	grpcLn, httpLn, err := s.setupListeners()
	if err != nil {
		return err
	}

	errCh := s.startServers(grpcLn, httpLn)
	serverErr := s.waitForShutdownSignal(ctx, errCh)

	shutdownErr := s.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the run context is already
// canceled.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// shutdownGRPCServer drains the gRPC server, forcing a stop if the context
// expires first.
func (s *Server) shutdownGRPCServer(ctx context.Context) {
	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}
}

// Shutdown stops both servers and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}

	s.shutdownGRPCServer(ctx)
	s.authCache.Close()

	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}
