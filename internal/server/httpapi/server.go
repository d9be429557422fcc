// Package httpapi exposes the user and message services as a JSON HTTP API.
// It owns the route table, the request middleware chain, and the mapping
// from service errors to HTTP status codes.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/messagely/messagely/internal/logging"
	"github.com/messagely/messagely/internal/server/models"
	"github.com/messagely/messagely/internal/server/services"
)

// userSvc is the slice of the user service the handlers need.
type userSvc interface {
	Register(ctx context.Context, p services.RegisterParams) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Profile(ctx context.Context, caller, username string) (*models.User, error)
	ListProfiles(ctx context.Context, caller string) ([]models.Profile, error)
}

// messageSvc is the slice of the message service the handlers need.
type messageSvc interface {
	Send(ctx context.Context, caller, toUsername, body string) (*models.Message, error)
	Get(ctx context.Context, caller string, id int64) (*models.Message, error)
	MarkRead(ctx context.Context, caller string, id int64) (*models.Message, error)
	SentBy(ctx context.Context, caller, username string) ([]*models.Message, error)
	ReceivedBy(ctx context.Context, caller, username string) ([]*models.Message, error)
}

type HTTPServer struct {
	address   string
	logger    logging.Logger
	users     userSvc
	messages  messageSvc
	jwtSecret []byte
}

func NewHTTPServer(a string, l logging.Logger, us userSvc, ms messageSvc, secretKey string) (*HTTPServer, error) {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		messages:  ms,
		jwtSecret: []byte(secretKey),
	}, nil
}

// routes builds the route table. Method-qualified patterns take care of 405s.
func (s *HTTPServer) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	mux.Handle("GET /users", s.requireAuth(http.HandlerFunc(s.handleListUsers)))
	mux.Handle("GET /users/{username}", s.requireAuth(http.HandlerFunc(s.handleGetUser)))
	mux.Handle("GET /users/{username}/to", s.requireAuth(http.HandlerFunc(s.handleMessagesTo)))
	mux.Handle("GET /users/{username}/from", s.requireAuth(http.HandlerFunc(s.handleMessagesFrom)))

	mux.Handle("POST /messages", s.requireAuth(http.HandlerFunc(s.handleSendMessage)))
	mux.Handle("GET /messages/{id}", s.requireAuth(http.HandlerFunc(s.handleGetMessage)))
	mux.Handle("POST /messages/{id}/read", s.requireAuth(http.HandlerFunc(s.handleMarkRead)))

	return s.withRequestID(s.withRequestLog(mux))
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
