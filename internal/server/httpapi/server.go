// Package httpapi exposes the contact, verification and task services as
// JSON over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todopoc/internal/logging"
	"github.com/dmitrijs2005/todopoc/internal/server/models"
)

type ContactService interface {
	List(ctx context.Context) ([]*models.Contact, error)
	Create(ctx context.Context, name, email string) (*models.Contact, error)
	Update(ctx context.Context, id, name, email string) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
}

type VerificationService interface {
	InitiateVerification(ctx context.Context, name, email string) (*models.PendingContact, error)
	ConfirmVerification(ctx context.Context, email, code string) (*models.Contact, error)
	PendingVerification(ctx context.Context, email string) (*models.PendingContact, error)
}

type TaskService interface {
	List(ctx context.Context) ([]*models.TaskView, error)
	Create(ctx context.Context, text string, dueDate *models.Date, contactEmail string) (*models.TaskView, error)
	Update(ctx context.Context, id string, p models.TaskPatch) (*models.TaskView, error)
	Delete(ctx context.Context, id string) error
}

// Pinger reports store health. *sql.DB implements it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HTTPServer struct {
	address         string
	shutdownTimeout time.Duration
	logger          logging.Logger
	contacts        ContactService
	verification    VerificationService
	tasks           TaskService
	store           Pinger
	validator       *validator
}

func NewHTTPServer(a string, shutdownTimeout time.Duration, l logging.Logger, cs ContactService, vs VerificationService, ts TaskService, p Pinger) (*HTTPServer, error) {
	v, err := newValidator()
	if err != nil {
		return nil, err
	}
	return &HTTPServer{
		address:         a,
		shutdownTimeout: shutdownTimeout,
		logger:          l.With("module", "http_server"),
		contacts:        cs,
		verification:    vs,
		tasks:           ts,
		store:           p,
		validator:       v,
	}, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /contacts", s.listContacts)
	mux.HandleFunc("POST /contacts", s.createContact)
	mux.HandleFunc("PUT /contacts/{id}", s.updateContact)
	mux.HandleFunc("DELETE /contacts/{id}", s.deleteContact)

	mux.HandleFunc("POST /contacts/verify", s.initiateVerification)
	mux.HandleFunc("GET /contacts/verify", s.pendingVerification)
	mux.HandleFunc("POST /contacts/confirm", s.confirmVerification)

	mux.HandleFunc("GET /tasks", s.listTasks)
	mux.HandleFunc("POST /tasks", s.createTask)
	mux.HandleFunc("PUT /tasks/{id}", s.updateTask)
	mux.HandleFunc("DELETE /tasks/{id}", s.deleteTask)

	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("/", notFound)

	return s.withRequestLog(withCORS(s.withRecover(mux)))
}

// Run serves until ctx is cancelled, then shuts down gracefully, giving
// in-flight requests up to shutdownTimeout to finish.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			<-stopped
			return nil
		}
		return err
	}
	return nil
}

func (s *HTTPServer) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.PingContext(r.Context()); err != nil {
		s.logger.Warn(r.Context(), "health check failed", "error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
