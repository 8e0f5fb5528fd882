package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/pkg/bus"
)

const shutdownTimeout = 10 * time.Second

// Upstream is the backend that stores submitted applications.
type Upstream interface {
	Create(ctx context.Context, typ string, body any) (string, error)
	Workflow(ctx context.Context, name string, body any, out any) error
}

// Publisher receives accepted applications. *bus.Router satisfies it.
type Publisher interface {
	Post(id bus.EventId, data any) error
}

type Option func(*Server)

// WithPublisher posts every accepted application as bus.ApplicationEvent.
func WithPublisher(p Publisher) Option {
	return func(s *Server) { s.publisher = p }
}

// WithWorkflow forwards applications to a backend workflow instead of creating an object.
func WithWorkflow(name string) Option {
	return func(s *Server) { s.workflow = name }
}

func WithObjectType(typ string) Option {
	return func(s *Server) { s.objectType = typ }
}

func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) { s.httpServer.ReadTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) { s.httpServer.WriteTimeout = d }
}

type Server struct {
	logger     *zap.Logger
	upstream   Upstream
	publisher  Publisher
	validate   *validator.Validate
	workflow   string
	objectType string

	httpServer *http.Server
}

func NewServer(logger *zap.Logger, addr string, upstream Upstream, opts ...Option) *Server {
	s := &Server{
		logger:     logger,
		upstream:   upstream,
		validate:   newValidator(),
		objectType: "application",
		httpServer: &http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpServer.Handler = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api", func(api chi.Router) {
		api.Post("/applications", s.submitApplication)
		api.Post("/contracts/details", s.contractDetails)
		api.Get("/menu", s.getMenu)
		api.Get("/theme", s.getTheme)
		api.Post("/theme/toggle", s.toggleTheme)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("unable to serve api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("unable to shut down api server: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
