package http

import (
	"context"
	"html/template"
	"net/http"
	"sync"
	"time"

	"despesas/internal/log"
	"despesas/internal/middleware/security"
	"despesas/internal/middleware/trace"
	"despesas/internal/services"
	appweb "despesas/web"
)

// Server serves the record list, the entry form, export and intake.
type Server struct {
	http.Server
	records   *services.RecordService
	logger    *log.Logger
	templates *template.Template
	tracer    *trace.Middleware
	now       func() time.Time

	shutdownOnce sync.Once
}

type ServerOption func(*Server)

// WithClock overrides time.Now for form defaults and export file names.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) { s.now = now }
}

func WithLogger(logger *log.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, records *services.RecordService, opts ...ServerOption) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 16,
		},
		records: records,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default(log.ComponentHTTP)
	}
	s.logger = s.logger.WithComponent(log.ComponentHTTP)

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /options", s.handleOptions)

	mux.HandleFunc("GET /records", s.handleListRecords)
	mux.HandleFunc("POST /records/refresh", s.handleRefresh)
	mux.HandleFunc("POST /records", s.handleCreateRecord)
	mux.HandleFunc("GET /records/new", s.handleNewForm)
	mux.HandleFunc("GET /records/{id}/form", s.handleEditForm)
	mux.HandleFunc("PUT /records/{id}", s.handleUpdateRecord)
	mux.HandleFunc("POST /records/{id}", s.handleUpdateRecord)
	mux.HandleFunc("DELETE /records/{id}", s.handleDeleteRecord)

	mux.HandleFunc("GET /export", s.handleExport)

	mux.HandleFunc("POST /intake/voice", s.handleIntakeVoice)
	mux.HandleFunc("POST /intake/photo", s.handleIntakePhoto)
	mux.HandleFunc("POST /intake/file", s.handleIntakeFile)

	s.tracer = trace.NewMiddleware(s.logger, trace.ClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Handler = s.tracer.Middleware(headers.Middleware(withNotifications(mux)))

	return s
}

// withNotifications attaches a notification collector to every request.
func withNotifications(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := withCollector(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// notificationsFrom drains the notifications raised so far in this request.
func notificationsFrom(ctx context.Context) []services.Notification {
	if c, ok := ctx.Value(collectorKey{}).(*collector); ok {
		return c.drain()
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "Shutting down HTTP server",
			log.FieldOperation, log.OpShutdown, "requests_served", s.tracer.TotalRequests())
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the first load from the store has finished.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.records.State() != services.StateReady {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
