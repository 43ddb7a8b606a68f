package api

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/lucasjlepore/f1-sustainability/internal/logging"
	"github.com/lucasjlepore/f1-sustainability/internal/metrics"
	"github.com/lucasjlepore/f1-sustainability/lapdata"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

var raceNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _.\-]{0,127}$`)

// raceExtensions are tried in order when resolving a race name to a file.
var raceExtensions = []string{".csv", ".xlsx"}

// Options configures a Server.
type Options struct {
	DataDir string
	Strict  bool
	Logger  *slog.Logger
	Metrics *metrics.Metrics // optional

	// RateLimitRPS > 0 enables a shared token bucket of RateLimitBurst.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server serves race analysis over HTTP. Races are read from DataDir on
// first request and cached by file identity.
type Server struct {
	mu      sync.RWMutex
	dataDir string

	cache    *lapdata.Cache
	logger   *slog.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
	limiter  *rate.Limiter
	router   chi.Router
	started  time.Time
}

// New builds the server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var observer lapdata.Observer
	if opts.Metrics != nil {
		observer = opts.Metrics
	}

	s := &Server{
		dataDir:  opts.DataDir,
		cache:    lapdata.NewCache(lapdata.ParseOptions{Strict: opts.Strict}, logger, observer),
		logger:   logger.With(slog.String("component", "api")),
		metrics:  opts.Metrics,
		validate: validator.New(),
		started:  time.Now(),
	}
	if opts.RateLimitRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		if s.limiter != nil {
			r.Use(s.rateLimit)
		}
		r.Get("/health", s.health)
		r.Route("/races/{race}", func(r chi.Router) {
			r.Get("/drivers", s.drivers)
			r.Get("/laps", s.laps)
			r.Get("/compare", s.compare)
		})
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, NewError(http.StatusNotFound, CodeNotFound, "resource not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, NewError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed"))
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetDataDir switches the directory races are resolved from. Cached races
// stay valid; they are keyed by absolute path.
func (s *Server) SetDataDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir != s.dataDir {
		s.logger.Info("data directory changed", slog.String("from", s.dataDir), slog.String("to", dir))
	}
	s.dataDir = dir
}

// DataDir returns the current race directory.
func (s *Server) DataDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataDir
}

// resolveRace maps a race name to a lap file in the data directory. The name
// is matched as given and with spaces replaced by underscores.
func (s *Server) resolveRace(name string) (string, *APIError) {
	if !raceNamePattern.MatchString(name) || strings.Contains(name, "..") {
		return "", errInvalidRaceName(name)
	}
	dir := s.DataDir()

	bases := []string{name}
	if alt := strings.ReplaceAll(name, " ", "_"); alt != name {
		bases = append(bases, alt)
	}
	for _, base := range bases {
		if ext := strings.ToLower(filepath.Ext(base)); ext == ".csv" || ext == ".xlsx" {
			if fileExists(filepath.Join(dir, base)) {
				return filepath.Join(dir, base), nil
			}
			continue
		}
		for _, ext := range raceExtensions {
			path := filepath.Join(dir, base+ext)
			if fileExists(path) {
				return path, nil
			}
		}
	}
	return "", errorFromDomain(fmt.Errorf("race %q: %w", name, fs.ErrNotExist))
}

func (s *Server) loadRace(r *http.Request) (*lapdata.Race, *APIError) {
	name := chi.URLParam(r, "race")
	path, apiErr := s.resolveRace(name)
	if apiErr != nil {
		return nil, apiErr
	}
	race, err := s.cache.Get(path)
	if err != nil {
		s.logger.WarnContext(r.Context(), "race load failed",
			slog.String("race", name), slog.String("err", err.Error()))
		return nil, errorFromDomain(err)
	}
	return race, nil
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, e *APIError) {
	e.RequestID = logging.RequestID(r.Context())
	if err := render.Render(w, r, e); err != nil {
		s.logger.ErrorContext(r.Context(), "render error response", slog.String("err", err.Error()))
	}
}

// requestID propagates X-Request-ID, generating one when absent.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// observe logs every request and records it in metrics by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.ObserveRequest(route, status, elapsed)
		}
		s.logger.InfoContext(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("elapsed", elapsed),
		)
	})
}

// rateLimit rejects API requests once the shared bucket is empty.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.logger.WarnContext(r.Context(), "rate limit exceeded",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
			)
			w.Header().Set("Retry-After", "1")
			s.renderError(w, r, NewError(http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
