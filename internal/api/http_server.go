package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"fadebook/internal/access"
	"fadebook/internal/config"
	"fadebook/internal/database"
	"fadebook/internal/domain"
	"fadebook/internal/export"
	"fadebook/internal/metrics"
	"fadebook/internal/models"
	"fadebook/internal/schedule"
	"fadebook/internal/service"
)

// HTTPServer exposes the booking API consumed by the booking page and the
// admin panel.
type HTTPServer struct {
	cfg          config.ServerConfig
	bookings     domain.BookingService
	availability domain.AvailabilityService
	accessSvc    domain.AccessService
	catalog      *models.Catalog
	exporter     *export.Exporter
	logger       zerolog.Logger
	server       *http.Server
	limiters     sync.Map // map[string]*rate.Limiter
}

func NewHTTPServer(
	cfg config.ServerConfig,
	bookings domain.BookingService,
	availability domain.AvailabilityService,
	accessSvc domain.AccessService,
	catalog *models.Catalog,
	exporter *export.Exporter,
	logger zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:          cfg,
		bookings:     bookings,
		availability: availability,
		accessSvc:    accessSvc,
		catalog:      catalog,
		exporter:     exporter,
		logger:       logger.With().Str("component", "http").Logger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/catalog", srv.handleCatalog)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBookingByID)
	mux.HandleFunc("/api/v1/availability", srv.handleWeeklyAvailability)
	mux.HandleFunc("/api/v1/date-availability", srv.handleDateAvailability)
	mux.HandleFunc("/api/v1/slots", srv.handleSlots)
	mux.HandleFunc("/api/v1/bookable-dates", srv.handleBookableDates)
	mux.HandleFunc("/api/v1/access/verify", srv.handleAccessVerify)
	mux.HandleFunc("/api/v1/export/bookings", srv.handleExportBookings)
	mux.HandleFunc("/healthz", srv.handleHealth)

	handler := srv.loggingMiddleware(srv.rateLimitMiddleware(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler returns the full middleware chain, used directly in tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path, strconv.Itoa(recorder.status))
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RateLimit.RPS > 0 {
			lim := s.getLimiter(clientIP(r))
			if !lim.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) getLimiter(key string) *rate.Limiter {
	if v, ok := s.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := s.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(s.cfg.RateLimit.RPS), burst)
	actual, loaded := s.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps domain errors onto HTTP statuses: validation
// failures to 400, slot and version conflicts to 409, missing records to
// 404, everything else to 500.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrUnknownService),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, schedule.ErrInvalidTimeFormat),
		errors.Is(err, schedule.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrConflict), errors.Is(err, database.ErrNoCapacity):
		metrics.IncBookingConflict()
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrConcurrentModification):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *HTTPServer) writeAccessError(w http.ResponseWriter, err error) {
	var invalid *access.InvalidCodeError
	if errors.As(err, &invalid) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":              "invalid code",
			"attempts_remaining": invalid.Remaining,
		})
		return
	}
	var locked *access.LockedError
	if errors.As(err, &locked) {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":        "locked",
			"locked_until": locked.Until.Format(time.RFC3339),
		})
		return
	}
	s.logger.Error().Err(err).Msg("access verify error")
	writeError(w, http.StatusInternalServerError, "internal error")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
