package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"ledger/internal/services"
)

// Options tunes the server middleware. Zero values fall back to sane
// defaults so tests can pass Options{}.
type Options struct {
	Logger         *slog.Logger
	RateLimitRPS   float64
	RateLimitBurst int
	CacheTTL       time.Duration
}

type Server struct {
	http.Server

	svc    *services.LedgerService
	logger *slog.Logger

	rateLimiter *rateLimiter

	// reportCache holds built reports keyed by filter fingerprint. Any
	// mutation flushes the whole cache; reports are cheap to rebuild and
	// a stale breakdown after a write is worse than a cold one.
	reportCache *gocache.Cache

	shutdownOnce sync.Once
}

// rateLimiter tracks one token bucket per client IP.
type rateLimiter struct {
	mu          sync.Mutex
	rps         rate.Limit
	burst       int
	clients     map[string]*clientLimiter
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	rl := &rateLimiter{
		rps:         rate.Limit(rps),
		burst:       burst,
		clients:     make(map[string]*clientLimiter),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries.
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries idle for more than 10 minutes.
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[clientIP]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[clientIP] = client
	}
	client.lastSeen = time.Now()
	return client.limiter.Allow()
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc *services.LedgerService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rps := opts.RateLimitRPS
	if rps <= 0 {
		rps = 10
	}
	burst := opts.RateLimitBurst
	if burst <= 0 {
		burst = 30
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		svc:         svc,
		logger:      logger,
		rateLimiter: newRateLimiter(rps, burst),
		reportCache: gocache.New(ttl, 2*ttl),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /transactions", s.wrap(s.handleListTransactions))
	mux.HandleFunc("POST /transactions", s.wrap(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /transactions", s.wrap(s.handleDeleteAllTransactions))
	mux.HandleFunc("GET /transactions/{id}", s.wrap(s.handleGetTransaction))
	mux.HandleFunc("PUT /transactions/{id}", s.wrap(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", s.wrap(s.handleDeleteTransaction))

	mux.HandleFunc("GET /categories", s.wrap(s.handleListCategories))
	mux.HandleFunc("POST /categories", s.wrap(s.handleCreateCategory))
	mux.HandleFunc("DELETE /categories/{id}", s.wrap(s.handleDeleteCategory))

	mux.HandleFunc("GET /cards", s.wrap(s.handleListCards))
	mux.HandleFunc("POST /cards", s.wrap(s.handleCreateCard))
	mux.HandleFunc("PUT /cards/{id}", s.wrap(s.handleRenameCard))
	mux.HandleFunc("DELETE /cards/{id}", s.wrap(s.handleDeleteCard))

	mux.HandleFunc("GET /report", s.wrap(s.handleReport))

	mux.HandleFunc("GET /settings/{key}", s.wrap(s.handleGetSetting))
	mux.HandleFunc("PUT /settings/{key}", s.wrap(s.handlePutSetting))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// flushReports drops every cached report. Called after any mutation.
func (s *Server) flushReports() {
	s.reportCache.Flush()
}

// wrap adds security headers, rate limiting, and request logging.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Throttle writes only; read endpoints stay cheap via the cache.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.logger.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
