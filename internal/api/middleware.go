package api

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"route-notify-service/internal/api/handlers"
	"route-notify-service/internal/platform/obs"
	"route-notify-service/internal/ports"
)

// statusWriter captures the final HTTP status code and number of bytes
// written. This helps distinguish "handler returned 200" from "client
// received a response".
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware assigns each request a correlation id and logs
// end-to-end duration and response size. The id flows to adapter timing
// logs via the context.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := uuid.NewString()[:8]
		r = r.WithContext(obs.WithRequestID(r.Context(), reqID))

		sw := &statusWriter{
			ResponseWriter: w,
			status:         0,
		}

		next.ServeHTTP(sw, r)

		duration := time.Since(start).Milliseconds()

		log.Printf(
			"req_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
			reqID, r.Method, r.URL.RequestURI(), sw.status, sw.bytes, duration,
		)
	})
}

// requireSession gates a handler behind the session cookie check.
func requireSession(store ports.SessionStore, timeout time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, reason := handlers.ResolveSession(r, store, timeout)
		if sess == nil {
			writeStatusJSON(w, http.StatusUnauthorized, map[string]string{"error": reason})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loginLimiter throttles login attempts per client IP with a token
// bucket: one attempt every 2 seconds, bursts of 5.
type loginLimiter struct {
	mu    sync.Mutex
	perIP map[string]*rate.Limiter
}

func newLoginLimiter() *loginLimiter {
	return &loginLimiter{perIP: make(map[string]*rate.Limiter)}
}

func (l *loginLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.perIP[ip]
	if !ok {
		lim = rate.NewLimiter(rate.Every(2*time.Second), 5)
		l.perIP[ip] = lim
	}
	return lim
}

func (l *loginLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.limiter(ip).Allow() {
			writeStatusJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many login attempts"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeStatusJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: %v", err)
	}
}
