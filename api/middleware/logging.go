// ABOUTME: Request logging middleware for API endpoints
// ABOUTME: Assigns request ids, logs timing and status, and logs outgoing backend calls

package middleware

import (
	"net/http"
	"time"

	"paperread-app/core/interfaces"
	"paperread-app/pkg/requestid"

	"github.com/google/uuid"
)

// slowRequest is the duration above which a request is logged as a warning.
// Page translations fan out one translator call per paragraph.
const slowRequest = 5 * time.Second

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// RequestLoggingMiddleware logs every request. An incoming X-Request-ID is
// kept, otherwise a uuid is assigned; either way it is echoed in the response
// and stored in the request context for outgoing calls.
func RequestLoggingMiddleware(logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestid.Header)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set(requestid.Header, requestID)
			r = r.WithContext(requestid.With(r.Context(), requestID))

			start := time.Now()
			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			logger.Info("Request started", map[string]interface{}{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"remote_ip":  extractIP(r),
				"user_agent": r.UserAgent(),
			})

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			logger.Info("Request completed", map[string]interface{}{
				"request_id":  requestID,
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      wrapped.statusCode,
				"duration":    duration.String(),
				"duration_ms": duration.Milliseconds(),
			})

			if duration > slowRequest {
				logger.Warn("Slow request detected", map[string]interface{}{
					"request_id": requestID,
					"method":     r.Method,
					"path":       r.URL.Path,
					"duration":   duration.String(),
				})
			}

			if wrapped.statusCode >= 500 {
				logger.Error("Request failed with server error", map[string]interface{}{
					"request_id": requestID,
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     wrapped.statusCode,
				})
			}
		})
	}
}

// LoggingRoundTripper logs calls to the backend and translator at debug level
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Logger    interfaces.Logger
}

// NewLoggingRoundTripper wraps next, or http.DefaultTransport when nil
func NewLoggingRoundTripper(next http.RoundTripper, logger interfaces.Logger) *LoggingRoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LoggingRoundTripper{Transport: next, Logger: logger}
}

// RoundTrip logs outgoing HTTP requests
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := requestid.From(req.Context())
	if requestID == "" {
		requestID = req.Header.Get(requestid.Header)
	}

	t.Logger.Debug("Outgoing HTTP request", map[string]interface{}{
		"request_id": requestID,
		"method":     req.Method,
		"host":       req.URL.Host,
		"path":       req.URL.Path,
	})

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.Logger.Error("Outgoing HTTP request failed", map[string]interface{}{
			"request_id": requestID,
			"method":     req.Method,
			"host":       req.URL.Host,
			"path":       req.URL.Path,
			"duration":   duration.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	t.Logger.Debug("Outgoing HTTP response", map[string]interface{}{
		"request_id": requestID,
		"method":     req.Method,
		"host":       req.URL.Host,
		"path":       req.URL.Path,
		"status":     resp.StatusCode,
		"duration":   duration.String(),
	})
	return resp, nil
}
