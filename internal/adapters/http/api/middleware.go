package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/promosim/pkg/logger"
	"github.com/okian/promosim/pkg/metrics"
)

// MetricsMiddleware records request count, latency, and error responses
// for endpoint, and logs each request at debug level.
func MetricsMiddleware(endpoint string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status()
		elapsed := time.Since(start)
		metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(status), float64(elapsed.Microseconds())/1000)
		if status >= http.StatusBadRequest {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, errorType(status))
		}
		logger.Named("http").Debug(r.Context(), "request served",
			logger.String("endpoint", endpoint),
			logger.String("method", r.Method),
			logger.Int("status", status),
			logger.Int("bytes", rec.written),
			logger.Duration("elapsed", elapsed),
		)
	})
}

// errorType matches the code field of the JSON error body where one exists.
func errorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusUnprocessableEntity:
		return "configuration_error"
	case http.StatusServiceUnavailable:
		return "cancelled"
	}
	if status >= http.StatusInternalServerError {
		return "internal_error"
	}
	return "client_error"
}

// statusRecorder remembers the first status written and counts body bytes.
type statusRecorder struct {
	http.ResponseWriter
	code    int
	written int
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.code == 0 {
		rec.code = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.code == 0 {
		rec.code = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.written += n
	return n, err
}

func (rec *statusRecorder) status() int {
	if rec.code == 0 {
		return http.StatusOK
	}
	return rec.code
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rec *statusRecorder) Unwrap() http.ResponseWriter { return rec.ResponseWriter }
