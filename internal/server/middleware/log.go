package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/vpnclient/internal/metrics"
)

const maxLoggedBody = 1 << 10

// LogMiddleware logs one line per request. Text bodies up to 1 KiB are logged.
func LogMiddleware(logger *zap.SugaredLogger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			var bodyBytes []byte
			if r.Body != nil {
				var err error
				bodyBytes, err = io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
				if err != nil {
					logger.Errorw("failed to read request body", "error", err)
				}
				r.Body = replayBody{
					Reader: io.MultiReader(bytes.NewReader(bodyBytes), r.Body),
					Closer: r.Body,
				}
			}

			loggedBody := "<skipped>"
			if len(bodyBytes) == 0 {
				loggedBody = ""
			} else if len(bodyBytes) <= maxLoggedBody && isProbablyText(bodyBytes) {
				loggedBody = string(bodyBytes)
			}

			lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(lrw, r)

			logger.Infow("request",
				"method", r.Method,
				"uri", r.RequestURI,
				"status", lrw.statusCode,
				"size", lrw.size,
				"duration", time.Since(start),
				"body", loggedBody,
			)
		})
	}
}

// replayBody puts the bytes read for logging back in front of the rest of
// the body.
type replayBody struct {
	io.Reader
	io.Closer
}

// MetricsMiddleware counts requests by method and status code.
func MetricsMiddleware(m *metrics.Collectors) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(lrw, r)
			m.Request(r.Method, strconv.Itoa(lrw.statusCode))
		})
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

func isProbablyText(b []byte) bool {
	for _, c := range b {
		if c == 0 || c > 127 {
			return false
		}
	}
	return true
}
