package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"storefront/internal/logger"
)

// Request context keys
type contextKey string

const RequestIDKey contextKey = "request_id"

// Standard API error response
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id"`
}

// Standard API success response
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id"`
}

// API wraps a handler with the standard chain for JSON endpoints.
func API(next http.HandlerFunc) http.HandlerFunc {
	return RequestID(
		Logging(
			ErrorHandling(next),
		),
	)
}

// RequestID middleware adds a unique request ID to each request. An incoming
// X-Request-ID header is kept so ids survive a proxy hop.
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// Logging middleware logs all API requests with consistent format
func Logging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := GetRequestID(r.Context())

		logger.LogDebug("API request started request_id=%s method=%s path=%s client_ip=%s",
			requestID, r.Method, r.URL.Path, logger.GetClientIP(r))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		logger.LogInfo("API request completed request_id=%s method=%s path=%s status=%d took=%v",
			requestID, r.Method, r.URL.Path, rw.statusCode, duration)
	}
}

// ErrorHandling middleware provides panic recovery and consistent error responses
func ErrorHandling(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.LogError("Panic in API handler request_id=%s %s %s: %v",
					GetRequestID(r.Context()), r.Method, r.URL.Path, err)
				WriteAPIError(w, r, http.StatusInternalServerError, "internal_error",
					"An internal error occurred", "")
			}
		}()
		next.ServeHTTP(w, r)
	}
}

// CORS adds CORS headers and answers preflight requests.
func CORS(allowedOrigin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Shop-ID, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetRequestID returns the request ID assigned by RequestID, if any.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WriteAPIError writes a standardized error response
func WriteAPIError(w http.ResponseWriter, r *http.Request, statusCode int, code, message, details string) {
	response := APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: GetRequestID(r.Context()),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.LogError("Failed to encode error response: %v", err)
	}
}

// WriteStatusError maps a status code to a standard error body.
func WriteStatusError(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	code := "internal_error"
	message := "An internal error occurred"
	details := ""

	switch statusCode {
	case http.StatusBadRequest:
		code, message = "bad_request", "The request could not be understood"
		if err != nil {
			details = err.Error()
		}
	case http.StatusNotFound:
		code, message = "not_found", "The requested resource was not found"
		if err != nil {
			details = err.Error()
		}
	case http.StatusMethodNotAllowed:
		code, message = "method_not_allowed", "Method not allowed"
	default:
		logger.LogHTTPError(r, statusCode, err)
	}

	WriteAPIError(w, r, statusCode, code, message, details)
}

// WriteAPISuccess writes a standardized success response
func WriteAPISuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	response := APIResponse{
		Success:   true,
		Data:      data,
		RequestID: GetRequestID(r.Context()),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.LogError("Failed to encode response: %v", err)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
