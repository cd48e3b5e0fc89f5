package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vitaltrack/fitness-app/internal/apperror"
	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/logger"
	"vitaltrack/fitness-app/internal/metrics"
	"vitaltrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserKey      = "user"
	ContextRequestIDKey = "requestID"
)

const requestIDHeader = "X-Request-ID"

// genericErrorMessage is the only message clients see for 5xx responses.
const genericErrorMessage = "Something went wrong"

// extractAccessToken looks for the token in the access cookie, then the
// Authorization header, then the token query parameter.
func extractAccessToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Query("token")
}

// AuthMiddleware resolves the access token to a persisted user and stores
// it in the context. Every failure is a 401.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authService.Authenticate(c.Request.Context(), extractAccessToken(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// abortWithError records err for ErrorHandler and stops the chain.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// currentUser returns the user attached by AuthMiddleware.
func currentUser(c *gin.Context) *domain.User {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, _ := raw.(*domain.User)
	return user
}

// currentUserID returns the authenticated user's id. Handlers behind
// AuthMiddleware can rely on it being set.
func currentUserID(c *gin.Context) primitive.ObjectID {
	if user := currentUser(c); user != nil {
		return user.ID
	}
	return primitive.NilObjectID
}

type errorResponse struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorHandler turns the last error recorded on the context into the JSON
// error body. Server errors are logged in full and reported generically.
func ErrorHandler() gin.HandlerFunc {
	log := logger.WithComponent("http")
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.StatusOf(err)

		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Err(err).
			Str("request_id", c.GetString(ContextRequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Msg("Request failed")

		if c.Writer.Written() {
			return
		}

		body := errorResponse{Message: genericErrorMessage}
		var appErr *apperror.Error
		if status < http.StatusInternalServerError && errors.As(err, &appErr) {
			body.Message = appErr.Message
			body.Details = appErr.Details
		}
		c.JSON(status, body)
	}
}

// Recovery converts panics into the generic 500 body.
func Recovery() gin.HandlerFunc {
	log := logger.WithComponent("http")
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().
			Interface("panic", recovered).
			Str("request_id", c.GetString(ContextRequestIDKey)).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Message: genericErrorMessage})
	})
}

// RequestLogger tags every request with an id and writes an access log line.
func RequestLogger() gin.HandlerFunc {
	log := logger.WithComponent("http")
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// Metrics records request counts and latency per matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// CORS allows credentialed requests from the configured client origin only.
func CORS(clientURL string) gin.HandlerFunc {
	allowed := strings.TrimRight(clientURL, "/")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && strings.TrimRight(origin, "/") == allowed {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+refreshTokenHeader+", "+requestIDHeader)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
