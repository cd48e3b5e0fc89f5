package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"vitaltrack/fitness-app/internal/apperror"
	"vitaltrack/fitness-app/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// AccessCookie is the cookie carrying the access token.
const AccessCookie = "accessToken"

// Authenticator resolves an access token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

// Server upgrades authenticated requests and joins them to a Hub.
type Server struct {
	hub      *Hub
	auth     Authenticator
	upgrader websocket.Upgrader
	now      func() time.Time
}

// NewServer creates the realtime endpoint. allowedOrigin is the single
// browser origin accepted; an empty value accepts any origin.
func NewServer(hub *Hub, auth Authenticator, allowedOrigin string) *Server {
	allowed := strings.TrimRight(allowedOrigin, "/")
	return &Server{
		hub:  hub,
		auth: auth,
		now:  time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed == "" || strings.TrimRight(origin, "/") == allowed
			},
		},
	}
}

// accessToken reads the token from the cookie, then the Authorization
// header, then the token query parameter.
func accessToken(r *http.Request) string {
	if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

func writeError(w http.ResponseWriter, err error) {
	status := apperror.StatusOf(err)
	message := "Something went wrong"
	if appErr, ok := apperror.As(err); ok && status < http.StatusInternalServerError {
		message = appErr.Message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Authenticate(r.Context(), accessToken(r))
	if err != nil {
		s.hub.log.Debug().Err(err).Msg("Rejected realtime connection")
		writeError(w, err)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the error response.
		s.hub.log.Debug().Err(err).Msg("Realtime upgrade failed")
		return
	}

	c := &conn{
		id:     uuid.NewString(),
		userID: user.ID.Hex(),
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
	}

	ack, _ := json.Marshal(Message{
		Event: domain.EventRealtimeConnected,
		Data:  map[string]time.Time{"timestamp": s.now().UTC()},
	})
	c.send <- ack

	s.hub.join(c)
	go c.writePump()
	go c.readPump(s.hub)
}
