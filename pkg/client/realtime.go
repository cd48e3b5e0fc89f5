package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Change is the payload of a goals, plans or workouts change event.
type Change struct {
	Type     string `json:"type"`
	EntityID string `json:"entityId"`
}

// Event is one frame received from the realtime endpoint.
type Event struct {
	Name   string
	Change Change
	// Keys lists the query keys the event invalidated.
	Keys []string
}

// EventHandler is called for every change event after the cache has been
// invalidated. It runs on the subscription's read goroutine.
type EventHandler func(Event)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Subscription is a live realtime connection.
type Subscription struct {
	ws        *websocket.Conn
	done      chan struct{}
	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

// Subscribe opens the realtime feed with the session cookies in the jar and
// waits for the server's connection acknowledgment. Every change event then
// invalidates its query keys before handler, which may be nil, runs.
// The feed stops when ctx is done or Close is called.
func (c *Client) Subscribe(ctx context.Context, handler EventHandler) (*Subscription, error) {
	wsURL := *c.baseURL
	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}
	wsURL.Path = c.baseURL.Path + "/realtime"

	var cookies []string
	for _, cookie := range c.jar.Cookies(c.baseURL) {
		cookies = append(cookies, cookie.String())
	}
	header := http.Header{}
	if len(cookies) > 0 {
		header.Set("Cookie", strings.Join(cookies, "; "))
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	ws, resp, err := dialer.DialContext(ctx, wsURL.String(), header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return nil, &APIError{StatusCode: resp.StatusCode, Message: "realtime connection rejected"}
		}
		return nil, fmt.Errorf("websocket dial: %w", err)
	}

	var ack frame
	_ = ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	if err := ws.ReadJSON(&ack); err != nil {
		ws.Close()
		return nil, fmt.Errorf("read realtime ack: %w", err)
	}
	if ack.Event != EventConnected {
		ws.Close()
		return nil, fmt.Errorf("unexpected first realtime event %q", ack.Event)
	}
	_ = ws.SetReadDeadline(time.Time{})

	sub := &Subscription{ws: ws, done: make(chan struct{})}
	go sub.readLoop(c.cache, handler)
	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()
	return sub, nil
}

func (s *Subscription) readLoop(cache *Cache, handler EventHandler) {
	defer s.Close()
	for {
		var f frame
		if err := s.ws.ReadJSON(&f); err != nil {
			s.fail(err)
			return
		}

		keys := KeysFor(f.Event)
		if keys == nil {
			continue
		}
		cache.Invalidate(keys...)

		if handler == nil {
			continue
		}
		ev := Event{Name: f.Event, Keys: keys}
		_ = json.Unmarshal(f.Data, &ev.Change)
		handler(ev)
	}
}

func (s *Subscription) fail(err error) {
	select {
	case <-s.done:
		return
	default:
	}
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
		return
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Done is closed when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err returns the read error that ended the subscription, if any.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		_ = s.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.ws.Close()
		close(s.done)
	})
}
