package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vitaltrack/fitness-app/internal/config"
	"vitaltrack/fitness-app/internal/repository/memory"
	"vitaltrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testClientURL = "http://app.test"

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router *gin.Engine
	store  *memory.Store
	events *recordingPublisher
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Emit(_ string, event string, _ any) {
	p.events = append(p.events, event)
}

type apiOption func(*RouterConfig, *Services)

func newTestAPI(t *testing.T, opts ...apiOption) *testAPI {
	t.Helper()
	store := memory.NewStore()
	events := &recordingPublisher{}
	tokens := service.NewTokenService(service.TokenConfig{
		AccessSecret:  "test-access",
		AccessTTL:     15 * time.Minute,
		RefreshSecret: "test-refresh",
		RefreshTTL:    7 * 24 * time.Hour,
	})
	auth := service.NewAuthService(store.Users(), tokens, service.WithBcryptCost(bcrypt.MinCost))

	cfg := RouterConfig{
		ClientURL: testClientURL,
		Cookies: SessionCookies{
			AccessTTL:  tokens.AccessTTL(),
			RefreshTTL: tokens.RefreshTTL(),
		},
		RateLimit: config.RateLimitConfig{AuthRPS: 100, AuthBurst: 100},
	}
	services := Services{
		Auth:     auth,
		Avatars:  service.NewAvatarService(store.Users(), nil),
		Goals:    service.NewGoalService(store.Goals(), events),
		Plans:    service.NewPlanService(store.Plans(), events),
		Workouts: service.NewWorkoutService(store.Workouts(), store.Plans(), events),
	}
	for _, opt := range opts {
		opt(&cfg, &services)
	}
	return &testAPI{router: NewRouter(cfg, services), store: store, events: events}
}

type requestOption func(*http.Request)

func withCookies(cookies []*http.Cookie) requestOption {
	return func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
}

func withBearer(token string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withHeader(key, value string) requestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// session registers a user and returns the access token and cookies.
type session struct {
	token   string
	cookies []*http.Cookie
}

func (a *testAPI) register(t *testing.T, email string) session {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"firstName": "Test",
		"lastName":  "User",
		"email":     email,
		"password":  "Secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tokens := decode(t, w)["tokens"].(map[string]any)
	return session{token: tokens["accessToken"].(string), cookies: w.Result().Cookies()}
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
