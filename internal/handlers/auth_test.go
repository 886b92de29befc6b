package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/syntherra/PooDough/internal/config"
	"github.com/syntherra/PooDough/internal/handlers"
	"github.com/syntherra/PooDough/internal/timer"
)

func testRouter(t *testing.T, manager *timer.Manager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{}
	hs := handlers.NewHandlerSet(zerolog.Nop(), nil, nil, nil, manager, cfg)

	engine := gin.New()
	hs.Register(engine.Group("/api"))
	return engine
}

// Logout must not accept an identity from the request body: an anonymous
// caller naming another user may neither revoke their device session nor
// abort their live run.
func TestLogout_RequiresAuthentication(t *testing.T) {
	manager := timer.NewManager(nil, time.Second)
	engine := testRouter(t, manager)

	if _, err := manager.Start("victim", 52000); err != nil {
		t.Fatalf("start run: %v", err)
	}
	defer manager.Shutdown()

	body := strings.NewReader(`{"userId":"victim","deviceId":"d1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !manager.Snapshot("victim").Running {
		t.Fatalf("an unauthenticated logout must not abort another user's run")
	}
}

func TestLogout_RejectsGarbageToken(t *testing.T) {
	manager := timer.NewManager(nil, time.Second)
	engine := testRouter(t, manager)
	defer manager.Shutdown()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
