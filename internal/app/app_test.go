package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                 config.EnvDev,
		ServiceName:            "matchday-api-test",
		HTTPAddr:               ":0",
		ReadTimeout:            time.Second,
		WriteTimeout:           time.Second,
		CORSAllowedOrigins:     []string{"*"},
		StoreDriver:            config.StoreMemory,
		LiveFeedEnabled:        true,
		LiveFeedSendBuffer:     4,
		LiveFeedWriteTimeout:   time.Second,
		LiveFeedPongWait:       10 * time.Second,
		LiveFeedPingInterval:   5 * time.Second,
		LiveFeedPublishWorkers: 1,
	}
}

func TestNew_MemoryStoreServesHealthz(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Close(); err != nil {
			t.Fatalf("close app: %v", err)
		}
	})

	if a.hub == nil {
		t.Fatalf("expected live feed hub to be built")
	}

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected healthz status: %d", rec.Code)
	}
}

func TestNew_LiveFeedDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.LiveFeedEnabled = false

	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	if a.hub != nil {
		t.Fatalf("expected no hub when live feed is disabled")
	}
}

func TestNew_RequiresAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""

	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
