package livefeed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/usecase"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub, err := NewHub(Config{PublishWorkers: 2}, logging.NewNop())
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		initial := usecase.PublicMatch{
			Code:         r.URL.Query().Get("code"),
			Opponent:     "Harbour Hawks",
			Status:       match.StatusScheduled,
			QuarterCount: 4,
		}
		if err := hub.Serve(w, r, initial); err != nil {
			t.Errorf("serve: %v", err)
		}
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, code string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?code=" + code
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) matchFrame {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var frame matchFrame
	if err := sonic.Unmarshal(data, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return frame
}

func TestHub_SendsInitialSnapshotThenUpdates(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv, "ABC123")

	initial := readFrame(t, conn)
	if initial.Type != frameTypeSnapshot || initial.Status != "scheduled" || initial.Code != "ABC123" {
		t.Fatalf("unexpected initial frame: %+v", initial)
	}
	if hub.Subscribers("ABC123") != 1 {
		t.Fatalf("expected one subscriber, got %d", hub.Subscribers("ABC123"))
	}

	extra := 5
	hub.Publish(t.Context(), usecase.PublicMatch{
		Code:      "ABC123",
		Status:    match.StatusLive,
		HomeScore: 2,
		GameTime:  match.GameTime{GameSecond: 3600, DisplayMinute: 60, DisplayExtraMinute: &extra},
	})

	update := readFrame(t, conn)
	if update.Status != "live" || update.HomeScore != 2 {
		t.Fatalf("unexpected update frame: %+v", update)
	}
	if update.Clock.Display != "60+5'" {
		t.Fatalf("unexpected clock display: %q", update.Clock.Display)
	}
}

func TestHub_PublishOnlyReachesSameCode(t *testing.T) {
	hub, srv := newTestHub(t)
	first := dial(t, srv, "AAA111")
	second := dial(t, srv, "BBB222")
	readFrame(t, first)
	readFrame(t, second)

	hub.Publish(t.Context(), usecase.PublicMatch{Code: "BBB222", Status: match.StatusHalftime})
	if got := readFrame(t, second); got.Status != "halftime" {
		t.Fatalf("unexpected frame for subscriber: %+v", got)
	}

	_ = first.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatalf("subscriber of another code must not receive the frame")
	}
}

func TestHub_ClientRemovedAfterDisconnect(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv, "CCC333")
	readFrame(t, conn)

	_ = conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers("CCC333") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client still registered after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func readUntilRevision(t *testing.T, conn *websocket.Conn, want int64) []matchFrame {
	t.Helper()

	var frames []matchFrame
	for {
		frame := readFrame(t, conn)
		frames = append(frames, frame)
		if frame.Revision >= want {
			return frames
		}
	}
}

func TestHub_BurstEndsOnNewestSnapshot(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv, "DDD444")
	readFrame(t, conn)

	const total = 200
	for i := 1; i <= total; i++ {
		hub.Publish(t.Context(), usecase.PublicMatch{
			Code:      "DDD444",
			Status:    match.StatusLive,
			HomeScore: i,
			Revision:  int64(i),
		})
	}

	frames := readUntilRevision(t, conn, total)
	last := int64(0)
	for _, f := range frames {
		if f.Revision < last {
			t.Fatalf("revision went backwards: %d after %d", f.Revision, last)
		}
		last = f.Revision
	}
	if got := frames[len(frames)-1]; got.HomeScore != total || got.Revision != total {
		t.Fatalf("expected final snapshot %d, got score=%d revision=%d", total, got.HomeScore, got.Revision)
	}
}

func TestHub_ConcurrentPublishersNeverRewind(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv, "EEE555")
	readFrame(t, conn)

	const (
		publishers = 8
		perWorker  = 25
		total      = publishers * perWorker
	)
	var wg sync.WaitGroup
	for w := 0; w < publishers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				rev := int64(i*publishers + w + 1)
				hub.Publish(t.Context(), usecase.PublicMatch{Code: "EEE555", HomeScore: int(rev), Revision: rev})
			}
		}(w)
	}
	wg.Wait()

	frames := readUntilRevision(t, conn, total)
	last := int64(0)
	for _, f := range frames {
		if f.Revision < last {
			t.Fatalf("revision went backwards: %d after %d", f.Revision, last)
		}
		last = f.Revision
	}
	if last != total {
		t.Fatalf("expected final revision %d, got %d", total, last)
	}
}

func TestHub_SkipsStaleRevision(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv, "FFF666")
	readFrame(t, conn)

	hub.Publish(t.Context(), usecase.PublicMatch{Code: "FFF666", HomeScore: 5, Revision: 5})
	if got := readFrame(t, conn); got.Revision != 5 {
		t.Fatalf("expected revision 5, got %d", got.Revision)
	}

	hub.Publish(t.Context(), usecase.PublicMatch{Code: "FFF666", HomeScore: 3, Revision: 3})
	hub.Publish(t.Context(), usecase.PublicMatch{Code: "FFF666", HomeScore: 6, Revision: 6})
	if got := readFrame(t, conn); got.Revision != 6 || got.HomeScore != 6 {
		t.Fatalf("expected revision 6 after a stale one, got %+v", got)
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{PongWait: 9 * time.Second, PingInterval: time.Minute}.withDefaults()
	if cfg.PingInterval != 6*time.Second {
		t.Fatalf("ping interval must stay below pong wait, got %s", cfg.PingInterval)
	}
	if cfg.ClientSendBuffer != 256 || cfg.PublishWorkers != 8 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
