package livefeed

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/usecase"
)

var ErrHubClosed = crerr.New("live feed hub closed")

type Config struct {
	ClientSendBuffer int
	WriteTimeout     time.Duration
	PongWait         time.Duration
	PingInterval     time.Duration
	PublishWorkers   int
	AllowedOrigins   []string
}

func (c Config) withDefaults() Config {
	if c.ClientSendBuffer <= 0 {
		c.ClientSendBuffer = 256
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 30 * time.Second
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.PongWait {
		c.PingInterval = c.PongWait * 2 / 3
	}
	if c.PublishWorkers <= 0 {
		c.PublishWorkers = 8
	}
	return c
}

type client struct {
	code     string
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	revision atomic.Int64
}

// Hub fans match snapshots out to spectators grouped by public code.
type Hub struct {
	cfg      Config
	logger   *logging.Logger
	pool     *ants.Pool
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	rooms  map[string]map[*client]struct{}
	pumps  conc.WaitGroup
	closed atomic.Bool

	// pending holds the newest unsent view per code. A present key means a
	// drain for that code is running; a nil value means it has nothing left.
	pendingMu sync.Mutex
	pending   map[string]*usecase.PublicMatch
}

func NewHub(cfg Config, logger *logging.Logger) (*Hub, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(cfg.PublishWorkers, ants.WithNonblocking(true))
	if err != nil {
		return nil, crerr.Wrap(err, "create live feed publish pool")
	}

	h := &Hub{
		cfg:     cfg,
		logger:  logger,
		pool:    pool,
		rooms:   make(map[string]map[*client]struct{}),
		pending: make(map[string]*usecase.PublicMatch),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h, nil
}

// Publish queues a snapshot for every subscriber of the match's code without
// blocking the caller. Snapshots of one code are sent by a single drain in
// revision order; intermediate ones may be skipped but the newest always goes out.
func (h *Hub) Publish(ctx context.Context, view usecase.PublicMatch) {
	if h.closed.Load() || view.Code == "" {
		return
	}
	if h.Subscribers(view.Code) == 0 {
		return
	}

	h.pendingMu.Lock()
	queued, draining := h.pending[view.Code]
	if queued != nil && queued.Revision > view.Revision {
		h.pendingMu.Unlock()
		return
	}
	h.pending[view.Code] = &view
	h.pendingMu.Unlock()
	if draining {
		return
	}

	ctx = context.WithoutCancel(ctx)
	code := view.Code
	if err := h.pool.Submit(func() { h.drain(ctx, code) }); err != nil {
		h.logger.DebugContext(ctx, "live feed pool saturated, draining on a goroutine", "code", code, "error", err)
		h.pumps.Go(func() { h.drain(ctx, code) })
	}
}

func (h *Hub) drain(ctx context.Context, code string) {
	for {
		h.pendingMu.Lock()
		view := h.pending[code]
		if view == nil {
			delete(h.pending, code)
			h.pendingMu.Unlock()
			return
		}
		h.pending[code] = nil
		h.pendingMu.Unlock()

		payload, err := encodeFrame(*view)
		if err != nil {
			h.logger.WarnContext(ctx, "live feed encode failed", "code", code, "error", err)
			continue
		}
		h.broadcast(code, view.Revision, payload)
	}
}

// Serve upgrades the request and subscribes it to code, sending initial first.
// Failures are answered on w before returning.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, initial usecase.PublicMatch) error {
	if h.closed.Load() {
		http.Error(w, ErrHubClosed.Error(), http.StatusServiceUnavailable)
		return ErrHubClosed
	}

	payload, err := encodeFrame(initial)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return crerr.Wrap(err, "upgrade live feed connection")
	}

	c := &client{
		code: initial.Code,
		conn: conn,
		send: make(chan []byte, h.cfg.ClientSendBuffer),
		done: make(chan struct{}),
	}
	c.revision.Store(initial.Revision)
	c.send <- payload
	h.addClient(c)

	h.logger.InfoContext(r.Context(), "live feed client connected", "code", c.code, "remote_addr", r.RemoteAddr)

	h.pumps.Go(func() { h.writePump(c) })
	h.pumps.Go(func() { h.readPump(c) })
	return nil
}

func (h *Hub) Subscribers(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[code])
}

// Close disconnects every client and waits for their pumps to exit.
func (h *Hub) Close() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}

	h.mu.RLock()
	for _, room := range h.rooms {
		for c := range room {
			_ = c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(h.cfg.WriteTimeout),
			)
			_ = c.conn.Close()
		}
	}
	h.mu.RUnlock()

	h.pumps.Wait()
	h.pool.Release()
}

// broadcast skips clients that already hold a newer revision. A client whose
// buffer is full is disconnected so it reconnects to a fresh snapshot.
func (h *Hub) broadcast(code string, revision int64, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[code] {
		if revision < c.revision.Load() {
			continue
		}
		select {
		case c.send <- payload:
			c.revision.Store(revision)
		default:
			h.logger.Warn("live feed disconnecting slow client", "code", code)
			_ = c.conn.Close()
		}
	}
}

func (h *Hub) addClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.code]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[c.code] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) removeClient(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.rooms[c.code]
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.code)
	}
}

// writePump owns the connection: it removes the client and closes the socket
// on exit so broadcast never targets a dead client.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		h.removeClient(c)
		_ = c.conn.Close()
		h.logger.Info("live feed client disconnected", "code", c.code)
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("live feed write failed", "code", c.code, "error", err)
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only services pongs and close frames; spectators never send data.
func (h *Hub) readPump(c *client) {
	defer close(c.done)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowedOrigins) == 0 || slices.Contains(h.cfg.AllowedOrigins, "*") {
		return true
	}
	return slices.Contains(h.cfg.AllowedOrigins, origin)
}
