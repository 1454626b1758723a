package signal

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"

	"github.com/dkeye/Talkspace/internal/app"
	"github.com/dkeye/Talkspace/internal/app/orch"
	"github.com/dkeye/Talkspace/internal/config"
	"github.com/dkeye/Talkspace/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var errConnClosed = errors.New("connection closed")

// SignalWSController bridges WebSocket clients to the signaling router.
type SignalWSController struct {
	Orch    *orch.Orchestrator
	Hub     *app.Hub
	cfg     *config.Config
	limiter *RateLimiter

	upgrader websocket.Upgrader
}

func NewSignalWSController(cfg *config.Config, o *orch.Orchestrator, hub *app.Hub) *SignalWSController {
	ctl := &SignalWSController{
		Orch:    o,
		Hub:     hub,
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.RateLimit, cfg.RateBurst),
	}
	ctl.upgrader = websocket.Upgrader{CheckOrigin: ctl.checkOrigin}
	return ctl
}

func (ctl *SignalWSController) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(ctl.cfg.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(ctl.cfg.AllowedOrigins, origin)
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errConnClosed
	}
	select {
	case c.send <- f:
	default:
		return app.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal upgrades the request and runs the connection until either
// side goes away. Every socket gets its own connection id.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())
	logger := log.With().Str("module", "signal").Str("sid", string(sid)).Str("client", c.GetString("client_token")).Logger()

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error().Err(err).Msg("ws upgrade")
		return
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.cfg.SendBuffer),
	}

	ctl.Hub.Register(sid, conn)
	ctl.Orch.Connect(sid)
	logger.Info().Str("remote", ws.RemoteAddr().String()).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, sid, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}
