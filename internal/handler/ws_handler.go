package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/padelcore/padelcore-api/internal/service"
	"github.com/padelcore/padelcore-api/pkg/events"
	"github.com/padelcore/padelcore-api/pkg/response"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// WSHandler bridges broadcast groups onto websocket connections. Each
// connection subscribes to exactly one group and receives every message
// published there until either side closes.
type WSHandler struct {
	bus      events.Bus
	auth     *service.AuthService
	metrics  *service.MetricsService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWSHandler constructs the handler. Origin checks are delegated to the
// CORS layer in front of the router.
func NewWSHandler(bus events.Bus, auth *service.AuthService, metrics *service.MetricsService, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		bus:     bus,
		auth:    auth,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Workflow streams approval workflow events.
func (h *WSHandler) Workflow(c *gin.Context) {
	h.serve(c, events.GroupWorkflow)
}

// Activity streams activity feed events.
func (h *WSHandler) Activity(c *gin.Context) {
	h.serve(c, events.GroupActivity)
}

// Player streams the personal group of the authenticated user. Browsers
// cannot set headers on websocket dials, so the token travels as a query
// parameter.
func (h *WSHandler) Player(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Detail(c, http.StatusUnauthorized, "token query parameter is required", nil)
		return
	}
	claims, err := h.auth.ParseToken(token)
	if err != nil || claims.TokenUse != "access" {
		response.Detail(c, http.StatusUnauthorized, "invalid token", nil)
		return
	}
	h.serve(c, events.UserGroup(claims.UserID))
}

func (h *WSHandler) serve(c *gin.Context, group string) {
	if h.bus == nil {
		response.Detail(c, http.StatusServiceUnavailable, "event bus not configured", nil)
		return
	}
	sub, err := h.bus.Subscribe(c.Request.Context(), group)
	if err != nil {
		h.logger.Warn("websocket subscribe failed", zap.String("group", group), zap.Error(err))
		response.Detail(c, http.StatusServiceUnavailable, "subscription failed", nil)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		sub.Close()
		// Upgrade already wrote the HTTP error response.
		return
	}

	if h.metrics != nil {
		h.metrics.WebsocketOpened()
	}
	defer func() {
		sub.Close()
		conn.Close()
		if h.metrics != nil {
			h.metrics.WebsocketClosed()
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Inbound frames are ignored; the read loop only surfaces closes.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
