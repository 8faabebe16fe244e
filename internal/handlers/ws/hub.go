// Package ws mantém os canais websocket autenticados usados para avisar o
// cliente de que a identidade em cache ficou desatualizada.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/handlers/dto"
	"github.com/rafabene/orquesta-admin/internal/handlers/middleware"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 8
)

// NoticePermissionsChanged pede ao cliente que busque de novo /auth/me
const NoticePermissionsChanged = "permissions_changed"

// Notice é a mensagem enviada pelo canal
type Notice struct {
	Type   string    `json:"type"`
	UserID uint      `json:"user_id"`
	At     time.Time `json:"at"`
}

type client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uint
	send   chan []byte
}

// Hub guarda as conexões abertas por usuário e implementa ports.PermissionNotifier
type Hub struct {
	mu       sync.RWMutex
	clients  map[uint]map[*client]struct{}
	closed   bool
	upgrader websocket.Upgrader
	logger   ports.Logger
	now      func() time.Time
}

var _ ports.PermissionNotifier = (*Hub)(nil)

// NewHub cria o hub; allowedOrigins segue a mesma regra do CORS ("*" libera tudo)
func NewHub(logger ports.Logger, allowedOrigins []string) *Hub {
	return &Hub{
		clients: make(map[uint]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		logger: logger,
		now:    time.Now,
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}

// ServeWS faz o upgrade da conexão; exige middleware.Authenticate antes
func (h *Hub) ServeWS(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c, ""))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// o upgrader já respondeu com o erro HTTP
		h.logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	cl := &client{hub: h, conn: conn, userID: userID, send: make(chan []byte, sendBuffer)}
	if !h.register(cl) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	h.logger.Debug("websocket connected", "user_id", userID)

	go cl.writePump()
	go cl.readPump()
}

// PermissionsChanged avisa todas as conexões dos usuários informados.
// Um cliente com a fila cheia é desconectado e refaz o login da sessão ao reconectar.
func (h *Hub) PermissionsChanged(_ context.Context, userIDs []uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, userID := range userIDs {
		conns := h.clients[userID]
		if len(conns) == 0 {
			continue
		}

		payload, err := json.Marshal(Notice{Type: NoticePermissionsChanged, UserID: userID, At: h.now().UTC()})
		if err != nil {
			h.logger.Error("failed to encode notice", "user_id", userID, "error", err)
			continue
		}

		for cl := range conns {
			select {
			case cl.send <- payload:
			default:
				h.logger.Warn("websocket client too slow, dropping", "user_id", userID)
				h.removeLocked(cl)
			}
		}
	}
}

// Connections retorna quantas conexões o usuário tem abertas
func (h *Hub) Connections(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[userID])
}

// Close encerra todas as conexões e recusa novas
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for _, conns := range h.clients {
		for cl := range conns {
			h.removeLocked(cl)
		}
	}
}

func (h *Hub) register(cl *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	conns, ok := h.clients[cl.userID]
	if !ok {
		conns = make(map[*client]struct{})
		h.clients[cl.userID] = conns
	}
	conns[cl] = struct{}{}
	return true
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(cl)
}

// removeLocked fecha send uma única vez; o writePump encerra a conexão
func (h *Hub) removeLocked(cl *client) {
	conns, ok := h.clients[cl.userID]
	if !ok {
		return
	}
	if _, ok := conns[cl]; !ok {
		return
	}
	delete(conns, cl)
	if len(conns) == 0 {
		delete(h.clients, cl.userID)
	}
	close(cl.send)
}

// readPump só existe para processar pong e detectar a desconexão
func (cl *client) readPump() {
	defer func() {
		cl.hub.unregister(cl)
		_ = cl.conn.Close()
	}()

	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				cl.hub.logger.Debug("websocket closed unexpectedly", "user_id", cl.userID, "error", err)
			}
			return
		}
	}
}

func (cl *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case message, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
