// websocket/handler.go
package websocket

import (
	"strings"
	"time"

	"contacts-backend/config"
	"contacts-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService defines a token validator interface
type AuthService interface {
	VerifyToken(tokenStr string, kind token.Kind) (*token.Payload, error)
}

// WsHandler manages WebSocket requests and connections
type WsHandler struct {
	hub  *Hub
	auth AuthService
}

// NewWsHandler creates a new WebSocket handler instance
func NewWsHandler(hub *Hub, auth AuthService) *WsHandler {
	return &WsHandler{hub: hub, auth: auth}
}

func requestToken(c *fiber.Ctx) string {
	if tokenStr := c.Cookies("access_token"); tokenStr != "" {
		return tokenStr
	}
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// HandleWebSocket authenticates the upgrade request and subscribes the
// connection to its organization's import events.
func (h *WsHandler) HandleWebSocket(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tokenStr := requestToken(c)
	if tokenStr == "" {
		config.Logger.Warn("WebSocket connection attempted without access token")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	payload, err := h.auth.VerifyToken(tokenStr, token.KindAccess)
	if err != nil {
		config.Logger.Warn("Invalid access token for WebSocket", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			ID:             uuid.New(),
			UserID:         payload.UserID,
			OrganizationID: payload.OrganizationID,
			Conn:           conn,
			Hub:            h.hub,
			Send:           make(chan WebSocketMessage, 64),
		}
		h.hub.register <- client

		config.Logger.Info("WebSocket client registered",
			zap.String("clientID", client.ID.String()),
			zap.String("organizationID", client.OrganizationID.String()))

		go client.writePump()
		client.readPump()
	})(c)
}

// readPump only watches for disconnects; clients do not send commands.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				config.Logger.Warn("WebSocket unexpected close",
					zap.String("clientID", c.ID.String()),
					zap.Error(err))
			}
			return
		}
	}
}

// writePump sends queued messages and keeps the connection alive
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				config.Logger.Debug("WebSocket write error",
					zap.String("clientID", c.ID.String()),
					zap.Error(err))
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
