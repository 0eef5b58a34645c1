package system

import (
	"go-hrms/internal/features/notification"
	"go-hrms/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

type WebSocketController struct {
	hub    *notification.Hub
	logger *zap.Logger
}

func NewWebSocketController(hub *notification.Hub, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{hub: hub, logger: logger}
}

// HandleWebSocket authenticates the connection from a token query param,
// registers it with the notification hub, then blocks on the read loop
// until the client goes away.
func (h *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	token := c.Query("token")
	claims, err := utils.ValidateToken(token)
	if err != nil {
		c.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
		c.Close()
		return
	}

	h.hub.Register(claims.UserID, c)
	defer h.hub.Unregister(claims.UserID, c)

	h.logger.Debug("websocket connected", zap.Uint("userId", claims.UserID))

	// Inbound messages are ignored; the socket exists for pushes.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
