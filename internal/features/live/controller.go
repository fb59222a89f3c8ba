package live

import (
	"github.com/gofiber/contrib/websocket"
)

type LiveController struct {
	Hub *Hub
}

func NewLiveController(hub *Hub) *LiveController {
	return &LiveController{Hub: hub}
}

// HandleWebSocket keeps the connection registered with the hub until the
// client goes away. Inbound frames are read and discarded; the stream is
// push-only.
func (ctrl *LiveController) HandleWebSocket(c *websocket.Conn) {
	ctrl.Hub.Register(c)
	defer ctrl.Hub.Unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
