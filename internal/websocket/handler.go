package websocket

import (
	"net/http"

	"VibeJo/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws  (需带 JWT，middleware 已在 main.go 中加入)
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.GetString("name") // JWT middleware 注入
		if name == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing player"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			utils.Print.Warn("ws upgrade failed", "name", name, "err", err)
			return
		}

		client := &Client{
			Name: name,
			Conn: conn,
			Send: make(chan OutgoingMessage, 32),
			Hub:  hub,
		}

		if !hub.Register(client) {
			_ = conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}
