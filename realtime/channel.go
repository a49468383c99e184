package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const registerWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST layer handles CORS; the socket accepts any origin like the
	// original deployment did.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn serializes writes; the dispatcher may push to the same recipient
// from concurrent fan-outs.
type wsConn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *wsConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}

// ChannelController mounts the live channel endpoint.
func ChannelController(router *gin.Engine, hub *Hub) {
	router.GET("/ws", func(c *gin.Context) {
		Serve(c, hub)
	})
}

// Serve upgrades the request and runs the session read loop. The client must
// send a register frame before any pushes reach it; registration state does
// not survive a reconnect.
func Serve(c *gin.Context, hub *Hub) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("channel: upgrade failed: %v", err)
		return
	}
	conn := &wsConn{ws: ws}
	defer func() {
		hub.Unregister(conn)
		conn.Close()
	}()

	ws.SetReadDeadline(time.Now().Add(registerWait))

	for {
		var env Envelope
		if err := ws.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("channel: read error: %v", err)
			}
			return
		}

		if env.Event != EventRegister {
			continue
		}

		var recipientID string
		if err := json.Unmarshal(env.Data, &recipientID); err != nil || recipientID == "" {
			log.Printf("channel: bad register payload: %s", env.Data)
			continue
		}

		hub.Register(recipientID, conn)
		// Registered sessions stay open until the peer drops.
		ws.SetReadDeadline(time.Time{})
		log.Printf("channel: recipient online: %s", recipientID)
	}
}
