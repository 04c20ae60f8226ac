package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"wiz-homes/middleware"
	"wiz-homes/services"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NotificationController streams admin notifications of the caller's session.
type NotificationController struct {
	Hub *services.NotificationHub
}

func NewNotificationController(hub *services.NotificationHub) *NotificationController {
	return &NotificationController{Hub: hub}
}

// GET /api/admin/notifications/ws?token=
func (nc *NotificationController) Stream(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	sub := nc.Hub.Subscribe(sess.ID)
	entry := log.WithField("session", sess.ID)
	entry.Debug("notification feed connected")

	go nc.readPump(conn, sub)

	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
		entry.Debug("notification feed disconnected")
	}()
	for {
		select {
		case n, ok := <-sub.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if err := conn.WriteJSON(gin.H{"type": "notification", "notification": n}); err != nil {
				nc.Hub.Unsubscribe(sub)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				nc.Hub.Unsubscribe(sub)
				return
			}
		}
	}
}

// readPump drains client frames so pongs and close frames are processed.
func (nc *NotificationController) readPump(conn *websocket.Conn, sub *services.Subscriber) {
	defer nc.Hub.Unsubscribe(sub)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
