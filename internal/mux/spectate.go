package mux

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = time.Second * 10
const pongWait = time.Second * 60
const pingPeriod = pongWait * 9 / 10

// getSpectateWS streams the table's broadcasts to a websocket client.
// A spectator is just another mailbox in the hub; it receives everything the
// hub broadcasts but can never bet.
func (m *Mux) getSpectateWS() http.HandlerFunc {
	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.WithError(err).Error("could not upgrade connection")
			return
		}

		id := "spectator-" + uuid.New().String()
		log := logrus.WithField("spectator", id)

		if err := m.hub.Register(id); err != nil {
			log.WithError(err).Error("could not register spectator mailbox")
			_ = conn.Close()
			return
		}

		log.Debug("spectator connected")

		mailbox, _ := m.hub.Mailbox(id)

		defer func() {
			m.hub.Deregister(id)
			_ = conn.Close()
			log.Debug("spectator disconnected")
		}()

		go m.spectateWriteLoop(conn, mailbox)
		m.spectateReadLoop(conn)
	}
}

func (m *Mux) spectateWriteLoop(conn *websocket.Conn, mailbox <-chan string) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case msg, ok := <-mailbox:
			if !ok {
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				logrus.WithError(err).Debug("could not write to spectator")
				return
			}
		}
	}
}

// spectateReadLoop consumes (and discards) client frames so pongs are
// processed and a close is noticed
func (m *Mux) spectateReadLoop(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
