package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(req *http.Request) bool {
		return true
	},
}

// wsClient serialises writes, gorilla connections allow one writer only.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) send(packet []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err != nil {
		return fmt.Errorf("could not set write deadline: %w", err)
	}
	return c.conn.WriteMessage(websocket.TextMessage, packet)
}

// @Summary	Open websocket for realtime status information
// @Description	Pushes stats every two seconds, plus quit and program-reloaded events as they happen.
// @Router		/api/ws [get]
// @Param		Upgrade	header	string	true	"websocket"
// @Tags		base
// @Success	101
func (a *Api) handleWebsocket(w http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade already replied to the client
		a.log("couldn't make websocket: %s", err)
		return
	}
	client := &wsClient{conn: ws}
	defer func(ws *websocket.Conn) {
		err := ws.Close()
		if err != nil {
			a.log("could not close websocket: %s", err)
		}
	}(ws)

	a.setClient(client, true)
	defer a.setClient(client, false)

	done := make(chan struct{})
	defer close(done)
	go a.websocketWriter(client, done)

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			break
		}
		a.log("Received: %s", msg)
	}
}

func (a *Api) setClient(c *wsClient, present bool) {
	a.wsMutex.Lock()
	defer a.wsMutex.Unlock()
	if present {
		a.wsClients[c] = true
	} else {
		delete(a.wsClients, c)
	}
	a.Stats.SetWsClients(len(a.wsClients))
}

func (a *Api) websocketWriter(c *wsClient, done chan struct{}) {
	pingTicker := time.NewTicker(2 * time.Second)
	defer pingTicker.Stop()

	for {
		packet, err := json.Marshal(a.Stats.Snapshot())
		if err != nil {
			return
		}
		if err := c.send(packet); err != nil {
			return
		}

		select {
		case <-done:
			return
		case <-pingTicker.C:
		}
	}
}

func (a *Api) broadcast(data interface{}) {
	packet, err := json.Marshal(data)
	if err != nil {
		a.log("could not encode event: %s", err)
		return
	}

	a.wsMutex.Lock()
	clients := make([]*wsClient, 0, len(a.wsClients))
	for c := range a.wsClients {
		clients = append(clients, c)
	}
	a.wsMutex.Unlock()

	for _, c := range clients {
		if err := c.send(packet); err != nil {
			a.log("could not send event: %s", err)
		}
	}
}
