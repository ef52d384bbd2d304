// pkg/network/stream.go
package network

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write one message to a stream client.
	writeWait = 10 * time.Second
	// Time allowed between pongs from a stream client.
	pongWait = 60 * time.Second
	// Ping period, shorter than pongWait.
	pingPeriod = pongWait * 9 / 10
	// Snapshots buffered per client before new ones are dropped.
	sendBuffer = 4
)

// streamClient is one WebSocket subscriber to the snapshot feed.
type streamClient struct {
	id   uint64
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *streamClient) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// handleStream upgrades the request and pushes snapshots until the client
// goes away. Stream clients are read-only; commands go through the REST API.
func (s *Server) handleStream(c *gin.Context) {
	if !s.running.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrServerStopped.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn(c.Request.Context(), "stream upgrade failed", "error", err.Error())
		return
	}

	client := &streamClient{
		id:   s.nextClientID.Add(1),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	if data, err := s.encodeSnapshot(); err == nil {
		client.send <- data
	}
	s.addClient(client)

	go s.writePump(client)
	s.readPump(client)
}

func (s *Server) addClient(client *streamClient) {
	s.clientsLock.Lock()
	s.clients[client.id] = client
	n := len(s.clients)
	s.clientsLock.Unlock()

	s.metrics.SetStreamClients(n)
	s.logger.Info(context.Background(), "stream client connected", "client_id", client.id, "clients", n)
}

func (s *Server) removeClient(client *streamClient) {
	s.clientsLock.Lock()
	delete(s.clients, client.id)
	n := len(s.clients)
	s.clientsLock.Unlock()

	client.close()
	s.metrics.SetStreamClients(n)
	s.logger.Info(context.Background(), "stream client disconnected", "client_id", client.id, "clients", n)
}

// StreamClients returns the number of connected stream clients.
func (s *Server) StreamClients() int {
	s.clientsLock.RLock()
	defer s.clientsLock.RUnlock()
	return len(s.clients)
}

// readPump discards client messages and keeps the read deadline fresh
// with pongs. It returns when the connection fails or closes.
func (s *Server) readPump(client *streamClient) {
	defer s.removeClient(client)

	client.conn.SetReadLimit(s.cfg.MaxRequestBytes)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug(context.Background(), "stream read failed", "client_id", client.id, "error", err.Error())
			}
			return
		}
	}
}

// writePump is the only writer on the connection.
func (s *Server) writePump(client *streamClient) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-client.done:
			return

		case data := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				client.close()
				return
			}

		case <-ticker.C:
			if err := client.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				client.close()
				return
			}
		}
	}
}

// broadcastSnapshot queues the latest snapshot for every client. Clients
// that have fallen behind skip it.
func (s *Server) broadcastSnapshot() {
	s.clientsLock.RLock()
	defer s.clientsLock.RUnlock()
	if len(s.clients) == 0 {
		return
	}

	data, err := s.encodeSnapshot()
	if err != nil {
		s.logger.Error(context.Background(), "failed to encode snapshot", err)
		return
	}

	for _, client := range s.clients {
		select {
		case client.send <- data:
		default:
			s.logger.Debug(context.Background(), "stream client behind, snapshot dropped", "client_id", client.id)
		}
	}
}
