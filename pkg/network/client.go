// pkg/network/client.go
package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/opd-ai/go-orrery/pkg/config"
	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/event"
	"github.com/opd-ai/go-orrery/pkg/logging"
	"github.com/opd-ai/go-orrery/pkg/validation"
)

// Client event types
const (
	ClientConnected       event.Type = "client_connected"
	ClientDisconnected    event.Type = "client_disconnected"
	ClientReconnected     event.Type = "client_reconnected"
	ClientReconnectFailed event.Type = "client_reconnect_failed"
)

// Client talks to an orrery server: it follows the snapshot stream and
// sends commands over the REST API. Every call goes through a circuit
// breaker.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	dialer  *websocket.Dialer
	service *NetworkService

	eventBus  *event.Bus
	logger    *logging.Logger
	snapshots chan *engine.Snapshot

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closed    bool
	ctx       context.Context
	cancel    context.CancelFunc

	requestTimeout       time.Duration
	reconnectDelay       time.Duration
	maxReconnectAttempts int
}

// NewClient creates a client for the server in cfg.ServerURL. Connection
// events are published on eventBus.
func NewClient(cfg config.ClientConfig, eventBus *event.Bus, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	base, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return nil, logging.WrapError(err, "invalid server url %q", cfg.ServerURL)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", cfg.ServerURL)
	}

	return &Client{
		baseURL:              base,
		http:                 &http.Client{Timeout: cfg.RequestTimeout},
		dialer:               &websocket.Dialer{HandshakeTimeout: cfg.RequestTimeout},
		service:              NewNetworkService(cfg, logger),
		eventBus:             eventBus,
		logger:               logger,
		snapshots:            make(chan *engine.Snapshot, 10),
		requestTimeout:       cfg.RequestTimeout,
		reconnectDelay:       cfg.ReconnectDelay,
		maxReconnectAttempts: cfg.MaxReconnectAttempts,
	}, nil
}

// Snapshots returns the channel of received snapshots. Snapshots are
// dropped while the channel is full.
func (c *Client) Snapshots() <-chan *engine.Snapshot {
	return c.snapshots
}

// Connected reports whether the snapshot stream is open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Connect opens the snapshot stream, retrying through the circuit breaker.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	c.closed = false
	err := c.dial(ctx)
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.publish(ClientConnected)
	return nil
}

// dial opens the stream and starts the read loop. Callers hold c.mu.
func (c *Client) dial(ctx context.Context) error {
	wsURL := c.streamURL()

	var conn *websocket.Conn
	err := c.service.ExecuteWithRetry(ctx, func() error {
		var err error
		var resp *http.Response
		conn, resp, err = c.dialer.DialContext(ctx, wsURL, nil)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.conn = conn
	c.connected = true
	go c.messageLoop(c.ctx, conn)

	c.logger.Info(ctx, "connected to orrery server", "url", wsURL)
	return nil
}

func (c *Client) streamURL() string {
	u := *c.baseURL
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String()
}

func (c *Client) apiURL(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/" + path
	return u.String()
}

// Disconnect closes the snapshot stream without reconnecting.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if !c.connected {
		return nil
	}
	c.cleanupConnection()
	return nil
}

// cleanupConnection closes the stream. Callers hold c.mu.
func (c *Client) cleanupConnection() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.conn != nil {
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.conn.Close()
		c.conn = nil
	}
	c.connected = false
}

// messageLoop reads snapshots until the stream fails or is closed.
func (c *Client) messageLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.handleDisconnect(conn, err)
			}
			return
		}
		c.handleSnapshot(data)
	}
}

func (c *Client) handleSnapshot(data []byte) {
	var snap engine.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.logger.Warn(context.Background(), "invalid snapshot", "error", err.Error())
		return
	}

	select {
	case c.snapshots <- &snap:
	default:
	}
}

// handleDisconnect handles an unexpected loss of the stream.
func (c *Client) handleDisconnect(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn || c.closed {
		c.mu.Unlock()
		return
	}
	c.cleanupConnection()
	c.mu.Unlock()

	c.logger.Warn(context.Background(), "lost connection to orrery server", "error", err.Error())
	c.publish(ClientDisconnected)

	go c.attemptReconnect()
}

// attemptReconnect tries to reopen the stream a limited number of times.
func (c *Client) attemptReconnect() {
	for attempt := 1; attempt <= c.maxReconnectAttempts; attempt++ {
		time.Sleep(c.reconnectDelay)

		c.mu.Lock()
		if c.closed || c.connected {
			c.mu.Unlock()
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), c.requestTimeout)
		err := c.dial(ctx)
		cancel()
		c.mu.Unlock()

		if err == nil {
			c.publish(ClientReconnected)
			return
		}
		c.logger.Debug(context.Background(), "reconnect failed", "attempt", attempt, "error", err.Error())
	}

	c.publish(ClientReconnectFailed)
}

func (c *Client) publish(t event.Type) {
	if c.eventBus == nil {
		return
	}
	c.eventBus.Publish(&event.BaseEvent{EventType: t, Source: c})
}

// SendCommand posts req to the server. Refusals come back wrapping the
// same sentinel errors the server used.
func (c *Client) SendCommand(ctx context.Context, req validation.CommandRequest) (*CommandResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, logging.WrapError(err, "failed to marshal command")
	}

	var resp CommandResponse
	if err := c.do(ctx, http.MethodPost, "commands", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Bodies fetches the current state of every body.
func (c *Client) Bodies(ctx context.Context) ([]engine.BodyState, error) {
	var resp struct {
		Data []engine.BodyState `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "bodies", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Body fetches one body with its long description.
func (c *Client) Body(ctx context.Context, name string) (*BodyDetail, error) {
	var resp struct {
		Data BodyDetail `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "bodies/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// do performs one API call through the circuit breaker. Client errors
// (4xx) are not counted as breaker failures.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var apiErr error
	err := c.service.Execute(ctx, func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.apiURL(path), reader)
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("server error: %s", resp.Status)
		}
		if resp.StatusCode != http.StatusOK {
			apiErr = decodeAPIError(resp)
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
	if err != nil {
		return err
	}
	return apiErr
}

// decodeAPIError turns a refused request back into the matching sentinel.
func decodeAPIError(resp *http.Response) error {
	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		body.Error = resp.Status
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		sentinel = validation.ErrRateLimited
	case http.StatusNotFound:
		sentinel = engine.ErrUnknownBody
	case http.StatusConflict:
		sentinel = engine.ErrJourneyRejected
	case http.StatusBadRequest:
		sentinel = engine.ErrInvalidCommand
	default:
		return fmt.Errorf("request failed: %s", body.Error)
	}
	return fmt.Errorf("%w: %s", sentinel, body.Error)
}
