package client

import (
	"encoding/json"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"rpg-sheets/internal/dto"
)

// State is the connection lifecycle state.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Reconnect schedule: immediate, 2s, 10s, then every 30s without giving up.
// Staying in the retry loop forever is deliberate; the view becomes
// eventually consistent as soon as the server is reachable again.
var reconnectDelays = []time.Duration{0, 2 * time.Second, 10 * time.Second}

const steadyReconnectDelay = 30 * time.Second

func reconnectDelay(attempt int) time.Duration {
	if attempt < len(reconnectDelays) {
		return reconnectDelays[attempt]
	}
	return steadyReconnectDelay
}

// Conn is an explicitly owned broadcast-channel connection. It dials the
// server's /ws endpoint with the session token, forwards every decoded event
// to the Reconciler and reconnects on failure. Events in flight during a
// reconnect gap are lost; there is no replay protocol, the next mutation's
// event or a manual refetch closes the gap.
type Conn struct {
	endpoint   string
	token      string
	reconciler *Reconciler
	dialer     *websocket.Dialer

	state atomic.Int32

	mu   sync.Mutex
	conn *websocket.Conn

	done      chan struct{}
	closeOnce sync.Once
	stopped   sync.WaitGroup
}

// NewConn creates a Conn for the given ws:// endpoint and session token.
// The connection is not shared implicitly; whoever needs one constructs and
// owns it.
func NewConn(endpoint, token string, reconciler *Reconciler) *Conn {
	if reconciler == nil {
		panic("Reconciler cannot be nil for Conn")
	}
	return &Conn{
		endpoint:   endpoint,
		token:      token,
		reconciler: reconciler,
		dialer:     &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		done:       make(chan struct{}),
	}
}

// State reports the current lifecycle state.
func (c *Conn) State() State {
	return State(c.state.Load())
}

// Start begins connecting in the background.
func (c *Conn) Start() {
	c.setState(StateConnecting)
	c.stopped.Add(1)
	go c.run()
}

// Close tears the connection down and stops reconnecting. It blocks until
// the background loop has exited.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
		}
		c.mu.Unlock()
	})
	c.stopped.Wait()
	c.setState(StateDisconnected)
}

func (c *Conn) run() {
	defer c.stopped.Done()
	log := logrus.WithField("component", "broadcast_client")

	attempt := 0
	for {
		if c.isDone() {
			return
		}
		if attempt > 0 {
			delay := reconnectDelay(attempt - 1)
			log.WithFields(logrus.Fields{"attempt": attempt, "delay": delay}).Info("Reconnecting to broadcast channel")
			if !c.sleep(delay) {
				return
			}
		}

		conn, err := c.dial()
		if err != nil {
			log.WithError(err).Warn("Broadcast channel dial failed")
			c.setState(StateReconnecting)
			attempt++
			continue
		}

		// Close may have run while the dial was in flight; it closes done
		// before it inspects c.conn, so deciding under the same lock keeps
		// a late-successful connection from being kept past shutdown.
		c.mu.Lock()
		if c.isDone() {
			c.mu.Unlock()
			conn.Close()
			return
		}
		c.conn = conn
		c.mu.Unlock()
		c.setState(StateConnected)
		log.Info("Broadcast channel connected")
		attempt = 0

		c.readLoop(conn, log)

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		if c.isDone() {
			return
		}
		c.setState(StateReconnecting)
		attempt = 1 // first retry after a drop is immediate
	}
}

func (c *Conn) dial() (*websocket.Conn, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("token", c.token)
	u.RawQuery = q.Encode()

	conn, _, err := c.dialer.Dial(u.String(), nil)
	return conn, err
}

// readLoop decodes events until the connection breaks.
func (c *Conn) readLoop(conn *websocket.Conn, log *logrus.Entry) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if !c.isDone() {
				log.WithError(err).Warn("Broadcast channel read failed")
			}
			conn.Close()
			return
		}

		var event dto.Event
		if err := json.Unmarshal(message, &event); err != nil {
			log.WithError(err).Warn("Dropping undecodable broadcast event")
			continue
		}
		c.reconciler.Apply(event)
	}
}

func (c *Conn) setState(s State) {
	c.state.Store(int32(s))
}

func (c *Conn) isDone() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// sleep waits for d unless the connection is closed first.
func (c *Conn) sleep(d time.Duration) bool {
	if d <= 0 {
		return !c.isDone()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-c.done:
		return false
	}
}
