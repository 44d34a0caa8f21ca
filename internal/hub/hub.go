// Package hub fans broadcast events out to every connected WebSocket client.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"rpg-sheets/internal/dto"
)

// WebSocket timing constants shared by hub and client pumps.
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. The channel is push-only, so
	// inbound traffic is limited to control frames and the odd stray text.
	maxMessageSize = 512
)

// hubMessage is the envelope passed on the hub's internal channel.
type hubMessage struct {
	kind   string // "register" or "unregister"
	client *Client
}

// Hub maintains the connected client set and serializes membership changes
// through its message channel. Every event goes to every client regardless
// of role or ownership; clients filter locally.
type Hub struct {
	messageChan chan hubMessage
	done        chan struct{}

	clients   map[*Client]bool
	clientsMu sync.RWMutex
}

// NewHub creates a Hub.
func NewHub() *Hub {
	return &Hub{
		messageChan: make(chan hubMessage, 256),
		done:        make(chan struct{}),
		clients:     make(map[*Client]bool),
	}
}

// Run drives the hub's membership loop. Run it in its own goroutine; it
// exits when Stop is called.
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")

	for {
		select {
		case msg := <-h.messageChan:
			switch msg.kind {
			case "register":
				h.registerClient(msg.client)
			case "unregister":
				h.unregisterClient(msg.client)
			default:
				log.Warnf("Hub: received unknown message kind: %s", msg.kind)
			}
		case <-h.done:
			log.Info("Hub is shutting down...")
			return
		}
	}
}

// Stop ends the membership loop and disconnects every client. The message
// channel itself stays open so late unregisters from client pumps cannot
// panic; they are simply never consumed.
func (h *Hub) Stop() {
	close(h.done)

	h.clientsMu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	h.clientsMu.Unlock()
}

// Register queues a client for membership. Returns false when the hub is
// overloaded and drops the request.
func (h *Hub) Register(client *Client) bool {
	return h.queue(hubMessage{kind: "register", client: client})
}

func (h *Hub) unregister(client *Client) bool {
	return h.queue(hubMessage{kind: "unregister", client: client})
}

func (h *Hub) queue(msg hubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithField("kind", msg.kind).Warn("Hub message channel full, dropping message")
		return false
	}
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to register a nil client")
		return
	}
	h.clientsMu.Lock()
	h.clients[client] = true
	h.clientsMu.Unlock()
	logrus.WithField("user_id", client.UserID()).Info("Client registered to Hub")
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to unregister a nil client")
		return
	}
	logCtx := logrus.WithField("user_id", client.UserID())

	h.clientsMu.Lock()
	if _, ok := h.clients[client]; ok {
		// Membership guards the close: a client leaves the map exactly once,
		// here or in Stop, and broadcast only sends to clients still in the
		// map while holding the read lock.
		delete(h.clients, client)
		close(client.send)
	}
	h.clientsMu.Unlock()
	logCtx.Info("Client unregistered from Hub")
}

// ClientCount reports how many clients are currently connected.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// CharacterCreated pushes a character-created event to every client.
func (h *Hub) CharacterCreated(view *dto.CharacterView) {
	h.broadcast(dto.Event{Type: dto.EventCharacterCreated, Character: view})
}

// CharacterUpdated pushes a character-updated event to every client.
func (h *Hub) CharacterUpdated(view *dto.CharacterView) {
	h.broadcast(dto.Event{Type: dto.EventCharacterUpdated, Character: view})
}

// CharacterDeleted pushes a character-deleted event. The protocol defines it
// although no server path currently produces a deletion.
func (h *Hub) CharacterDeleted(characterID uint) {
	h.broadcast(dto.Event{Type: dto.EventCharacterDeleted, CharacterID: characterID})
}

// PointsAwarded pushes the new XP counters of one character to every client.
func (h *Hub) PointsAwarded(characterID uint, currentXP, totalXP int64) {
	h.broadcast(dto.Event{
		Type:        dto.EventPointsAwarded,
		CharacterID: characterID,
		CurrentXP:   currentXP,
		TotalXP:     totalXP,
	})
}

// broadcast fans one event out to every connected client, at most once per
// session per call, skipping clients whose send queue is full rather than
// blocking the publisher. Sends stay under the read lock: the close side
// (unregister, Stop) holds the write lock, so a send channel can never be
// closed mid-broadcast.
func (h *Hub) broadcast(event dto.Event) {
	message, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).WithField("event_type", event.Type).Error("Failed to marshal broadcast event")
		return
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"event_type":      event.Type,
		"recipient_count": len(h.clients),
	})
	logCtx.Debug("Broadcasting event to clients")

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			logCtx.WithField("receiver_user_id", client.UserID()).
				Warn("Client send channel full during broadcast, skipping this client")
		}
	}
}
