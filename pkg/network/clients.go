package network

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/blastarena/server/pkg/log"
	"github.com/blastarena/server/pkg/messages"
	"github.com/blastarena/server/pkg/metrics"
)

const (
	// ClientIDMaxRetries represents the maximum number of retries when generating a unique ID
	ClientIDMaxRetries = 1024

	// Inbound intent budget per connection. Clients only need a handful
	// of intents per tick; anything past this is a misbehaving client.
	clientMessageRate  = 60
	clientMessageBurst = 120
)

// Client represents a connected client
type Client struct {
	ID   uint32
	conn *websocket.Conn
	// writeLock serializes writes; gorilla connections allow only one
	// concurrent writer.
	writeLock sync.Mutex
	limiter   *rate.Limiter
}

// Send serializes and writes a message to the client's connection.
func (c *Client) Send(msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// Allow reports whether the client is within its inbound message budget.
func (c *Client) Allow() bool {
	return c.limiter.Allow()
}

// ClientManager manages connected clients
type ClientManager struct {
	clients     map[uint32]*Client
	clientsLock sync.RWMutex
	nextID      uint32
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[uint32]*Client),
		nextID:  1,
	}
}

// AddClient adds a new client to the manager and returns its ID
func (cm *ClientManager) AddClient(conn *websocket.Conn) (uint32, error) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()
	clientID, err := cm.generateUniqueID(ClientIDMaxRetries)
	if err != nil {
		return 0, fmt.Errorf("failed to generate a unique ID: %v", err)
	}
	cm.clients[clientID] = &Client{
		ID:      clientID,
		conn:    conn,
		limiter: rate.NewLimiter(rate.Limit(clientMessageRate), clientMessageBurst),
	}
	metrics.UpdateWSConnections(len(cm.clients))
	return clientID, nil
}

// RemoveClient removes a client from the manager.
func (cm *ClientManager) RemoveClient(clientID uint32) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()
	delete(cm.clients, clientID)
	metrics.UpdateWSConnections(len(cm.clients))
}

// GetClientByID retrieves a client by its ID
func (cm *ClientManager) GetClientByID(clientID uint32) *Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	return cm.clients[clientID]
}

func (cm *ClientManager) Exists(clientID uint32) bool {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	_, ok := cm.clients[clientID]
	return ok
}

// SendTo delivers a message to one client, best effort.
func (cm *ClientManager) SendTo(clientID uint32, msg *messages.Message) {
	client := cm.GetClientByID(clientID)
	if client == nil {
		log.Trace("Dropping message for unknown client %d", clientID)
		return
	}
	if err := client.Send(msg); err != nil {
		log.Warn("Failed to send %s to client %d: %v", msg.Type, clientID, err)
	}
}

// generateUniqueID generates a unique client ID with a maximum number of retries.
// It reads from the clients map, so the lock must be held.
func (cm *ClientManager) generateUniqueID(maxRetries int) (uint32, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		id := cm.nextID
		cm.nextID++
		if id == 0 {
			continue
		}
		if _, ok := cm.clients[id]; !ok {
			return id, nil
		}
	}

	return 0, fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}
