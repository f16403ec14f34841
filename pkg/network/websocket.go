package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/blastarena/server/pkg/log"
	"github.com/blastarena/server/pkg/messages"
	"github.com/blastarena/server/pkg/queue"
)

// WSServer represents a WebSocket server.
type WSServer struct {
	port          int
	tls           *TLSConfig
	clientManager *ClientManager
	messageQueue  queue.Queue
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewWSServerOptions struct {
	Port          int
	TLS           *TLSConfig
	ClientManager *ClientManager
	MessageQueue  queue.Queue
}

// NewWSServer creates a new WebSocket server.
func NewWSServer(opts NewWSServerOptions) *WSServer {
	return &WSServer{
		port:          opts.Port,
		tls:           opts.TLS,
		clientManager: opts.ClientManager,
		messageQueue:  opts.MessageQueue,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Start starts the WebSocket server.
func (s *WSServer) Start(ctx context.Context) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("Failed to upgrade to WebSocket: %v", err)
			return
		}
		log.Debug("New WebSocket connection from %s", conn.RemoteAddr().String())
		go s.handleWSConnection(ctx, conn)
	})

	addr := fmt.Sprintf(":%d", s.port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		server.Shutdown(ctx)
	}()

	var listenAndServe func() error
	if s.tls != nil {
		log.Info("WebSocket server listening on %s with TLS", addr)
		listenAndServe = func() error {
			return server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("WebSocket server listening on %s", addr)
		listenAndServe = server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("WebSocket server closed")
			return
		}
		log.Error("WebSocket server error: %v", err)
	}
}

// handleWSConnection owns a single connection's read loop. Intents are
// enqueued for the game loop; nothing game-related happens here.
func (s *WSServer) handleWSConnection(ctx context.Context, conn *websocket.Conn) {
	clientID, err := s.clientManager.AddClient(conn)
	if err != nil {
		log.Error("Failed to register client: %v", err)
		conn.Close()
		return
	}

	defer func() {
		s.clientManager.RemoveClient(clientID)
		if err := s.messageQueue.Enqueue(ClientDisconnected{ClientID: clientID}); err != nil {
			log.Error("Failed to enqueue disconnect for client %d: %v", clientID, err)
		}
		conn.Close()
	}()

	if err := s.messageQueue.Enqueue(ClientConnected{ClientID: clientID}); err != nil {
		log.Error("Failed to enqueue connect for client %d: %v", clientID, err)
		return
	}

	for {
		msg, err := ReadMessageFromWS(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error("Error reading WebSocket message from %s: %v", conn.RemoteAddr().String(), err)
			}
			log.Trace("Connection closed for %s", conn.RemoteAddr().String())
			return
		}

		client := s.clientManager.GetClientByID(clientID)
		if client == nil {
			return
		}
		if !client.Allow() {
			log.Warn("Client %d exceeded message rate, dropping %s", clientID, msg.Type)
			continue
		}

		// Stamp the connection identity; clients cannot speak for others.
		msg.ClientID = clientID
		if err := s.messageQueue.Enqueue(ClientMessage{ClientID: clientID, Message: msg}); err != nil {
			log.Warn("Failed to enqueue %s from client %d: %v", msg.Type, clientID, err)
		}
	}
}

// WriteMessageToWS writes a Message to a WebSocket connection
func WriteMessageToWS(conn *websocket.Conn, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// ReadMessageFromWS reads a Message from a WebSocket connection
func ReadMessageFromWS(conn *websocket.Conn) (*messages.Message, error) {
	_, message, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	msg, err := messages.DeserializeMessage(message)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return msg, nil
}
