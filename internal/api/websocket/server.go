package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/fortuna/courtvision/internal/auth"
	"github.com/fortuna/courtvision/internal/chat"
	"github.com/fortuna/courtvision/internal/publisher"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // The password gate is the access control, not the origin.
	},
}

// Server hosts the chat loop and the report-refresh feed.
type Server struct {
	port      string
	server    *http.Server
	hub       *Hub
	gate      *auth.Gate
	chat      *chat.Service
	publisher *publisher.RedisStreamPublisher
}

// NewServer creates a new WebSocket server.
func NewServer(gate *auth.Gate, chatSvc *chat.Service, pub *publisher.RedisStreamPublisher) *Server {
	return &Server{
		hub:       NewHub(),
		gate:      gate,
		chat:      chatSvc,
		publisher: pub,
	}
}

// Start starts the WebSocket server and the stream consumer feeding the hub.
func (s *Server) Start(ctx context.Context, port string) error {
	s.port = port

	go s.hub.Run()
	go s.consumeEvents(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/chat", s.handleChat)
	mux.HandleFunc("/ws/updates", s.handleUpdates)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	log.Printf("WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// consumeEvents forwards dashboard events from the Redis stream to the hub.
func (s *Server) consumeEvents(ctx context.Context) {
	err := s.publisher.Consume(ctx, "", func(eventType string, data []byte) {
		envelope, err := json.Marshal(map[string]interface{}{
			"type": eventType,
			"data": json.RawMessage(data),
		})
		if err != nil {
			return
		}
		s.hub.Broadcast(envelope)
	})
	if err != nil && ctx.Err() == nil {
		log.Printf("[ws] event consumer stopped: %v", err)
	}
}

// authorize verifies the session token passed as a query parameter (browser
// WebSocket clients cannot set headers).
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID, err := s.gate.Verify(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return "", false
	}
	return sessionID, true
}

// handleUpdates subscribes a dashboard page to refresh events.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authorize(w, r); !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

type chatMessage struct {
	Question string `json:"question"`
}

type chatReply struct {
	Answer string `json:"answer"`
}

// handleChat runs the chat-style question/answer loop over one connection.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.authorize(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	for {
		var msg chatMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] chat connection error: %v", err)
			}
			return
		}

		answer := s.chat.Ask(r.Context(), sessionID, msg.Question)
		if err := conn.WriteJSON(chatReply{Answer: answer}); err != nil {
			return
		}
	}
}

// handleHealth returns WebSocket server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
