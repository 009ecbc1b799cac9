// Package feed serves the bookmark registry to websocket clients.
//
// Each client receives a registry snapshot when it connects and again
// whenever the registry document changes, so a panel outside the terminal
// can mirror the bookmark list live.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/pencils57/scenenav/internal/registry"
)

// MessageType defines the type of feed message.
type MessageType string

const (
	// MessageTypeRegistry carries a full registry snapshot.
	MessageTypeRegistry MessageType = "registry"

	// MessageTypeError reports that the registry could not be read.
	MessageTypeError MessageType = "error"
)

// Message is the envelope sent to clients.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// RegistryData is the payload of a registry message.
type RegistryData struct {
	Count     int                 `json:"count"`
	Bookmarks []registry.Bookmark `json:"bookmarks"`
}

// ErrorData is the payload of an error message.
type ErrorData struct {
	Error string `json:"error"`
}

// SnapshotFunc returns the current bookmarks.
type SnapshotFunc func() ([]registry.Bookmark, error)

// Config holds server configuration.
type Config struct {
	// Port to listen on; 0 picks a free port.
	Port int

	// Logger for server activity (default: log.Default()).
	Logger *log.Logger
}

const (
	// queueSize is how many messages a client may fall behind before it
	// is dropped.
	queueSize    = 16
	writeTimeout = 5 * time.Second
)

var errSlowClient = errors.New("client fell behind")

// subscriber is one connected client and its pending messages.
type subscriber struct {
	conn  *websocket.Conn
	queue chan []byte
}

// Server fans registry messages out to websocket clients. Every client has
// its own queue and writer, so one stalled client never delays the others.
type Server struct {
	port     int
	snapshot SnapshotFunc
	logger   *log.Logger

	ln  net.Listener
	srv *http.Server

	mu   sync.Mutex
	subs map[*subscriber]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	done   sync.WaitGroup
}

// NewServer creates a feed server. snapshot is called for every new client;
// a nil snapshot sends an empty registry.
func NewServer(config *Config, snapshot SnapshotFunc) *Server {
	cfg := Config{Port: 8080}
	if config != nil {
		cfg = *config
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		port:     cfg.Port,
		snapshot: snapshot,
		logger:   cfg.Logger,
		subs:     make(map[*subscriber]struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start listens on 127.0.0.1 and serves /ws, /health and / in the
// background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", listenAddr(s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	s.ln = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/health", s.serveHealth)
	mux.HandleFunc("/", s.serveIndex)
	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	s.done.Add(1)
	go func() {
		defer s.done.Done()
		s.logger.Printf("Feed listening on %s", ln.Addr())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("Feed server failed: %v", err)
		}
	}()
	return nil
}

// Stop disconnects every client and shuts the server down.
func (s *Server) Stop() error {
	s.cancel()
	if s.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.srv.Shutdown(ctx)
	s.done.Wait()
	if err != nil {
		return fmt.Errorf("failed to stop feed: %w", err)
	}
	s.logger.Print("Feed stopped")
	return nil
}

// Broadcast queues msg for every client. A client whose queue is full is
// disconnected.
func (s *Server) Broadcast(msg Message) {
	data, err := encode(msg)
	if err != nil {
		s.logger.Printf("Failed to encode %s message: %v", msg.Type, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		select {
		case sub.queue <- data:
		default:
			delete(s.subs, sub)
			close(sub.queue)
		}
	}
}

// PublishRegistry broadcasts a registry snapshot.
func (s *Server) PublishRegistry(bookmarks []registry.Bookmark) {
	s.Broadcast(registryMessage(bookmarks))
}

// PublishError broadcasts a failure to read the registry.
func (s *Server) PublishError(err error) {
	s.Broadcast(errorMessage(err))
}

// Addr returns the listening address.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return listenAddr(s.port)
}

// listenAddr keeps the feed on the loopback interface; it is a local view
// of the registry, not a network service.
func listenAddr(port int) string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		s.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	sub := s.subscribe(conn)
	s.logger.Printf("Client %s connected (total: %d)", r.RemoteAddr, s.ClientCount())

	// Clients only listen; CloseRead handles pings and notices the close.
	err = s.writeLoop(conn.CloseRead(s.ctx), sub)
	s.unsubscribe(sub)

	switch {
	case errors.Is(err, errSlowClient):
		_ = conn.Close(websocket.StatusPolicyViolation, "too slow")
	case s.ctx.Err() != nil:
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
	default:
		_ = conn.CloseNow()
	}
	s.logger.Printf("Client %s disconnected (total: %d)", r.RemoteAddr, s.ClientCount())
}

// subscribe registers conn with the current snapshot already queued. Both
// happen under the lock so no broadcast can slip in ahead of the snapshot.
func (s *Server) subscribe(conn *websocket.Conn) *subscriber {
	sub := &subscriber{conn: conn, queue: make(chan []byte, queueSize)}

	s.mu.Lock()
	defer s.mu.Unlock()
	if data, err := encode(s.snapshotMessage()); err == nil {
		sub.queue <- data
	}
	s.subs[sub] = struct{}{}
	return sub
}

func (s *Server) unsubscribe(sub *subscriber) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
}

func (s *Server) writeLoop(ctx context.Context, sub *subscriber) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data, ok := <-sub.queue:
			if !ok {
				return errSlowClient
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := sub.conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

func (s *Server) snapshotMessage() Message {
	if s.snapshot == nil {
		return registryMessage(nil)
	}
	bookmarks, err := s.snapshot()
	if err != nil {
		return errorMessage(err)
	}
	return registryMessage(bookmarks)
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Status  string `json:"status"`
		Clients int    `json:"clients"`
	}{"ok", s.ClientCount()})
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "scenenav registry feed\n\nwebsocket: ws://%s/ws\nhealth:    http://%s/health\n", r.Host, r.Host)
}

func registryMessage(bookmarks []registry.Bookmark) Message {
	if bookmarks == nil {
		bookmarks = []registry.Bookmark{}
	}
	data, _ := json.Marshal(RegistryData{Count: len(bookmarks), Bookmarks: bookmarks})
	return Message{Type: MessageTypeRegistry, Data: data}
}

func errorMessage(err error) Message {
	data, _ := json.Marshal(ErrorData{Error: err.Error()})
	return Message{Type: MessageTypeError, Data: data}
}

func encode(msg Message) ([]byte, error) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	return json.Marshal(msg)
}
