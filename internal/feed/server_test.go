package feed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/go-cmp/cmp"

	"github.com/pencils57/scenenav/internal/registry"
)

func startServer(t *testing.T, snapshot SnapshotFunc) *Server {
	t.Helper()
	server := NewServer(&Config{Port: 0, Logger: log.New(io.Discard, "", 0)}, snapshot)
	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	t.Cleanup(func() { server.Stop() })
	return server
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) Message {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to decode message: %v", err)
	}
	return msg
}

func registryPayload(t *testing.T, msg Message) RegistryData {
	t.Helper()
	if msg.Type != MessageTypeRegistry {
		t.Fatalf("message type = %s, want %s", msg.Type, MessageTypeRegistry)
	}
	var data RegistryData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	return data
}

func TestSnapshotOnConnectAndPublish(t *testing.T) {
	initial := []registry.Bookmark{{Name: "Lobby", Path: "/a/Lobby.unity"}}
	server := startServer(t, func() ([]registry.Bookmark, error) { return initial, nil })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws://"+server.Addr()+"/ws", nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	first := registryPayload(t, readMessage(t, ctx, conn))
	if diff := cmp.Diff(initial, first.Bookmarks); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	updated := []registry.Bookmark{
		{Name: "Lobby", Path: "/a/Lobby.unity"},
		{Name: "Shop", Path: "/b/Shop.unity"},
	}
	server.PublishRegistry(updated)

	second := registryPayload(t, readMessage(t, ctx, conn))
	if second.Count != 2 {
		t.Errorf("Count = %d, want 2", second.Count)
	}
	if diff := cmp.Diff(updated, second.Bookmarks); diff != "" {
		t.Errorf("published mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotError(t *testing.T) {
	server := startServer(t, func() ([]registry.Bookmark, error) {
		return nil, errors.New("malformed bookmark document")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws://"+server.Addr()+"/ws", nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	msg := readMessage(t, ctx, conn)
	if msg.Type != MessageTypeError {
		t.Fatalf("message type = %s, want %s", msg.Type, MessageTypeError)
	}
	var data ErrorData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Error == "" {
		t.Error("error payload is empty")
	}
}

func TestEmptyRegistrySendsEmptyList(t *testing.T) {
	server := startServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws://"+server.Addr()+"/ws", nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	msg := readMessage(t, ctx, conn)
	if string(msg.Data) != `{"count":0,"bookmarks":[]}` {
		t.Errorf("payload = %s", msg.Data)
	}
}

func TestHealth(t *testing.T) {
	server := startServer(t, nil)

	resp, err := http.Get("http://" + server.Addr() + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestListensOnLoopbackOnly(t *testing.T) {
	server := startServer(t, nil)

	host, _, err := net.SplitHostPort(server.Addr())
	if err != nil {
		t.Fatalf("SplitHostPort(%q) failed: %v", server.Addr(), err)
	}
	if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
		t.Errorf("server listens on %s, want a loopback address", server.Addr())
	}
}
