package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func startHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()
	return startHubWith(t, func() *InitData {
		return &InitData{History: []string{"bakery"}, Favorites: []string{}}
	})
}

func startHubWith(t *testing.T, initData func() *InitData) (*Hub, *websocket.Conn) {
	t.Helper()

	hub := NewHub(zap.NewNop())
	hub.SetInitDataProvider(initData)
	go hub.Run()
	t.Cleanup(hub.Stop)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		client := NewClient(hub, conn)
		client.Register()
		go client.ReadPump()
		go client.WritePump()
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return hub, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return msg
}

func TestHubSendsInitData(t *testing.T) {
	_, conn := startHub(t)

	msg := readMessage(t, conn)
	if msg.Type != MsgTypeInit {
		t.Fatalf("type = %s, want %s", msg.Type, MsgTypeInit)
	}
	data, ok := msg.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected init payload: %#v", msg.Data)
	}
	if _, ok := data["history"]; !ok {
		t.Errorf("init payload missing history")
	}
}

func TestHubBroadcast(t *testing.T) {
	hub, conn := startHub(t)
	readMessage(t, conn) // init

	hub.BroadcastMessage(MsgTypeFavoriteRemoved, map[string]string{"place_id": "abc"})

	msg := readMessage(t, conn)
	if msg.Type != MsgTypeFavoriteRemoved {
		t.Fatalf("type = %s, want %s", msg.Type, MsgTypeFavoriteRemoved)
	}
	if hub.ClientCount() != 1 {
		t.Errorf("client count = %d, want 1", hub.ClientCount())
	}
}

func TestHubSlowInitDoesNotBlockBroadcast(t *testing.T) {
	release := make(chan struct{})
	hub, conn := startHubWith(t, func() *InitData {
		<-release
		return &InitData{History: []string{}, Favorites: []string{}}
	})
	defer close(release)

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client was not registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.BroadcastMessage(MsgTypeSearchRecorded, map[string]string{"query": "bakery"})

	msg := readMessage(t, conn)
	if msg.Type != MsgTypeSearchRecorded {
		t.Fatalf("type = %s, want %s while init data is pending", msg.Type, MsgTypeSearchRecorded)
	}
}
