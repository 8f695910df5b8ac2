package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// startCollector runs a websocket server that collects every text frame
// it receives.
func startCollector(t *testing.T) (string, chan []byte) {
	t.Helper()

	received := make(chan []byte, 256)
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			received <- data
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http"), received
}

func dialConnection(t *testing.T, url string) *Connection {
	t.Helper()

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	conn := NewConnection(ws, 64, 2*time.Second)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestConnection_ConcurrentWrites(t *testing.T) {
	url, received := startCollector(t)
	conn := dialConnection(t, url)

	// The relay, the room fan-out and the liveness monitor all write to
	// the same connection; every frame must arrive intact.
	const writers, perWriter = 10, 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				if err := conn.WriteJSON(map[string]int{"writer": i, "seq": j}); err != nil {
					t.Errorf("concurrent WriteJSON failed: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < writers*perWriter; i++ {
		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatalf("received only %d of %d frames", i, writers*perWriter)
		}
	}
}

func TestConnection_WriteAfterClose(t *testing.T) {
	url, _ := startCollector(t)
	conn := dialConnection(t, url)

	if err := conn.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != ErrConnectionClosed {
		t.Errorf("WriteJSON after close = %v, want ErrConnectionClosed", err)
	}

	if err := conn.Close(); err != nil {
		t.Errorf("repeated close = %v, want nil", err)
	}
}

func TestConnection_UnencodableValue(t *testing.T) {
	url, _ := startCollector(t)
	conn := dialConnection(t, url)

	if err := conn.WriteJSON(make(chan int)); err != ErrInvalidJSON {
		t.Errorf("WriteJSON(chan) = %v, want ErrInvalidJSON", err)
	}
}
