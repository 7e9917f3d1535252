package ws

import (
	"sync"
	"testing"
)

// addClient registers a bare client directly, bypassing the HTTP upgrade.
func addClient(h *Hub) *client {
	c := &client{
		send: make(chan []byte, 1),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// A publish racing a disconnect must never send on a closed channel: the
// publisher may snapshot the client set just before unregister runs.
func TestPublish_ConcurrentDisconnect(t *testing.T) {
	h := New()
	payload := struct {
		N int `json:"n"`
	}{N: 1}

	for i := 0; i < 1000; i++ {
		c := addClient(h)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := h.Publish("snapshot", payload); err != nil {
				t.Errorf("Publish: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			h.unregister(c)
		}()
		wg.Wait()
	}

	if n := h.Count(); n != 0 {
		t.Errorf("Count: got %d, want 0", n)
	}
}

func TestUnregister_Twice(t *testing.T) {
	h := New()
	c := addClient(h)
	h.unregister(c)
	h.unregister(c) // second call must be a no-op, not a double close
	if n := h.Count(); n != 0 {
		t.Errorf("Count: got %d, want 0", n)
	}
}

// A disconnect landing between the publisher's snapshot of the client set
// and the send is skipped, even when the client's buffer is full.
func TestPublish_FullBufferAfterDisconnect(t *testing.T) {
	h := New()
	c := addClient(h)

	c.send <- []byte("x") // writer is gone, the buffer stays full
	close(c.done)         // the disconnect signal, client still in the set

	if err := h.Publish("snapshot", struct{}{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}
