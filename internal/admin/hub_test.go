package admin

import "testing"

func TestHubDropsWhenFull(t *testing.T) {
	hub := NewHub(1)
	c := hub.subscribe()
	hub.Broadcast(Message{Type: "run"})
	hub.Broadcast(Message{Type: "run"})
	if len(c.send) != 1 {
		t.Fatalf("expected 1 buffered message, got %d", len(c.send))
	}
	hub.unsubscribe(c)
	hub.unsubscribe(c)
	if hub.Subscribers() != 0 {
		t.Fatalf("expected no subscribers")
	}
	if _, ok := <-c.send; !ok {
		t.Fatalf("buffered message lost on unsubscribe")
	}
}
