package network

import (
	"sync"
	"testing"
)

func TestEnqueueAfterShutdownDrops(t *testing.T) {
	c := &Client{send: make(chan Message, 4)}
	c.shutdown()

	// Sem pânico: a mensagem é descartada em vez de ir para um canal fechado.
	c.Enqueue(Message{Type: "RESPONSE_SUCCESS"})

	if _, ok := <-c.send; ok {
		t.Error("message delivered after shutdown")
	}
}

func TestEnqueueDropsWhenBufferFull(t *testing.T) {
	c := &Client{send: make(chan Message, 1)}

	c.Enqueue(Message{Type: "first"})
	c.Enqueue(Message{Type: "second"}) // não pode bloquear

	got := <-c.send
	if got.Type != "first" {
		t.Errorf("delivered %q, want %q", got.Type, "first")
	}
	select {
	case msg := <-c.send:
		t.Errorf("unexpected second delivery: %q", msg.Type)
	default:
	}
}

func TestEnqueueConcurrentWithShutdown(t *testing.T) {
	// Salas e matchmaker enfileiram de goroutines próprias enquanto o Hub
	// desregistra o cliente. Nada disso pode panicar nem correr dados.
	c := &Client{send: make(chan Message, 8)}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Enqueue(Message{Type: "RESPONSE_SUCCESS"})
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.shutdown()
	}()
	wg.Wait()
}
