package server

import (
	"fmt"
	"net/http"
	"sync"
)

// ReloadPath is the Server-Sent Events endpoint registered when watching.
const ReloadPath = "/__devserve/events"

// reloadHub fans reload signals out to connected event-stream clients.
type reloadHub struct {
	mu      sync.Mutex
	clients map[chan struct{}]struct{}
	done    chan struct{}
	once    sync.Once
}

func newReloadHub() *reloadHub {
	return &reloadHub{
		clients: make(map[chan struct{}]struct{}),
		done:    make(chan struct{}),
	}
}

func (h *reloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Connection", "keep-alive")

	rc := http.NewResponseController(w)

	// Buffered so a reload that arrives mid-write is not lost.
	clientChan := make(chan struct{}, 1)
	h.mu.Lock()
	h.clients[clientChan] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, clientChan)
		h.mu.Unlock()
	}()

	_, _ = fmt.Fprintf(w, "data: connected\n\n")
	if err := rc.Flush(); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.done:
			return
		case <-clientChan:
			_, _ = fmt.Fprintf(w, "data: reload\n\n")
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

// Broadcast signals every connected client once.
func (h *reloadHub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for clientChan := range h.clients {
		select {
		case clientChan <- struct{}{}:
		default:
			// Client already has a pending reload
		}
	}
}

// Clients returns the number of connected clients.
func (h *reloadHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close ends all open streams so server shutdown does not wait on them.
func (h *reloadHub) Close() {
	h.once.Do(func() { close(h.done) })
}
