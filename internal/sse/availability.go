package sse

import (
	"context"
	"sync"

	"github.com/Parshant679/event-booking/internal/models"
)

// AvailabilityEmitter fans availability changes out to per-event SSE clients.
type AvailabilityEmitter struct {
	mu      sync.RWMutex
	clients map[string][]chan models.Availability
}

func NewAvailabilityEmitter() *AvailabilityEmitter {
	return &AvailabilityEmitter{clients: make(map[string][]chan models.Availability)}
}

// Subscribe returns a channel that receives updates for eventID until ctx is
// done, after which the channel is closed.
func (e *AvailabilityEmitter) Subscribe(ctx context.Context, eventID string) <-chan models.Availability {
	ch := make(chan models.Availability, 10)

	e.mu.Lock()
	e.clients[eventID] = append(e.clients[eventID], ch)
	e.mu.Unlock()

	// Remove client when context is done
	go func() {
		<-ctx.Done()
		e.remove(eventID, ch)
	}()

	return ch
}

// Emit never blocks; a client whose buffer is full misses this update.
func (e *AvailabilityEmitter) Emit(a models.Availability) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, ch := range e.clients[a.EventID] {
		select {
		case ch <- a:
		default:
		}
	}
}

func (e *AvailabilityEmitter) remove(eventID string, ch chan models.Availability) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clients := e.clients[eventID]
	for i, c := range clients {
		if c == ch {
			e.clients[eventID] = append(clients[:i], clients[i+1:]...)
			close(ch)
			break
		}
	}
	if len(e.clients[eventID]) == 0 {
		delete(e.clients, eventID)
	}
}

func (e *AvailabilityEmitter) ClientCount(eventID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clients[eventID])
}
