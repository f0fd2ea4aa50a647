package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addClient registers directly on the map so tests do not need a
// running hub goroutine.
func addClient(h *Hub, id uint, role string, buffer int) *Client {
	c := &Client{
		ID:   id,
		Role: role,
		Send: make(chan []byte, buffer),
		Hub:  h,
	}
	h.mutex.Lock()
	h.clients[c] = true
	h.mutex.Unlock()
	return c
}

func TestBroadcastToUser_DeliversToMatchingClient(t *testing.T) {
	hub := NewHub()
	target := addClient(hub, 1, "driver", 1)
	other := addClient(hub, 2, "driver", 1)

	hub.BroadcastToUser(1, []byte("hello"))

	require.Len(t, target.Send, 1)
	assert.Equal(t, []byte("hello"), <-target.Send)
	assert.Empty(t, other.Send)
}

func TestBroadcastToRole_FiltersByRole(t *testing.T) {
	hub := NewHub()
	driver := addClient(hub, 1, "driver", 1)
	booker := addClient(hub, 2, "booker", 1)

	hub.BroadcastToRole("booker", []byte("update"))

	assert.Empty(t, driver.Send)
	require.Len(t, booker.Send, 1)
}

// A client whose Send buffer is full gets dropped instead of blocking
// the sender.
func TestBroadcastToUser_DropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := addClient(hub, 1, "driver", 1)
	slow.Send <- []byte("backlog")

	hub.BroadcastToUser(1, []byte("next"))

	assert.Equal(t, 0, hub.GetConnectedClients())
	// Channel is closed after the drop; draining must not block.
	<-slow.Send
	_, open := <-slow.Send
	assert.False(t, open)
}

// Concurrent notifications to the same slow clients must not corrupt
// the client map or double-close a Send channel. Run with -race.
func TestBroadcast_ConcurrentSendersToSlowClients(t *testing.T) {
	hub := NewHub()
	for id := uint(1); id <= 8; id++ {
		c := addClient(hub, id, "booker", 1)
		c.Send <- []byte("backlog") // every buffer starts full
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for id := uint(1); id <= 8; id++ {
				hub.BroadcastToUser(id, []byte(fmt.Sprintf("msg-%d", g)))
			}
			hub.BroadcastToRole("booker", []byte("role-msg"))
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 0, hub.GetConnectedClients())
}
