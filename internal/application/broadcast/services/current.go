package services

import "sync"

// Current holds the broadcaster the local agent is running, if any.
type Current struct {
	mu sync.Mutex
	b  *Broadcaster
}

func NewCurrent() *Current {
	return &Current{}
}

// Swap installs b and returns the previous broadcaster.
func (c *Current) Swap(b *Broadcaster) *Broadcaster {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.b
	c.b = b
	return prev
}

func (c *Current) Get() *Broadcaster {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.b
}

// Release clears the slot if it still holds b.
func (c *Current) Release(b *Broadcaster) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.b == b {
		c.b = nil
	}
}
