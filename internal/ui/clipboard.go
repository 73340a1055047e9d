package ui

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard abstracts the system clipboard so tests and headless
// sessions (no X11/Wayland selection available) keep copy/paste working
// through an in-process buffer.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// SystemClipboard uses the OS clipboard and falls back to an internal
// buffer when the platform has none.
type SystemClipboard struct {
	mu       sync.Mutex
	fallback string
	useLocal bool
}

// NewSystemClipboard probes clipboard availability once.
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{useLocal: clipboard.Unsupported}
}

func (c *SystemClipboard) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = text
	if c.useLocal {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		// Degrade to the local buffer for the rest of the session.
		c.useLocal = true
	}
	return nil
}

func (c *SystemClipboard) Read() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.useLocal {
		if text, err := clipboard.ReadAll(); err == nil {
			return text, nil
		}
		c.useLocal = true
	}
	return c.fallback, nil
}

// MemoryClipboard is a test double.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *MemoryClipboard) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

func (c *MemoryClipboard) Read() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}
