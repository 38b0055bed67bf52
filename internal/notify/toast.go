// Package notify holds transient toast notifications shown by the console.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the toast severity.
type Level string

const (
	Success Level = "success"
	Error   Level = "error"
	Warning Level = "warning"
	Info    Level = "info"
)

// Toast is one transient notification.
type Toast struct {
	ID        string
	Message   string
	Level     Level
	CreatedAt time.Time
}

// DefaultTTL is how long a toast stays before expiring on its own.
const DefaultTTL = 4 * time.Second

// Center owns the live toasts. Each toast gets its own expiry timer which
// is cancelled on manual removal, so a rapid add/remove cycle can never
// have an old timer delete a newer toast.
type Center struct {
	mu     sync.Mutex
	toasts []Toast
	timers map[string]*time.Timer
	ttl    time.Duration
}

// NewCenter creates a toast center with the default expiry.
func NewCenter() *Center {
	return &Center{timers: make(map[string]*time.Timer), ttl: DefaultTTL}
}

// NewCenterTTL creates a toast center with a custom expiry (tests).
func NewCenterTTL(ttl time.Duration) *Center {
	return &Center{timers: make(map[string]*time.Timer), ttl: ttl}
}

// Success pushes a success toast.
func (c *Center) Success(message string) string { return c.push(message, Success) }

// Error pushes an error toast.
func (c *Center) Error(message string) string { return c.push(message, Error) }

// Warning pushes a warning toast.
func (c *Center) Warning(message string) string { return c.push(message, Warning) }

// Info pushes an info toast.
func (c *Center) Info(message string) string { return c.push(message, Info) }

func (c *Center) push(message string, level Level) string {
	toast := Toast{
		ID:        uuid.New().String(),
		Message:   message,
		Level:     level,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.toasts = append(c.toasts, toast)
	c.timers[toast.ID] = time.AfterFunc(c.ttl, func() {
		c.Remove(toast.ID)
	})
	c.mu.Unlock()

	return toast.ID
}

// Remove drops a toast and cancels its expiry timer. Removing an already
// expired toast is a no-op.
func (c *Center) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			break
		}
	}
}

// Active returns the live toasts, oldest first.
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

// Drain returns and removes all live toasts, cancelling their timers.
// The console consumes toasts flash-style on page render.
func (c *Center) Drain() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.toasts
	c.toasts = nil
	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	return out
}
