// Package notify carries transient user-visible messages: the failures the
// API gateway classifies and the route guard's access-denied notices. These
// are distinct from structured logs; they are the terminal equivalent of a
// toast message.
package notify

import (
	"fmt"
	"io"
	"sync"
)

// Notifier surfaces a single transient message to the user.
type Notifier interface {
	Notify(msg string)
}

// Console writes one line per notification.
type Console struct {
	out io.Writer
}

// NewConsole creates a Notifier writing to out, typically os.Stderr.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Notify(msg string) {
	fmt.Fprintf(c.out, "! %s\n", msg)
}

// Recorder captures notifications for tests.
type Recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *Recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

// Messages returns a copy of everything notified so far.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	copy(out, r.msgs)
	return out
}
