package audio

import (
	"sync"

	"github.com/kbolino/go-coco/coco/pia"
)

// Channel is an unbounded single-producer/single-consumer queue of samples:
// PIA1 sends on it from the CPU thread and must never block, the pipeline
// thread drains it. It implements pia.AudioSink.
type Channel struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []pia.AudioSample
	closed bool
}

var _ pia.AudioSink = (*Channel)(nil)

// NewChannel constructs an empty, open channel.
func NewChannel() *Channel {
	c := &Channel{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Send enqueues a sample without blocking.
func (c *Channel) Send(s pia.AudioSample) {
	c.mu.Lock()
	c.queue = append(c.queue, s)
	c.mu.Unlock()
	c.cond.Signal()
}

// TryReceive returns the oldest queued sample without blocking, reporting
// false if the queue is empty.
func (c *Channel) TryReceive() (pia.AudioSample, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return pia.AudioSample{}, false
	}
	s := c.queue[0]
	c.queue = c.queue[1:]
	return s, true
}

// Close wakes any blocked receiver permanently; used for a clean shutdown.
func (c *Channel) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cond.Broadcast()
}
