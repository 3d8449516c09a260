package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultDismissAfter = 5 * time.Second

type Option func(*Center)

func WithScheduler(s Scheduler) Option {
	return func(c *Center) { c.sched = s }
}

func WithDismissAfter(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.dismissAfter = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Center) { c.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

// Center shows one notification at a time on its Host. A newer notification
// replaces the visible one, and the replaced one's auto-dismiss task is
// cancelled so it can never act on a later notification.
type Center struct {
	mu sync.Mutex

	host         Host
	sched        Scheduler
	dismissAfter time.Duration
	now          func() time.Time
	logger       *zap.Logger

	seq     uint64
	current *Notification
	timer   Timer
	closed  bool
}

func NewCenter(host Host, opts ...Option) *Center {
	c := &Center{
		host:         host,
		sched:        RealScheduler(),
		dismissAfter: DefaultDismissAfter,
		now:          time.Now,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify removes whatever is visible and shows message with the given kind.
// Unknown kinds fall back to info. After Close nothing is shown or scheduled.
func (c *Center) Notify(message string, kind Kind) Notification {
	if !kind.Valid() {
		kind = KindInfo
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Notification{Message: message, Kind: kind}
	}
	c.removeLocked()

	c.seq++
	shownAt := c.now()
	n := Notification{
		ID:        c.seq,
		Message:   message,
		Kind:      kind,
		ShownAt:   shownAt,
		ExpiresAt: shownAt.Add(c.dismissAfter),
	}
	c.current = &n
	c.host.Show(n)

	id := n.ID
	c.timer = c.sched.AfterFunc(c.dismissAfter, func() { c.expire(id) })

	c.logger.Debug("notification shown",
		zap.Uint64("notification_id", id),
		zap.String("kind", string(kind)))
	return n
}

// Dismiss removes the visible notification, if any.
func (c *Center) Dismiss() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked()
}

// DismissID removes the visible notification only when it is the one with id.
// Stale ids are ignored.
func (c *Center) DismissID(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil || c.current.ID != id {
		return false
	}
	return c.removeLocked()
}

func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

// Close cancels the pending auto-dismiss task and clears the host.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.removeLocked()
}

func (c *Center) expire(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil || c.current.ID != id {
		return
	}
	c.timer = nil
	c.removeLocked()
	c.logger.Debug("notification expired", zap.Uint64("notification_id", id))
}

func (c *Center) removeLocked() bool {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.current == nil {
		return false
	}
	n := *c.current
	c.current = nil
	c.host.Remove(n)
	return true
}
