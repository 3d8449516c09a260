package notify

import "sync"

// Board is an in-memory Host: it remembers the notification on display so a
// page can render it.
type Board struct {
	mu      sync.RWMutex
	visible *Notification
}

func NewBoard() *Board {
	return &Board{}
}

func (b *Board) Show(n Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible = &n
}

func (b *Board) Remove(n Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.visible != nil && b.visible.ID == n.ID {
		b.visible = nil
	}
}

func (b *Board) Visible() (Notification, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.visible == nil {
		return Notification{}, false
	}
	return *b.visible, true
}
