// Package notify keeps at most one transient notification visible and
// dismisses it after a fixed delay or on explicit request.
package notify

import "time"

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Valid reports whether k is one of the three presentation variants.
func (k Kind) Valid() bool {
	switch k {
	case KindInfo, KindSuccess, KindError:
		return true
	}
	return false
}

// Notification is what the Host displays. ExpiresAt is when the auto-dismiss
// task removes it.
type Notification struct {
	ID        uint64    `json:"id"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	ShownAt   time.Time `json:"shownAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Host is the display region notifications are inserted into and removed from.
type Host interface {
	Show(n Notification)
	Remove(n Notification)
}

// Timer is a pending one-shot task.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler schedules on the runtime timer heap.
func RealScheduler() Scheduler {
	return realScheduler{}
}
